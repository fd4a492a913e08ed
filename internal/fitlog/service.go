package fitlog

import (
	"context"
	"fmt"

	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=fitlog_test

type Repository interface {
	EventLister
	AddMeal(ctx context.Context, meal Meal) (Meal, error)
	AddWorkout(ctx context.Context, workout Workout) (Workout, error)
	AddMeasurement(ctx context.Context, measurement Measurement) (Measurement, error)
	AddJournalEntry(ctx context.Context, entry JournalEntry) (JournalEntry, error)
	Delete(ctx context.Context, collection Collection, userID string, id int) error
}

// ChangePublisher announces that a collection of a user changed, so the
// challenge progress of that user can be reconciled.
type ChangePublisher interface {
	Publish(ctx context.Context, change Change) error
}

type Service struct {
	repo           Repository
	snapshots      *SnapshotLoader
	publisher      ChangePublisher
	metricsManager *metrics.Manager
}

func NewService(
	repo Repository,
	snapshots *SnapshotLoader,
	publisher ChangePublisher,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		repo:           repo,
		snapshots:      snapshots,
		publisher:      publisher,
		metricsManager: metricsManager,
	}
}

func (s *Service) AddMeal(ctx context.Context, meal Meal) (_ Meal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.fitlog.meals.add")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	added, err := s.repo.AddMeal(ctx, meal)
	if err != nil {
		return Meal{}, fmt.Errorf("add meal: %w", err)
	}
	s.changed(ctx, meal.UserID, CollectionMeals)
	return added, nil
}

func (s *Service) AddWorkout(ctx context.Context, workout Workout) (_ Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.fitlog.workouts.add")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	added, err := s.repo.AddWorkout(ctx, workout)
	if err != nil {
		return Workout{}, fmt.Errorf("add workout: %w", err)
	}
	s.changed(ctx, workout.UserID, CollectionWorkouts)
	return added, nil
}

func (s *Service) AddMeasurement(ctx context.Context, measurement Measurement) (_ Measurement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.fitlog.measurements.add")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	added, err := s.repo.AddMeasurement(ctx, measurement)
	if err != nil {
		return Measurement{}, fmt.Errorf("add measurement: %w", err)
	}
	s.changed(ctx, measurement.UserID, CollectionMeasurements)
	return added, nil
}

func (s *Service) AddJournalEntry(ctx context.Context, entry JournalEntry) (_ JournalEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.fitlog.journal.add")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	added, err := s.repo.AddJournalEntry(ctx, entry)
	if err != nil {
		return JournalEntry{}, fmt.Errorf("add journal entry: %w", err)
	}
	s.changed(ctx, entry.UserID, CollectionJournal)
	return added, nil
}

func (s *Service) Delete(ctx context.Context, collection Collection, userID string, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.fitlog.delete")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if err := s.repo.Delete(ctx, collection, userID, id); err != nil {
		return fmt.Errorf("delete %s event %d: %w", collection, id, err)
	}
	s.changed(ctx, userID, collection)
	return nil
}

func (s *Service) Snapshot(ctx context.Context, userID string) (_ *Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.fitlog.snapshot")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	snapshot, err := s.snapshots.Snapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return snapshot, nil
}

// changed evicts the cached collection and announces the change. The event
// is already stored at this point, so a failed publish is only logged.
func (s *Service) changed(ctx context.Context, userID string, collection Collection) {
	s.snapshots.Invalidate(userID, collection)
	if s.metricsManager != nil {
		s.metricsManager.CounterEventsLogged.WithLabelValues(collection.String()).Inc()
	}

	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, Change{UserID: userID, Collection: collection}); err != nil {
		log.Errorf("publish %s change of user %s: %s", collection, userID, err)
	}
}
