package challenges

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/fitcoach/internal/aggregate"
	"github.com/2beens/fitcoach/internal/fitlog"
	"github.com/2beens/fitcoach/internal/streak"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=challenges_test

type Repository interface {
	ListActive(ctx context.Context, userID string) ([]Challenge, error)
	ListByUser(ctx context.Context, userID string) ([]Challenge, error)
	Get(ctx context.Context, userID string, id uuid.UUID) (Challenge, error)
	Add(ctx context.Context, ch Challenge) (Challenge, error)
	SetStatus(ctx context.Context, userID string, id uuid.UUID, status Status) error
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}

type SnapshotLoader interface {
	Snapshot(ctx context.Context, userID string) (*fitlog.Snapshot, error)
}

type ChangePublisher interface {
	Publish(ctx context.Context, change fitlog.Change) error
}

// MetricsReport is the current value of every registered metric of a user,
// plus the longest streaks ever reached.
type MetricsReport struct {
	UserID         string                `json:"userId"`
	ComputedAt     time.Time             `json:"computedAt"`
	Metrics        map[MetricKey]float64 `json:"metrics"`
	LongestStreaks map[string]int        `json:"longestStreaks"`
}

type Service struct {
	repo      Repository
	catalog   *Catalog
	registry  *Registry
	snapshots SnapshotLoader
	publisher ChangePublisher
	now       func() time.Time
}

// NewService creates the challenges service; now provides the reference
// instant for metric computations and defaults to time.Now.
func NewService(
	repo Repository,
	catalog *Catalog,
	registry *Registry,
	snapshots SnapshotLoader,
	publisher ChangePublisher,
	now func() time.Time,
) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:      repo,
		catalog:   catalog,
		registry:  registry,
		snapshots: snapshots,
		publisher: publisher,
		now:       now,
	}
}

func (s *Service) List(ctx context.Context, userID string) (_ []Challenge, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.challenges.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	chs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	return ResolveKeys(s.catalog, chs), nil
}

// Join starts the catalog challenge identified by key for the user.
func (s *Service) Join(ctx context.Context, userID string, key MetricKey, startDate, endDate *time.Time) (_ Challenge, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.challenges.join")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("metric_key", string(key)))

	def, ok := s.catalog.Definition(key)
	if !ok {
		return Challenge{}, fmt.Errorf("%w: %s", ErrUnknownDefinition, key)
	}
	if _, ok := s.registry.Lookup(key); !ok {
		return Challenge{}, fmt.Errorf("%w: no metric for %s", ErrUnknownDefinition, key)
	}

	added, err := s.repo.Add(ctx, Challenge{
		UserID:    userID,
		Title:     def.Title,
		MetricKey: def.Key,
		Category:  def.Category,
		Target:    def.Target,
		Status:    StatusActive,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return Challenge{}, fmt.Errorf("add challenge: %w", err)
	}

	s.challengesChanged(ctx, userID)
	return added, nil
}

// SetStatus pauses or resumes a challenge. Completion and expiry are not set
// by users.
func (s *Service) SetStatus(ctx context.Context, userID string, id uuid.UUID, status Status) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.challenges.set_status")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if status != StatusActive && status != StatusPaused {
		return fmt.Errorf("%w: status %q cannot be set", ErrInvalidPayload, status)
	}

	ch, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("get challenge: %w", err)
	}
	if ch.Status == status {
		return nil
	}
	if ch.Status != StatusActive && ch.Status != StatusPaused {
		return fmt.Errorf("%w: challenge is %s", ErrInvalidPayload, ch.Status)
	}

	if err := s.repo.SetStatus(ctx, userID, id, status); err != nil {
		return fmt.Errorf("set challenge status: %w", err)
	}
	s.challengesChanged(ctx, userID)
	return nil
}

func (s *Service) Delete(ctx context.Context, userID string, id uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.challenges.delete")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete challenge: %w", err)
	}
	s.challengesChanged(ctx, userID)
	return nil
}

func (s *Service) Catalog() []Definition {
	return s.catalog.Definitions()
}

func (s *Service) Metrics(ctx context.Context, userID string) (_ *MetricsReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.challenges.metrics")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	snapshot, err := s.snapshots.Snapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	ref := s.now()
	var weighIns []fitlog.Measurement
	for _, m := range snapshot.Measurements {
		if m.Weight.Float() > 0 {
			weighIns = append(weighIns, m)
		}
	}

	return &MetricsReport{
		UserID:     userID,
		ComputedAt: ref,
		Metrics:    s.registry.Compute(snapshot, ref, nil),
		LongestStreaks: map[string]int{
			"meals":    streak.Longest(aggregate.EventDays(snapshot.Meals)),
			"training": streak.Longest(aggregate.EventDays(snapshot.Workouts)),
			"weighIns": streak.Longest(aggregate.EventDays(weighIns)),
			"journal":  streak.Longest(aggregate.EventDays(snapshot.Journal)),
		},
	}, nil
}

func (s *Service) challengesChanged(ctx context.Context, userID string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, fitlog.Change{UserID: userID, Challenges: true}); err != nil {
		log.Errorf("publish challenges change for %s: %s", userID, err)
	}
}
