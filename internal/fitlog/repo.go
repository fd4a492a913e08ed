package fitlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrEventNotFound = errors.New("event not found")

var collectionTables = map[Collection]string{
	CollectionMeals:        "meal",
	CollectionWorkouts:     "workout",
	CollectionMeasurements: "measurement",
	CollectionJournal:      "journal_entry",
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func nullableTime(d Date) *time.Time {
	if d.IsZero() {
		return nil
	}
	t := d.UTC()
	return &t
}

func dateFrom(t *time.Time) Date {
	if t == nil {
		return Date{}
	}
	return NewDate(t.UTC())
}

func (r *Repo) AddMeal(ctx context.Context, meal Meal) (_ Meal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.fitlog.meals.add")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	err = r.db.QueryRow(ctx, `
		INSERT INTO meal (user_id, date, name, calories, protein, carbs, fat)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		meal.UserID, nullableTime(meal.Date), meal.Name,
		meal.Calories.Float(), meal.Protein.Float(), meal.Carbs.Float(), meal.Fat.Float(),
	).Scan(&meal.ID)
	if err != nil {
		return Meal{}, err
	}
	return meal, nil
}

func (r *Repo) ListMeals(ctx context.Context, userID string) (_ []Meal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.fitlog.meals.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("user", userID))

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, date, name, calories, protein, carbs, fat
		FROM meal
		WHERE user_id = $1
		ORDER BY date DESC NULLS LAST, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meals := make([]Meal, 0)
	for rows.Next() {
		var (
			m                             Meal
			date                          *time.Time
			calories, protein, carbs, fat float64
		)
		if err := rows.Scan(&m.ID, &m.UserID, &date, &m.Name, &calories, &protein, &carbs, &fat); err != nil {
			return nil, err
		}
		m.Date = dateFrom(date)
		m.Calories, m.Protein, m.Carbs, m.Fat = Number(calories), Number(protein), Number(carbs), Number(fat)
		meals = append(meals, m)
	}

	return meals, rows.Err()
}

func (r *Repo) AddWorkout(ctx context.Context, workout Workout) (_ Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.fitlog.workouts.add")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	exercises := workout.Exercises
	if exercises == nil {
		exercises = []Exercise{}
	}
	exercisesJson, err := json.Marshal(exercises)
	if err != nil {
		return Workout{}, fmt.Errorf("marshal exercises: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO workout (user_id, date, type, duration, exercises)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`,
		workout.UserID, nullableTime(workout.Date), string(workout.Type),
		workout.Duration.Float(), exercisesJson,
	).Scan(&workout.ID)
	if err != nil {
		return Workout{}, err
	}
	return workout, nil
}

func (r *Repo) ListWorkouts(ctx context.Context, userID string) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.fitlog.workouts.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("user", userID))

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, date, type, duration, exercises
		FROM workout
		WHERE user_id = $1
		ORDER BY date DESC NULLS LAST, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := make([]Workout, 0)
	for rows.Next() {
		var (
			w             Workout
			date          *time.Time
			workoutType   string
			duration      float64
			exercisesJson []byte
		)
		if err := rows.Scan(&w.ID, &w.UserID, &date, &workoutType, &duration, &exercisesJson); err != nil {
			return nil, err
		}
		w.Date = dateFrom(date)
		w.Type = WorkoutType(workoutType)
		w.Duration = Number(duration)
		if err := json.Unmarshal(exercisesJson, &w.Exercises); err != nil {
			return nil, fmt.Errorf("unmarshal exercises of workout %d: %w", w.ID, err)
		}
		workouts = append(workouts, w)
	}

	return workouts, rows.Err()
}

func (r *Repo) AddMeasurement(ctx context.Context, m Measurement) (_ Measurement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.fitlog.measurements.add")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	err = r.db.QueryRow(ctx, `
		INSERT INTO measurement (user_id, date, weight, body_fat, waist, chest, hips)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		m.UserID, nullableTime(m.Date),
		m.Weight.Float(), m.BodyFat.Float(), m.Waist.Float(), m.Chest.Float(), m.Hips.Float(),
	).Scan(&m.ID)
	if err != nil {
		return Measurement{}, err
	}
	return m, nil
}

func (r *Repo) ListMeasurements(ctx context.Context, userID string) (_ []Measurement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.fitlog.measurements.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("user", userID))

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, date, weight, body_fat, waist, chest, hips
		FROM measurement
		WHERE user_id = $1
		ORDER BY date DESC NULLS LAST, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	measurements := make([]Measurement, 0)
	for rows.Next() {
		var (
			m                                   Measurement
			date                                *time.Time
			weight, bodyFat, waist, chest, hips float64
		)
		if err := rows.Scan(&m.ID, &m.UserID, &date, &weight, &bodyFat, &waist, &chest, &hips); err != nil {
			return nil, err
		}
		m.Date = dateFrom(date)
		m.Weight, m.BodyFat = Number(weight), Number(bodyFat)
		m.Waist, m.Chest, m.Hips = Number(waist), Number(chest), Number(hips)
		measurements = append(measurements, m)
	}

	return measurements, rows.Err()
}

func (r *Repo) AddJournalEntry(ctx context.Context, entry JournalEntry) (_ JournalEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.fitlog.journal.add")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	err = r.db.QueryRow(ctx, `
		INSERT INTO journal_entry (user_id, date, mood, energy, sleep_hours, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`,
		entry.UserID, nullableTime(entry.Date),
		entry.Mood.Float(), entry.Energy.Float(), entry.SleepHours.Float(), entry.Note,
	).Scan(&entry.ID)
	if err != nil {
		return JournalEntry{}, err
	}
	return entry, nil
}

func (r *Repo) ListJournal(ctx context.Context, userID string) (_ []JournalEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.fitlog.journal.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("user", userID))

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, date, mood, energy, sleep_hours, note
		FROM journal_entry
		WHERE user_id = $1
		ORDER BY date DESC NULLS LAST, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]JournalEntry, 0)
	for rows.Next() {
		var (
			e                        JournalEntry
			date                     *time.Time
			mood, energy, sleepHours float64
		)
		if err := rows.Scan(&e.ID, &e.UserID, &date, &mood, &energy, &sleepHours, &e.Note); err != nil {
			return nil, err
		}
		e.Date = dateFrom(date)
		e.Mood, e.Energy, e.SleepHours = Number(mood), Number(energy), Number(sleepHours)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Delete removes an event owned by userID from the given collection.
func (r *Repo) Delete(ctx context.Context, collection Collection, userID string, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.fitlog.delete")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(
		attribute.String("collection", collection.String()),
		attribute.Int("id", id),
	)

	table, ok := collectionTables[collection]
	if !ok {
		return fmt.Errorf("unknown collection: %s", collection)
	}

	// table comes from a fixed allowlist
	tag, err := r.db.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}
