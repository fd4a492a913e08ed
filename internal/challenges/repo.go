package challenges

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const challengeColumns = `id, user_id, title, metric_key, category, current, target, status, start_date, end_date, created_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func scanChallenge(row pgx.Row) (Challenge, error) {
	var ch Challenge
	err := row.Scan(
		&ch.ID,
		&ch.UserID,
		&ch.Title,
		&ch.MetricKey,
		&ch.Category,
		&ch.Current,
		&ch.Target,
		&ch.Status,
		&ch.StartDate,
		&ch.EndDate,
		&ch.CreatedAt,
		&ch.UpdatedAt,
	)
	return ch, err
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]Challenge, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	challenges := make([]Challenge, 0)
	for rows.Next() {
		ch, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan challenge: %w", err)
		}
		challenges = append(challenges, ch)
	}
	return challenges, rows.Err()
}

func (r *Repo) ListActive(ctx context.Context, userID string) (_ []Challenge, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.challenges.list_active")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("user", userID))

	return r.list(ctx, `
		SELECT `+challengeColumns+`
		FROM challenge
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at
	`, userID, StatusActive)
}

func (r *Repo) ListByUser(ctx context.Context, userID string) (_ []Challenge, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.challenges.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("user", userID))

	return r.list(ctx, `
		SELECT `+challengeColumns+`
		FROM challenge
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
}

// UsersWithActive returns the ids of all users having at least one active
// challenge.
func (r *Repo) UsersWithActive(ctx context.Context) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.challenges.users_with_active")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT user_id FROM challenge WHERE status = $1 ORDER BY user_id
	`, StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		users = append(users, userID)
	}
	return users, rows.Err()
}

func (r *Repo) Get(ctx context.Context, userID string, id uuid.UUID) (_ Challenge, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.challenges.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	ch, err := scanChallenge(r.db.QueryRow(ctx, `
		SELECT `+challengeColumns+`
		FROM challenge
		WHERE id = $1 AND user_id = $2
	`, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Challenge{}, ErrChallengeNotFound
		}
		return Challenge{}, fmt.Errorf("challenge [query row]: %w", err)
	}
	return ch, nil
}

func (r *Repo) Add(ctx context.Context, ch Challenge) (_ Challenge, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.challenges.add")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if ch.ID == uuid.Nil {
		ch.ID = uuid.New()
	}
	if ch.Status == "" {
		ch.Status = StatusActive
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO challenge (id, user_id, title, metric_key, category, current, target, status, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`,
		ch.ID, ch.UserID, ch.Title, ch.MetricKey, ch.Category,
		ch.Current, ch.Target, ch.Status, ch.StartDate, ch.EndDate,
	).Scan(&ch.CreatedAt, &ch.UpdatedAt)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return Challenge{}, ErrChallengeExists
		}
		return Challenge{}, err
	}
	return ch, nil
}

// UpdateCurrent writes the progress of an active challenge. Last write wins.
func (r *Repo) UpdateCurrent(ctx context.Context, id uuid.UUID, current float64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.challenges.update_current")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("challenge", id.String()))

	tag, err := r.db.Exec(ctx, `
		UPDATE challenge SET current = $1, updated_at = $2
		WHERE id = $3
	`, current, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrChallengeNotFound
	}
	return nil
}

func (r *Repo) SetStatus(ctx context.Context, userID string, id uuid.UUID, status Status) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.challenges.set_status")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	tag, err := r.db.Exec(ctx, `
		UPDATE challenge SET status = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4
	`, status, time.Now().UTC(), id, userID)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrChallengeExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrChallengeNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID string, id uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.challenges.delete")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	tag, err := r.db.Exec(ctx, `DELETE FROM challenge WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrChallengeNotFound
	}
	return nil
}
