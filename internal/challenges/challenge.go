package challenges

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrChallengeExists   = errors.New("challenge already joined")
	ErrInvalidPayload    = errors.New("invalid challenge update payload")
	ErrUnknownDefinition = errors.New("unknown challenge definition")
)

// Status can be one of:
//   - active
//   - paused
//   - completed
//   - expired
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusCompleted, StatusExpired:
		return true
	default:
		return false
	}
}

// MetricKey is the stable identifier linking a challenge to the metric that
// drives its progress. Display titles can change freely, keys never do.
type MetricKey string

type Challenge struct {
	ID        uuid.UUID  `json:"id"`
	UserID    string     `json:"userId"`
	Title     string     `json:"title"`
	MetricKey MetricKey  `json:"metricKey"`
	Category  string     `json:"category"`
	Current   float64    `json:"current"`
	Target    float64    `json:"target"`
	Status    Status     `json:"status"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (c Challenge) IsActive() bool {
	return c.Status == StatusActive
}

// IsCompleted reports whether the stored progress reaches the target.
func (c Challenge) IsCompleted() bool {
	return c.CompletedAt(c.Current)
}

// CompletedAt reports whether the given progress value reaches the target.
func (c Challenge) CompletedAt(current float64) bool {
	return current >= c.Target
}

// PercentAt returns the given progress value as a percentage of the target.
func (c Challenge) PercentAt(current float64) float64 {
	if c.Target <= 0 {
		return 0
	}
	return current / c.Target * 100
}

// Update is a progress change computed for one challenge.
type Update struct {
	ChallengeID uuid.UUID `json:"challengeId"`
	NewCurrent  float64   `json:"newCurrent"`
}

// UpdatePayload is what gets validated before an update is written.
type UpdatePayload struct {
	UserID  string  `json:"userId"`
	Current float64 `json:"current"`
}
