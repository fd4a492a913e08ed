package reconcile

import (
	"context"

	"github.com/2beens/fitcoach/internal/challenges"
	"github.com/2beens/fitcoach/internal/fitlog"
)

type snapshotLoader interface {
	Snapshot(ctx context.Context, userID string) (*fitlog.Snapshot, error)
}

type activeLister interface {
	ListActive(ctx context.Context, userID string) ([]challenges.Challenge, error)
}

type source struct {
	snapshotLoader
	activeLister
}

// NewSource combines the event snapshot loader and the challenges repo into a
// Source.
func NewSource(snapshots snapshotLoader, lister activeLister) Source {
	return source{
		snapshotLoader: snapshots,
		activeLister:   lister,
	}
}
