// Package notify delivers challenge progress notifications.
package notify

import (
	"context"

	"github.com/2beens/fitcoach/internal/challenges"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=notify_test

// Kind can be one of:
//   - completed
//   - progress
//   - almost_done
type Kind string

const (
	KindCompleted  Kind = "completed"
	KindProgress   Kind = "progress"
	KindAlmostDone Kind = "almost_done"
)

// Progress describes the progress change a notification is about.
type Progress struct {
	Challenge challenges.Challenge
	Old       float64
	New       float64
	// Milestone is the crossed percentage, set for progress notifications.
	Milestone float64
}

// Notifier is fire and forget: delivery failures are handled, usually just
// logged, by the implementation.
type Notifier interface {
	Completed(ctx context.Context, p Progress)
	Progress(ctx context.Context, p Progress)
	AlmostDone(ctx context.Context, p Progress)
}

// Message is the delivered form of a notification.
type Message struct {
	Kind        Kind    `json:"kind"`
	UserID      string  `json:"userId"`
	ChallengeID string  `json:"challengeId"`
	Title       string  `json:"title"`
	Current     float64 `json:"current"`
	Target      float64 `json:"target"`
	Milestone   float64 `json:"milestone,omitempty"`
	Text        string  `json:"text"`
}

func NewMessage(kind Kind, p Progress) Message {
	return Message{
		Kind:        kind,
		UserID:      p.Challenge.UserID,
		ChallengeID: p.Challenge.ID.String(),
		Title:       p.Challenge.Title,
		Current:     p.New,
		Target:      p.Challenge.Target,
		Milestone:   p.Milestone,
		Text:        text(kind, p),
	}
}

func text(kind Kind, p Progress) string {
	switch kind {
	case KindCompleted:
		return "Challenge completed: " + p.Challenge.Title
	case KindProgress:
		return "Milestone reached in " + p.Challenge.Title
	case KindAlmostDone:
		return "Almost there: " + p.Challenge.Title
	default:
		return p.Challenge.Title
	}
}

// Fanout sends every notification to all of its notifiers.
type Fanout []Notifier

func (f Fanout) Completed(ctx context.Context, p Progress) {
	for _, n := range f {
		n.Completed(ctx, p)
	}
}

func (f Fanout) Progress(ctx context.Context, p Progress) {
	for _, n := range f {
		n.Progress(ctx, p)
	}
}

func (f Fanout) AlmostDone(ctx context.Context, p Progress) {
	for _, n := range f {
		n.AlmostDone(ctx, p)
	}
}

// LogNotifier writes notifications to the log.
type LogNotifier struct{}

func (LogNotifier) Completed(_ context.Context, p Progress) {
	logNotification(KindCompleted, p)
}

func (LogNotifier) Progress(_ context.Context, p Progress) {
	logNotification(KindProgress, p)
}

func (LogNotifier) AlmostDone(_ context.Context, p Progress) {
	logNotification(KindAlmostDone, p)
}

func logNotification(kind Kind, p Progress) {
	log.WithFields(log.Fields{
		"kind":      kind,
		"user":      p.Challenge.UserID,
		"challenge": p.Challenge.ID,
		"old":       p.Old,
		"new":       p.New,
		"target":    p.Challenge.Target,
	}).Infof("notify: %s", text(kind, p))
}
