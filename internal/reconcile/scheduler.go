package reconcile

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/2beens/fitcoach/internal/fitlog"

	log "github.com/sirupsen/logrus"
)

const defaultRunTimeout = time.Minute

var (
	ErrSchedulerStopped = errors.New("scheduler stopped")
	ErrMissingUserID    = errors.New("missing user id")
)

type Runner interface {
	Run(ctx context.Context, trigger Trigger) RunResult
}

// Scheduler runs a reconciliation for every trigger it receives, each in its
// own goroutine. A newer trigger never cancels a running one; runs converge
// because an unchanged metric produces no update.
type Scheduler struct {
	runner     Runner
	runTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

func NewScheduler(runner Runner, runTimeout time.Duration) *Scheduler {
	if runTimeout <= 0 {
		runTimeout = defaultRunTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		runner:     runner,
		runTimeout: runTimeout,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Notify schedules a run for trigger. It reports false once the scheduler is
// stopped.
func (s *Scheduler) Notify(trigger Trigger) bool {
	if trigger.UserID == "" {
		log.Warnln("reconcile scheduler: trigger without user id ignored")
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(s.ctx, s.runTimeout)
		defer cancel()

		result := s.runner.Run(ctx, trigger)
		if result.Err != nil {
			log.Errorf("reconcile %s: %s", trigger.UserID, result.Err)
		}
	}()
	return true
}

// Publish makes the scheduler an in-process change publisher.
func (s *Scheduler) Publish(_ context.Context, change fitlog.Change) error {
	if change.UserID == "" {
		return ErrMissingUserID
	}
	if !s.Notify(TriggerFrom(change)) {
		return ErrSchedulerStopped
	}
	return nil
}

// Stop refuses new triggers and waits for the running ones. When ctx ends
// first, the running ones are cancelled and ctx's error is returned.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		<-done
		return ctx.Err()
	}
}
