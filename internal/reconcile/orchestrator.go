// Package reconcile keeps the stored progress of a user's challenges in line
// with what the user logged.
package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/fitcoach/internal/challenges"
	"github.com/2beens/fitcoach/internal/fitlog"
	"github.com/2beens/fitcoach/internal/notify"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=reconcile_test
//go:generate mockgen -destination=notifier_mocks_test.go -package=reconcile_test github.com/2beens/fitcoach/internal/notify Notifier

const DefaultAlmostDoneMargin = 3.0

var DefaultMilestones = []float64{50, 75, 90}

// Trigger asks for the challenges of a user to be reconciled. An empty
// collection list together with ChallengesChanged unset reconciles everything.
type Trigger struct {
	UserID            string
	Collections       []fitlog.Collection
	ChallengesChanged bool
}

// TriggerFrom turns a change announcement into a trigger.
func TriggerFrom(change fitlog.Change) Trigger {
	t := Trigger{
		UserID:            change.UserID,
		ChallengesChanged: change.Challenges,
	}
	if change.Collection != "" {
		t.Collections = []fitlog.Collection{change.Collection}
	}
	return t
}

func (t Trigger) everything() bool {
	return t.ChallengesChanged || len(t.Collections) == 0
}

// Source reads the current state of a user.
type Source interface {
	Snapshot(ctx context.Context, userID string) (*fitlog.Snapshot, error)
	ListActive(ctx context.Context, userID string) ([]challenges.Challenge, error)
}

type Store interface {
	UpdateCurrent(ctx context.Context, id uuid.UUID, current float64) error
}

type Validator interface {
	Validate(payload challenges.UpdatePayload) error
}

// CompletionLedger remembers which challenges had their completion announced.
// MarkCompleted reports true only for the first call per challenge.
type CompletionLedger interface {
	MarkCompleted(ctx context.Context, challengeID uuid.UUID) (bool, error)
}

type RunResult struct {
	UserID    string
	Updates   []challenges.Update
	Persisted int
	Skipped   int
	Failed    int
	Notified  map[notify.Kind]int
	// Err combines the errors of all failed writes.
	Err error
}

type OrchestratorParams struct {
	Source    Source
	Store     Store
	Validator Validator
	Notifier  notify.Notifier
	Ledger    CompletionLedger
	Registry  *challenges.Registry
	Catalog   *challenges.Catalog
	// Milestones are progress percentages worth a notification.
	Milestones       []float64
	AlmostDoneMargin float64
	MetricsManager   *metrics.Manager
	// Now returns the reference instant of metric computations.
	Now func() time.Time
}

type Orchestrator struct {
	source           Source
	store            Store
	validator        Validator
	notifier         notify.Notifier
	ledger           CompletionLedger
	registry         *challenges.Registry
	catalog          *challenges.Catalog
	milestones       []float64
	almostDoneMargin float64
	metricsManager   *metrics.Manager
	now              func() time.Time
}

func NewOrchestrator(params OrchestratorParams) *Orchestrator {
	o := &Orchestrator{
		source:           params.Source,
		store:            params.Store,
		validator:        params.Validator,
		notifier:         params.Notifier,
		ledger:           params.Ledger,
		registry:         params.Registry,
		catalog:          params.Catalog,
		milestones:       params.Milestones,
		almostDoneMargin: params.AlmostDoneMargin,
		metricsManager:   params.MetricsManager,
		now:              params.Now,
	}
	if o.milestones == nil {
		o.milestones = DefaultMilestones
	}
	if o.almostDoneMargin <= 0 {
		o.almostDoneMargin = DefaultAlmostDoneMargin
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.ledger == nil {
		o.ledger = NewMemoryLedger()
	}
	if o.catalog == nil {
		o.catalog = challenges.NewCatalog(nil)
	}
	return o
}

// Run reconciles the challenges of one user. Updates are written
// concurrently, one goroutine per challenge; a failed write never stops the
// others and shows up in RunResult.Err.
func (o *Orchestrator) Run(ctx context.Context, trigger Trigger) RunResult {
	ctx, span := tracing.GlobalTracer.Start(ctx, "reconcile.run")
	span.SetAttributes(attribute.String("user", trigger.UserID))

	o.metricsManager.CounterReconcileRuns.Inc()
	o.metricsManager.GaugeRunsInFlight.Inc()
	start := time.Now()
	defer func() {
		o.metricsManager.GaugeRunsInFlight.Dec()
		o.metricsManager.HistogramReconcileDuration.Observe(time.Since(start).Seconds())
	}()

	result := RunResult{
		UserID:   trigger.UserID,
		Notified: make(map[notify.Kind]int),
	}
	defer func() { tracing.EndSpanWithErrCheck(span, result.Err) }()

	var domains []challenges.Domain
	if !trigger.everything() {
		domains = o.registry.DomainsFor(trigger.Collections)
		if len(domains) == 0 {
			log.Debugf("reconcile %s: no metric reads %v", trigger.UserID, trigger.Collections)
			return result
		}
	}

	active, err := o.source.ListActive(ctx, trigger.UserID)
	if err != nil {
		result.Err = fmt.Errorf("list active challenges: %w", err)
		return result
	}
	if len(active) == 0 {
		return result
	}

	snapshot, err := o.source.Snapshot(ctx, trigger.UserID)
	if err != nil {
		result.Err = fmt.Errorf("load snapshot: %w", err)
		return result
	}

	active = challenges.ResolveKeys(o.catalog, active)
	values := o.registry.Compute(snapshot, o.now(), domains)
	result.Updates = challenges.ComputeUpdates(active, values)

	byID := make(map[uuid.UUID]challenges.Challenge, len(active))
	for _, ch := range active {
		byID[ch.ID] = ch
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, update := range result.Updates {
		ch := byID[update.ChallengeID]

		payload := challenges.UpdatePayload{UserID: ch.UserID, Current: update.NewCurrent}
		if err := o.validator.Validate(payload); err != nil {
			log.Warnf("reconcile %s: skip update of challenge %s: %s", trigger.UserID, ch.ID, err)
			o.metricsManager.CounterValidationFailures.Inc()
			result.Skipped++
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			kind, err := o.apply(ctx, ch, update.NewCurrent)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.Err = multierr.Append(result.Err, err)
				return
			}
			result.Persisted++
			if kind != "" {
				result.Notified[kind]++
			}
		}()
	}
	wg.Wait()

	log.Debugf("reconcile %s: %d updates, %d persisted, %d skipped, %d failed",
		trigger.UserID, len(result.Updates), result.Persisted, result.Skipped, result.Failed)
	return result
}

// apply writes the new progress of ch and sends the notification it earned,
// if any. Nothing is sent unless the write succeeded.
func (o *Orchestrator) apply(ctx context.Context, ch challenges.Challenge, newCurrent float64) (notify.Kind, error) {
	oldCurrent := ch.Current
	if err := o.store.UpdateCurrent(ctx, ch.ID, newCurrent); err != nil {
		o.metricsManager.CounterPersistFailures.Inc()
		log.Errorf("reconcile %s: update challenge %s: %s", ch.UserID, ch.ID, err)
		return "", fmt.Errorf("update challenge %s: %w", ch.ID, err)
	}
	o.metricsManager.CounterUpdatesPersisted.Inc()

	ch.Current = newCurrent
	progress := notify.Progress{
		Challenge: ch,
		Old:       oldCurrent,
		New:       newCurrent,
	}

	kind, milestone := Classify(ch, oldCurrent, newCurrent, o.milestones, o.almostDoneMargin)
	switch kind {
	case notify.KindCompleted:
		first, err := o.ledger.MarkCompleted(ctx, ch.ID)
		if err != nil {
			// the edge check alone still holds
			log.Errorf("completion ledger, challenge %s: %s", ch.ID, err)
		} else if !first {
			log.Debugf("challenge %s completion already announced", ch.ID)
			return "", nil
		}
		o.notifier.Completed(ctx, progress)
	case notify.KindProgress:
		progress.Milestone = milestone
		o.notifier.Progress(ctx, progress)
	case notify.KindAlmostDone:
		o.notifier.AlmostDone(ctx, progress)
	default:
		return "", nil
	}

	o.metricsManager.CounterNotifications.WithLabelValues(string(kind)).Inc()
	return kind, nil
}

// Classify picks the one notification a progress change from oldCurrent to
// newCurrent earns. Completion is the crossing of the target. Otherwise the
// highest crossed milestone percentage earns a progress notification, and
// entering the last almostDoneMargin units before the target earns an
// almost-done one. A challenge completed before and after earns nothing.
func Classify(ch challenges.Challenge, oldCurrent, newCurrent float64, milestones []float64, almostDoneMargin float64) (notify.Kind, float64) {
	wasCompleted := ch.CompletedAt(oldCurrent)
	isNowCompleted := ch.CompletedAt(newCurrent)

	switch {
	case !wasCompleted && isNowCompleted:
		return notify.KindCompleted, 0
	case isNowCompleted, newCurrent <= oldCurrent:
		return "", 0
	}

	oldPercent, newPercent := ch.PercentAt(oldCurrent), ch.PercentAt(newCurrent)
	crossed := 0.0
	for _, m := range milestones {
		if oldPercent < m && newPercent >= m && m > crossed {
			crossed = m
		}
	}
	if crossed > 0 {
		return notify.KindProgress, crossed
	}

	if ch.Target-oldCurrent > almostDoneMargin && ch.Target-newCurrent <= almostDoneMargin {
		return notify.KindAlmostDone, 0
	}
	return "", 0
}
