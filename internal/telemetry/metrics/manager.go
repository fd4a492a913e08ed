package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// notification kinds, used as the "kind" label
const (
	NotificationCompleted = "completed"
	NotificationProgress  = "progress"
	NotificationAlmost    = "almost_done"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterHandleRequestPanic  prometheus.Counter
	CounterRateLimitedRequests prometheus.Counter
	CounterEventsLogged        *prometheus.CounterVec
	CounterReconcileRuns       prometheus.Counter
	CounterUpdatesPersisted    prometheus.Counter
	CounterValidationFailures  prometheus.Counter
	CounterPersistFailures     prometheus.Counter
	CounterNotifications       *prometheus.CounterVec
	CounterSnapshotCacheHits   prometheus.Counter
	CounterSnapshotCacheMisses prometheus.Counter

	// gauges
	GaugeRequests     prometheus.Gauge
	GaugeLifeSignal   prometheus.Gauge
	GaugeRunsInFlight prometheus.Gauge

	// histograms
	HistogramRequestDuration   *prometheus.HistogramVec
	HistogramReconcileDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("fitcoach", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitcoach", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})
	counterEventsLogged := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "events_logged",
		Help:      "The total number of logged events per collection",
	}, []string{"collection"})
	counterReconcileRuns := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "reconcile_runs",
		Help:      "The total number of challenge progress reconciliation runs",
	})
	counterUpdatesPersisted := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "challenge_updates_persisted",
		Help:      "The total number of persisted challenge progress updates",
	})
	counterValidationFailures := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "challenge_update_validation_failures",
		Help:      "The total number of challenge updates rejected by validation",
	})
	counterPersistFailures := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "challenge_update_persist_failures",
		Help:      "The total number of challenge updates the store failed to write",
	})
	counterNotifications := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "notifications",
		Help:      "The total number of dispatched challenge notifications",
	}, []string{"kind"})
	counterSnapshotCacheHits := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "snapshot_cache_hits",
		Help:      "Event collection loads served from cache",
	})
	counterSnapshotCacheMisses := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "snapshot_cache_misses",
		Help:      "Event collection loads that went to the database",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})
	gaugeRunsInFlight := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "reconcile_runs_in_flight",
		Help:      "Reconciliation runs currently executing",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})
	histogramReconcileDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "reconcile_duration_seconds",
		Help:      "Total duration of a single reconciliation run in seconds",
		Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	})

	return &Manager{
		CounterRequests:            counterRequests,
		CounterHandleRequestPanic:  counterHandleRequestPanic,
		CounterRateLimitedRequests: counterRateLimitedRequests,
		CounterEventsLogged:        counterEventsLogged,
		CounterReconcileRuns:       counterReconcileRuns,
		CounterUpdatesPersisted:    counterUpdatesPersisted,
		CounterValidationFailures:  counterValidationFailures,
		CounterPersistFailures:     counterPersistFailures,
		CounterNotifications:       counterNotifications,
		CounterSnapshotCacheHits:   counterSnapshotCacheHits,
		CounterSnapshotCacheMisses: counterSnapshotCacheMisses,
		GaugeRequests:              gaugeRequests,
		GaugeLifeSignal:            gaugeLifeSignal,
		GaugeRunsInFlight:          gaugeRunsInFlight,
		HistogramRequestDuration:   histogramRequestDuration,
		HistogramReconcileDuration: histogramReconcileDuration,
	}
}
