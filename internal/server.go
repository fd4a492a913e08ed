package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/2beens/fitcoach/internal/challenges"
	"github.com/2beens/fitcoach/internal/config"
	"github.com/2beens/fitcoach/internal/db"
	"github.com/2beens/fitcoach/internal/fitlog"
	"github.com/2beens/fitcoach/internal/middleware"
	"github.com/2beens/fitcoach/internal/notify"
	"github.com/2beens/fitcoach/internal/reconcile"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"
)

// zero keeps completion entries forever
const completionLedgerTTL time.Duration = 0

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	location    *time.Location

	fitlogHandler     *fitlog.Handler
	challengesHandler *challenges.Handler
	reconcileHandler  *reconcile.Handler

	scheduler    *reconcile.Scheduler
	watcher      *reconcile.Watcher
	watcherDone  <-chan struct{}
	stopCatalog  func()
	catalogPath  string
	catalog      *challenges.Catalog
	webhookToken string

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	RedisPassword           string
	PushWebhookToken        string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	location, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.DefaultTimezone, err)
	}

	dbParams := db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	}
	if cfg.RunMigrations {
		if err := db.Migrate(dbParams); err != nil {
			return nil, fmt.Errorf("migrate db: %w", err)
		}
	}

	dbPool, err := db.NewDBPool(ctx, dbParams)
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("fitcoach", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fitcoach-backend", rdb)
	if err != nil {
		return nil, err
	}

	catalog, err := challenges.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load challenges catalog: %w", err)
	}

	s := &Server{
		config:         cfg,
		dbPool:         dbPool,
		redisClient:    rdb,
		location:       location,
		catalog:        catalog,
		catalogPath:    cfg.CatalogPath,
		webhookToken:   params.PushWebhookToken,
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}
	s.wire()

	return s, nil
}

// now is the reference instant of all metric computations, in the
// configured timezone.
func (s *Server) now() time.Time {
	return time.Now().In(s.location)
}

func (s *Server) notifier() notify.Notifier {
	notifiers := notify.Fanout{notify.LogNotifier{}}
	if s.config.NotificationsRedisPubSub {
		notifiers = append(notifiers, notify.NewRedisNotifier(s.redisClient, ""))
	}
	if s.config.PushWebhookURL != "" {
		notifiers = append(notifiers, notify.NewWebhookNotifier(s.config.PushWebhookURL, s.webhookToken))
	}
	return notifiers
}

func (s *Server) wire() {
	fitlogRepo := fitlog.NewRepo(s.dbPool)
	challengesRepo := challenges.NewRepo(s.dbPool)
	registry := challenges.NewDefaultRegistry(s.config.DefaultWeightKg)
	snapshots := fitlog.NewSnapshotLoader(fitlogRepo, s.config.SnapshotCacheSizeMB, 0, s.metricsManager)

	orchestrator := reconcile.NewOrchestrator(reconcile.OrchestratorParams{
		Source:           reconcile.NewSource(snapshots, challengesRepo),
		Store:            challengesRepo,
		Validator:        challenges.NewValidator(),
		Notifier:         s.notifier(),
		Ledger:           reconcile.NewRedisLedger(s.redisClient, completionLedgerTTL),
		Registry:         registry,
		Catalog:          s.catalog,
		Milestones:       s.config.Milestones,
		AlmostDoneMargin: s.config.AlmostDoneMargin,
		MetricsManager:   s.metricsManager,
		Now:              s.now,
	})
	s.scheduler = reconcile.NewScheduler(orchestrator, 0)

	// with redis pub/sub every instance reconciles what any instance logged;
	// without it, changes go straight to the local scheduler
	var publisher interface {
		fitlog.ChangePublisher
		challenges.ChangePublisher
	} = s.scheduler
	if s.config.NotificationsRedisPubSub {
		publisher = reconcile.NewRedisPublisher(s.redisClient)
		s.watcher = reconcile.NewWatcher(s.redisClient, invalidatingScheduler{
			snapshots: snapshots,
			scheduler: s.scheduler,
		})
	}

	fitlogService := fitlog.NewService(fitlogRepo, snapshots, publisher, s.metricsManager)
	challengesService := challenges.NewService(challengesRepo, s.catalog, registry, fitlogService, publisher, s.now)

	s.fitlogHandler = fitlog.NewHandler(fitlogService)
	s.challengesHandler = challenges.NewHandler(challengesService)
	s.reconcileHandler = reconcile.NewHandler(orchestrator)
}

// invalidatingScheduler evicts the changed collections from the local
// snapshot cache before scheduling, since the change may come from another
// instance.
type invalidatingScheduler struct {
	snapshots *fitlog.SnapshotLoader
	scheduler *reconcile.Scheduler
}

func (s invalidatingScheduler) Notify(trigger reconcile.Trigger) bool {
	if len(trigger.Collections) > 0 {
		s.snapshots.Invalidate(trigger.UserID, trigger.Collections...)
	}
	return s.scheduler.Notify(trigger)
}

type routerParams struct {
	fitlogHandler          *fitlog.Handler
	challengesHandler      *challenges.Handler
	reconcileHandler       *reconcile.Handler
	rateLimiter            middleware.RequestRateLimiter
	reconcileAllowedPerMin int
	metricsManager         *metrics.Manager
}

func newRouter(params routerParams) *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
	}).Methods("GET").Name("root")

	params.fitlogHandler.SetupRoutes(r)
	params.challengesHandler.SetupRoutes(r)

	reconcileRouter := r.PathPrefix("/users/{userId}/reconcile").Subrouter()
	reconcileRouter.HandleFunc("", params.reconcileHandler.HandleReconcile).Methods("POST", "OPTIONS").Name("reconcile")
	reconcileRouter.Use(middleware.RateLimit(
		params.rateLimiter,
		"reconcile",
		params.reconcileAllowedPerMin,
		params.metricsManager,
	))

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(params.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(params.metricsManager))
	r.Use(middleware.Cors())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(ctx context.Context, host string, port int) error {
	router := newRouter(routerParams{
		fitlogHandler:          s.fitlogHandler,
		challengesHandler:      s.challengesHandler,
		reconcileHandler:       s.reconcileHandler,
		rateLimiter:            redis_rate.NewLimiter(s.redisClient),
		reconcileAllowedPerMin: s.config.ReconcileAllowedPerMin,
		metricsManager:         s.metricsManager,
	})

	if s.watcher != nil {
		done, err := s.watcher.Start(ctx)
		if err != nil {
			return fmt.Errorf("start changes watcher: %w", err)
		}
		s.watcherDone = done
	}

	if s.catalogPath != "" {
		stop, err := s.catalog.Watch(s.catalogPath)
		if err != nil {
			log.Errorf("watch catalog %s: %s", s.catalogPath, err)
		} else {
			s.stopCatalog = stop
		}
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
	return nil
}

// GracefulShutdown expects the ctx given to Serve to be cancelled already, so
// the watcher is unsubscribing.
func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.watcherDone != nil {
		<-s.watcherDone
		log.Debugln("changes watcher stopped")
	}
	if s.stopCatalog != nil {
		s.stopCatalog()
	}

	if err := s.scheduler.Stop(ctx); err != nil {
		log.Errorf("reconcile runs cancelled on shutdown: %s", err)
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
