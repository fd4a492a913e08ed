// Command reconcile runs one challenge progress reconciliation, for a single
// user or for every user with running challenges. Meant for cron jobs and
// backfills after catalog or metric changes.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/2beens/fitcoach/internal/challenges"
	"github.com/2beens/fitcoach/internal/config"
	"github.com/2beens/fitcoach/internal/db"
	"github.com/2beens/fitcoach/internal/fitlog"
	"github.com/2beens/fitcoach/internal/logging"
	"github.com/2beens/fitcoach/internal/notify"
	"github.com/2beens/fitcoach/internal/reconcile"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// zero keeps completion entries forever
const completionLedgerTTL time.Duration = 0

// dryRunStore only logs the writes a real run would do.
type dryRunStore struct{}

func (dryRunStore) UpdateCurrent(_ context.Context, id uuid.UUID, current float64) error {
	log.Infof("[dry run] challenge %s -> %.2f", id, current)
	return nil
}

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	userID := flag.String("user", "", "user to reconcile (empty for all users with running challenges)")
	dryRun := flag.Bool("dry-run", false, "compute and log updates without writing or notifying")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall timeout")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogToStdout:      true,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "fitcoach-reconcile",
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *userID, *dryRun); err != nil {
		log.Errorf("reconcile: %s", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, userID string, dryRun bool) error {
	location, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		return fmt.Errorf("load timezone %s: %w", cfg.DefaultTimezone, err)
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost: cfg.PostgresHost,
		DBPort: cfg.PostgresPort,
		DBName: cfg.PostgresDBName,
	})
	if err != nil {
		return fmt.Errorf("new db pool: %w", err)
	}
	defer dbPool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: os.Getenv("FITCOACH_REDIS_PASS"),
	})
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Errorf("close redis client: %s", err)
		}
	}()

	catalog, err := challenges.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load challenges catalog: %w", err)
	}

	challengesRepo := challenges.NewRepo(dbPool)
	metricsManager := metrics.NewManager("fitcoach", "reconcile_cmd", prometheus.NewRegistry())

	params := reconcile.OrchestratorParams{
		Source: reconcile.NewSource(
			fitlog.NewSnapshotLoader(fitlog.NewRepo(dbPool), cfg.SnapshotCacheSizeMB, 0, metricsManager),
			challengesRepo,
		),
		Store:            challengesRepo,
		Validator:        challenges.NewValidator(),
		Registry:         challenges.NewDefaultRegistry(cfg.DefaultWeightKg),
		Catalog:          catalog,
		Milestones:       cfg.Milestones,
		AlmostDoneMargin: cfg.AlmostDoneMargin,
		MetricsManager:   metricsManager,
		Now:              func() time.Time { return time.Now().In(location) },
	}
	if dryRun {
		params.Store = dryRunStore{}
		params.Notifier = notify.LogNotifier{}
		params.Ledger = reconcile.NewMemoryLedger()
	} else {
		notifiers := notify.Fanout{notify.LogNotifier{}}
		if cfg.NotificationsRedisPubSub {
			notifiers = append(notifiers, notify.NewRedisNotifier(rdb, ""))
		}
		if cfg.PushWebhookURL != "" {
			notifiers = append(notifiers, notify.NewWebhookNotifier(cfg.PushWebhookURL, os.Getenv("FITCOACH_PUSH_WEBHOOK_TOKEN")))
		}
		params.Notifier = notifiers
		params.Ledger = reconcile.NewRedisLedger(rdb, completionLedgerTTL)
	}
	orchestrator := reconcile.NewOrchestrator(params)

	users := []string{userID}
	if userID == "" {
		users, err = challengesRepo.UsersWithActive(ctx)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
	}
	log.Infof("reconciling %d users (dry run: %t)", len(users), dryRun)

	failed := 0
	for _, u := range users {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		result := orchestrator.Run(ctx, reconcile.Trigger{UserID: u, ChallengesChanged: true})
		if result.Err != nil {
			failed++
			log.Errorf("user %s: %s", u, result.Err)
			continue
		}
		log.Infof("user %s: %d updates, %d persisted, %d skipped, notified %v",
			u, len(result.Updates), result.Persisted, result.Skipped, result.Notified)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d users failed", failed, len(users))
	}
	return nil
}
