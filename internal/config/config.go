package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	RunMigrations  bool   `toml:"run_migrations"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// challenges
	CatalogPath string `toml:"catalog_path"`
	// progress milestones, in percent of the target
	Milestones       []float64 `toml:"milestones"`
	AlmostDoneMargin float64   `toml:"almost_done_margin"`
	DefaultWeightKg  float64   `toml:"default_weight_kg"`
	// reference timezone for users without one
	DefaultTimezone string `toml:"default_timezone"`

	SnapshotCacheSizeMB      int    `toml:"snapshot_cache_size_mb"`
	ReconcileAllowedPerMin   int    `toml:"reconcile_allowed_per_min"`
	PushWebhookURL           string `toml:"push_webhook_url"`
	NotificationsRedisPubSub bool   `toml:"notifications_redis_pubsub"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing in %s", env, path)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Milestones) == 0 {
		c.Milestones = []float64{50, 75, 90}
	}
	if c.AlmostDoneMargin <= 0 {
		c.AlmostDoneMargin = 3
	}
	if c.DefaultWeightKg <= 0 {
		c.DefaultWeightKg = 70
	}
	if c.DefaultTimezone == "" {
		c.DefaultTimezone = "UTC"
	}
	if c.SnapshotCacheSizeMB <= 0 {
		c.SnapshotCacheSizeMB = 32
	}
	if c.ReconcileAllowedPerMin <= 0 {
		c.ReconcileAllowedPerMin = 10
	}
}
