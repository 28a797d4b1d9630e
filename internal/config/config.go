package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	StoragePostgres = "postgres"
	StorageSqlite   = "sqlite"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// storage is either postgres or sqlite
	Storage        string `toml:"storage"`
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`
	SqlitePath     string `toml:"sqlite_path"`
	// redis, for session snapshots and rate limiting
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// tracking sessions
	SessionIdleTimeout           Duration `toml:"session_idle_timeout"`
	SessionCleanupInterval       Duration `toml:"session_cleanup_interval"`
	SessionSnapshotTTL           Duration `toml:"session_snapshot_ttl"`
	SessionCreateRateLimitPerMin int      `toml:"session_create_rate_limit_per_min"`
	TrackedSide                  string   `toml:"tracked_side"`
	CaloriesPerMinute            float64  `toml:"calories_per_minute"`
	StatsCacheSizeBytes          int      `toml:"stats_cache_size_bytes"`
	StatsCacheExpireSeconds      int      `toml:"stats_cache_expire_seconds"`
	AllowedOrigins               []string `toml:"allowed_origins"`
}

// Duration is a time.Duration read from a TOML string, like "30m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
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

// Load reads the config of the given environment from the TOML file at path.
func Load(env, path string) (*Config, error) {
	var cfgToml Toml
	if _, err := toml.DecodeFile(path, &cfgToml); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := cfgToml.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] not found in %s", env, path)
	}

	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid [%s] config: %w", env, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.PostgresHost == "" || c.PostgresDBName == "" {
			return fmt.Errorf("postgres storage needs postgres_host and postgres_db_name")
		}
	case StorageSqlite:
		if c.SqlitePath == "" {
			return fmt.Errorf("sqlite storage needs sqlite_path")
		}
	default:
		return fmt.Errorf("unknown storage: [%s]", c.Storage)
	}

	switch strings.ToLower(c.TrackedSide) {
	case "", "left", "right":
	default:
		return fmt.Errorf("tracked_side must be left or right, got [%s]", c.TrackedSide)
	}

	if c.Port <= 0 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}
