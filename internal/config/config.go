package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	MediaBackendDisk = "disk"
	MediaBackendS3   = "s3"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// prometheus metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	LoginRateLimitAllowedPerMin int      `toml:"login_rate_limit_allowed_per_min"`
	CorsAllowedOrigins          []string `toml:"cors_allowed_origins"`

	// media object storage
	MediaBackend  string `toml:"media_backend"`
	MediaDiskRoot string `toml:"media_disk_root"`
	S3Bucket      string `toml:"s3_bucket"`
	S3Region      string `toml:"s3_region"`
	S3Endpoint    string `toml:"s3_endpoint"`

	BackupDebounce Duration `toml:"backup_debounce"`
	FeedCacheTTL   Duration `toml:"feed_cache_ttl"`
	FeedCacheSize  int      `toml:"feed_cache_size_bytes"`

	// offsite backups export (backups_cmd)
	DriveExportFolder   string `toml:"drive_export_folder"`
	DriveExportSchedule string `toml:"drive_export_schedule"`
}

// CliConfig is used by the local gymlog CLI only.
type CliConfig struct {
	SQLitePath       string `toml:"sqlite_path"`
	DefaultWeekStart string `toml:"default_week_start"`
	LogLevel         string `toml:"log_level"`
}

// Duration wraps time.Duration so it can be set as "1.2s" in toml.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

type Toml struct {
	Development *Config
	Production  *Config
	Cli         *CliConfig
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}
	return cfg, nil
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
	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func LoadCli(path string) (*CliConfig, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	if t.Cli == nil {
		return nil, errors.New("cli config section missing")
	}
	if t.Cli.DefaultWeekStart == "" {
		t.Cli.DefaultWeekStart = "sunday"
	}
	return t.Cli, nil
}

func (c *Config) setDefaults() {
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.MediaBackend == "" {
		c.MediaBackend = MediaBackendDisk
	}
	if c.BackupDebounce.Duration == 0 {
		c.BackupDebounce.Duration = 1200 * time.Millisecond
	}
	if c.FeedCacheTTL.Duration == 0 {
		c.FeedCacheTTL.Duration = time.Minute
	}
	if c.FeedCacheSize == 0 {
		c.FeedCacheSize = 10 * 1024 * 1024
	}
	if c.LoginRateLimitAllowedPerMin == 0 {
		c.LoginRateLimitAllowedPerMin = 10
	}
	if c.DriveExportSchedule == "" {
		c.DriveExportSchedule = "@daily"
	}
}

func (c *Config) validate() error {
	switch c.MediaBackend {
	case MediaBackendDisk:
		if c.MediaDiskRoot == "" {
			return errors.New("media_disk_root must be set for disk media backend")
		}
	case MediaBackendS3:
		if c.S3Bucket == "" || c.S3Region == "" {
			return errors.New("s3_bucket and s3_region must be set for s3 media backend")
		}
	default:
		return fmt.Errorf("unknown media backend: %s", c.MediaBackend)
	}
	return nil
}
