package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the CLI configuration loaded from files and environment variables.
type Config struct {
	AppName            string        `mapstructure:"app_name"`
	LogLevel           string        `mapstructure:"log_level"`
	Endpoint           string        `mapstructure:"packagist_endpoint"`
	UserAgent          string        `mapstructure:"user_agent"`
	OutputFormat       string        `mapstructure:"output_format"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	ArchiveType            string        `mapstructure:"archive_type"`
	ArchivePath            string        `mapstructure:"archive_path"`
	ArchiveTTLSeconds      int64         `mapstructure:"archive_ttl_seconds"`
	ArchiveCleanupSeconds  int64         `mapstructure:"archive_cleanup_interval_seconds"`
	ArchiveTTL             time.Duration `mapstructure:"-"`
	ArchiveCleanupInterval time.Duration `mapstructure:"-"`
}

// EnvFile is the optional dotenv file read before the environment.
var EnvFile = "configs/.env"

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load(EnvFile)

	v := viper.New()

	v.SetDefault("app_name", "packagist-cli")
	v.SetDefault("log_level", "warn")
	v.SetDefault("packagist_endpoint", "https://packagist.org")
	v.SetDefault("user_agent", "packagist-api-go")
	v.SetDefault("output_format", "json")
	v.SetDefault("http_timeout_seconds", 15)
	v.SetDefault("archive_type", "bbolt")
	v.SetDefault("archive_path", "./data/packagist.db")
	v.SetDefault("archive_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("archive_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) normalize() error {
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	if cfg.Endpoint == "" {
		return fmt.Errorf("invalid packagist_endpoint (must not be empty)")
	}

	cfg.OutputFormat = strings.ToLower(strings.TrimSpace(cfg.OutputFormat))
	switch cfg.OutputFormat {
	case "json", "yaml":
	default:
		return fmt.Errorf("invalid output_format %q (expected json or yaml)", cfg.OutputFormat)
	}

	if cfg.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.ArchiveTTLSeconds <= 0 {
		return fmt.Errorf("invalid archive_ttl_seconds (must be positive seconds)")
	}
	if cfg.ArchiveCleanupSeconds <= 0 {
		return fmt.Errorf("invalid archive_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.ArchiveTTL = time.Duration(cfg.ArchiveTTLSeconds) * time.Second
	cfg.ArchiveCleanupInterval = time.Duration(cfg.ArchiveCleanupSeconds) * time.Second

	return nil
}
