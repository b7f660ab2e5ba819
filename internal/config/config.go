package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"cfb_stats"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"cfb_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Engine parameters
	RatingSeed     float64 `envconfig:"RATING_SEED" default:"1500"`
	EloBaseK       float64 `envconfig:"ELO_BASE_K" default:"25"`
	EloDecayFactor float64 `envconfig:"ELO_DECAY_FACTOR" default:"0.97"`

	// Scheduler
	EnableScheduler bool   `envconfig:"ENABLE_SCHEDULER" default:"false"`
	RecomputeCron   string `envconfig:"RECOMPUTE_CRON" default:"0 4 * * *"`
	RunOnStart      bool   `envconfig:"RUN_ON_START" default:"true"`

	// Ingestion
	WorkbookPath  string `envconfig:"WORKBOOK_PATH" default:"data/cfb_box-scores_2002-2024.xlsx"`
	WorkbookSheet string `envconfig:"WORKBOOK_SHEET" default:"cleaned"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`

	// Caching TTL (in seconds)
	CacheTTLRankings int `envconfig:"CACHE_TTL_RANKINGS" default:"86400"` // 24 hours
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}

	if c.EloBaseK <= 0 {
		return fmt.Errorf("ELO_BASE_K must be positive, got %v", c.EloBaseK)
	}

	if c.EloDecayFactor <= 0 || c.EloDecayFactor > 1 {
		return fmt.Errorf("ELO_DECAY_FACTOR must be in (0, 1], got %v", c.EloDecayFactor)
	}

	return nil
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
