// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds everything the reward service reads from the environment.
type Config struct {
	// ListenAddr is the HTTP bind address.
	ListenAddr string `env:"LISTEN_ADDR,default=:8080"`

	// BackendURL is the base URL of the Dozer tRPC backend.
	BackendURL string `env:"BACKEND_URL,required"`

	// BackendTimeout bounds every backend round trip.
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT,default=30s"`

	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `env:"DATABASE_URL,required"`

	// APIKey is the shared secret for the claim endpoints.
	APIKey string `env:"API_KEY,required"`

	// CronKey is the shared secret for the snapshot trigger endpoints.
	CronKey string `env:"CRON_KEY,required"`

	// SnapshotScheduleHourly and SnapshotScheduleDaily are cron specs for
	// the in-process scheduler. Empty disables the cadence; most
	// deployments leave both empty and drive the HTTP triggers from an
	// external cron.
	SnapshotScheduleHourly string `env:"SNAPSHOT_SCHEDULE_HOURLY"`
	SnapshotScheduleDaily  string `env:"SNAPSHOT_SCHEDULE_DAILY"`

	// SnapshotJitter toggles the sub-10 additive noise on daily
	// liquidity and volume figures.
	SnapshotJitter bool `env:"SNAPSHOT_JITTER,default=true"`

	// RateLimitPerSecond throttles claim callers per IP. Zero disables.
	RateLimitPerSecond int `env:"RATE_LIMIT_PER_SECOND,default=5"`
	RateLimitBurst     int `env:"RATE_LIMIT_BURST,default=10"`

	// AllowedOrigins is a semicolon-separated CORS allow-list.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=*"`

	LogLevel string `env:"LOG_LEVEL,default=info"`

	// QuestsConfig optionally points at a YAML file overriding quest
	// rule parameters.
	QuestsConfig string `env:"QUESTS_CONFIG"`
}

// Load reads the configuration from the environment, sourcing a local .env
// file first when present.
func Load() (*Config, error) {
	// Ignore a missing .env; production injects real environment.
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.StrictDecode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}
	return &cfg, nil
}
