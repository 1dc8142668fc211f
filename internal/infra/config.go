package infra

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	// Database
	DatabaseURL string `env:"DATABASE_URL"`
	PGHost      string `env:"PGHOST" envDefault:"localhost"`
	PGPort      int    `env:"PGPORT" envDefault:"5432"`
	PGUser      string `env:"PGUSER" envDefault:"parlaybook"`
	PGPassword  string `env:"PGPASSWORD" envDefault:"parlaybook"`
	PGDatabase  string `env:"PGDATABASE" envDefault:"parlaybook"`
	DBMaxConns  int    `env:"DB_MAX_CONNS" envDefault:"0"`

	// Settlement
	SettleInterval time.Duration `env:"SETTLE_INTERVAL" envDefault:"30s"`
	SettleWorkers  int           `env:"SETTLE_WORKERS" envDefault:"8"`

	// PriceRule selects the fractional-win payout convention: malay or flat.
	PriceRule string `env:"PRICE_RULE" envDefault:"malay"`

	// CommissionFailurePolicy decides what happens to a slip whose upline
	// chain cannot be resolved: abort (roll the whole slip back) or skip
	// (pay the member, log the skipped commissions).
	CommissionFailurePolicy string `env:"COMMISSION_FAILURE_POLICY" envDefault:"abort"`

	// Ops server
	OpsPort   int    `env:"OPS_PORT" envDefault:"3200"`
	OpsSecret string `env:"OPS_SECRET" envDefault:"change-me-in-production"`

	// Kafka
	KafkaBrokers string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaTopic   string `env:"KAFKA_TOPIC" envDefault:"parlaybook.events"`
	KafkaEnabled bool   `env:"KAFKA_ENABLED" envDefault:"false"`

	// Outbox consumer
	OutboxPollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"2s"`
	OutboxBatchSize    int           `env:"OUTBOX_BATCH_SIZE" envDefault:"100"`
	OutboxMetricsPort  int           `env:"OUTBOX_METRICS_PORT" envDefault:"3201"`

	// Dev
	AllowInsecureDefaults bool `env:"ALLOW_INSECURE_DEFAULTS" envDefault:"false"`
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks for insecure or unusable configuration.
// Set ALLOW_INSECURE_DEFAULTS=true to bypass the secret checks (local dev only).
func (c *Config) Validate() error {
	if c.SettleWorkers < 1 {
		return fmt.Errorf("SETTLE_WORKERS must be at least 1, got %d", c.SettleWorkers)
	}
	if c.PriceRule != "malay" && c.PriceRule != "flat" {
		return fmt.Errorf("PRICE_RULE must be malay or flat, got %q", c.PriceRule)
	}
	if c.CommissionFailurePolicy != "abort" && c.CommissionFailurePolicy != "skip" {
		return fmt.Errorf("COMMISSION_FAILURE_POLICY must be abort or skip, got %q", c.CommissionFailurePolicy)
	}
	if c.AllowInsecureDefaults {
		return nil
	}
	if c.OpsSecret == "change-me-in-production" {
		return fmt.Errorf("OPS_SECRET is set to the insecure default; set a strong secret or set ALLOW_INSECURE_DEFAULTS=true for local dev")
	}
	if len(c.OpsSecret) < 32 {
		return fmt.Errorf("OPS_SECRET is too short (%d chars); minimum 32 characters required", len(c.OpsSecret))
	}
	return nil
}

// DSN returns the PostgreSQL connection string, preferring DATABASE_URL if set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}
