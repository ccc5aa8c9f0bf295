// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Economy holds the coin rules injected into the lending service. All values
// are whole coins.
type Economy struct {
	StartingBalance int           `env:"STARTING_BALANCE,default=100"`
	DonationReward  int           `env:"DONATION_REWARD,default=100"`
	BorrowCost      int           `env:"BORROW_COST,default=50"`
	DonorReward     int           `env:"DONOR_REWARD,default=50"`
	LateFeePerDay   int           `env:"LATE_FEE_PER_DAY,default=10"`
	LoanDuration    time.Duration `env:"LOAN_DURATION,default=168h"`
}

// Config is the full application configuration.
type Config struct {
	Port         string `env:"PORT,default=8080"`
	DatabasePath string `env:"DATABASE_PATH,default=bookswap.db"`
	JWTSecret    string `env:"JWT_SECRET,required"`
	BcryptCost   int    `env:"BCRYPT_COST,default=12"`
	CookieSecure bool   `env:"COOKIE_SECURE,default=true"`
	SeedData     bool   `env:"SEED_DATA,default=false"`

	// ReminderInterval controls how often the overdue worker scans loans.
	ReminderInterval time.Duration `env:"REMINDER_INTERVAL,default=24h"`
	// NotificationTTL is how long read notifications are kept before pruning.
	NotificationTTL time.Duration `env:"NOTIFICATION_TTL,default=720h"`

	Economy Economy
}

// Load reads .env if present and decodes the configuration from the
// environment.
func Load() (*Config, error) {
	// A missing .env file is fine; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters for HMAC-SHA256")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 14 {
		return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", cfg.BcryptCost)
	}

	return &cfg, nil
}
