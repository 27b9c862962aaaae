package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// HTTP configuration
	HTTPPort    string
	MetricsPort string

	// Optional infrastructure
	RedisAddr    string // empty disables the odds cache
	KafkaBrokers string // empty disables the event feed

	// Wagering configuration
	StartingBalance decimal.Decimal // granted to new accounts
	MinOdds         decimal.Decimal // lowest quotable decimal odds
	DefaultOdds     decimal.Decimal // seeded on match creation when none given
	PointsPerWin    int             // standings points per won match
	PageSize        int             // match listing page size
	LockTimeoutMs   int             // per-transaction row lock budget

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	// Local development convenience; a missing .env is not an error
	_ = godotenv.Load()

	config := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),

		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		MetricsPort: getEnv("METRICS_PORT", "9090"),

		RedisAddr:    os.Getenv("REDIS_ADDR"),
		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),

		// Wagering defaults
		StartingBalance: decimal.NewFromInt(1000),
		MinOdds:         decimal.RequireFromString("1.01"),
		DefaultOdds:     decimal.RequireFromString("2.00"),
		PointsPerWin:    3,
		PageSize:        10,
		LockTimeoutMs:   3000,

		Environment: getEnv("ENVIRONMENT", "development"),
	}

	// Override defaults if environment variables are set
	if balance := os.Getenv("STARTING_BALANCE"); balance != "" {
		parsed, err := decimal.NewFromString(balance)
		if err != nil {
			return nil, fmt.Errorf("invalid STARTING_BALANCE: %w", err)
		}
		config.StartingBalance = parsed
	}
	if minOdds := os.Getenv("MIN_ODDS"); minOdds != "" {
		parsed, err := decimal.NewFromString(minOdds)
		if err != nil {
			return nil, fmt.Errorf("invalid MIN_ODDS: %w", err)
		}
		config.MinOdds = parsed
	}
	if defaultOdds := os.Getenv("DEFAULT_ODDS"); defaultOdds != "" {
		parsed, err := decimal.NewFromString(defaultOdds)
		if err != nil {
			return nil, fmt.Errorf("invalid DEFAULT_ODDS: %w", err)
		}
		config.DefaultOdds = parsed
	}
	if points := os.Getenv("POINTS_PER_WIN"); points != "" {
		if parsed, err := strconv.Atoi(points); err == nil {
			config.PointsPerWin = parsed
		}
	}
	if timeout := os.Getenv("LOCK_TIMEOUT_MS"); timeout != "" {
		if parsed, err := strconv.Atoi(timeout); err == nil {
			config.LockTimeoutMs = parsed
		}
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
