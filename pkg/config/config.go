package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Data providers
	Yahoo     YahooConfig
	Wikipedia WikipediaConfig

	// Index admission criteria
	Criteria CriteriaConfig

	// Scanning
	Scan ScanConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// YahooConfig holds Yahoo Finance configuration.
type YahooConfig struct {
	ChartBaseURL string
	QuoteBaseURL string
	RatePerSec   float64 // request budget toward Yahoo
	RateBurst    int
}

// WikipediaConfig holds Wikipedia scraping configuration.
type WikipediaConfig struct {
	BaseURL   string
	UserAgent string
}

// CriteriaConfig holds the quantitative index admission thresholds.
// Defaults follow the published S&P 500 requirements; every field is
// overridable so the scorer can be pointed at a revised rule set.
type CriteriaConfig struct {
	MinMarketCap       float64 // USD
	MinFloatPct        float64 // percent of shares publicly traded
	MinMonthlyVolume   float64 // shares per month
	MinLiquidityRatio  float64 // annual volume / float-adjusted market cap
	ProfitableQuarters int     // trailing quarters with positive earnings
	Domicile           string  // required country of domicile
}

// ScanConfig holds batch scanning parameters.
type ScanConfig struct {
	Workers      int // concurrent symbol evaluations
	LookbackDays int // price history window for cross scans
}

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8088"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Yahoo: YahooConfig{
			ChartBaseURL: getEnv("YAHOO_CHART_BASE_URL", "https://query1.finance.yahoo.com"),
			QuoteBaseURL: getEnv("YAHOO_QUOTE_BASE_URL", "https://query2.finance.yahoo.com"),
			RatePerSec:   getEnvAsFloat("YAHOO_RATE_PER_SEC", 4),
			RateBurst:    getEnvAsInt("YAHOO_RATE_BURST", 8),
		},

		Wikipedia: WikipediaConfig{
			BaseURL:   getEnv("WIKIPEDIA_BASE_URL", "https://en.wikipedia.org"),
			UserAgent: getEnv("WIKIPEDIA_USER_AGENT", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"),
		},

		Criteria: CriteriaConfig{
			MinMarketCap:       getEnvAsFloat("CRITERIA_MIN_MARKET_CAP", 22.7e9),
			MinFloatPct:        getEnvAsFloat("CRITERIA_MIN_FLOAT_PCT", 50),
			MinMonthlyVolume:   getEnvAsFloat("CRITERIA_MIN_MONTHLY_VOLUME", 250_000),
			MinLiquidityRatio:  getEnvAsFloat("CRITERIA_MIN_LIQUIDITY_RATIO", 0.75),
			ProfitableQuarters: getEnvAsInt("CRITERIA_PROFITABLE_QUARTERS", 4),
			Domicile:           getEnv("CRITERIA_DOMICILE", "United States"),
		},

		Scan: ScanConfig{
			Workers:      getEnvAsInt("SCAN_WORKERS", 8),
			LookbackDays: getEnvAsInt("SCAN_LOOKBACK_DAYS", 180),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Criteria.MinMarketCap <= 0 {
		return fmt.Errorf("CRITERIA_MIN_MARKET_CAP must be positive")
	}
	if c.Criteria.MinFloatPct <= 0 || c.Criteria.MinFloatPct > 100 {
		return fmt.Errorf("CRITERIA_MIN_FLOAT_PCT must be in (0, 100]")
	}
	if c.Criteria.MinMonthlyVolume <= 0 {
		return fmt.Errorf("CRITERIA_MIN_MONTHLY_VOLUME must be positive")
	}

	if c.Scan.Workers < 1 {
		return fmt.Errorf("SCAN_WORKERS must be at least 1")
	}
	if c.Scan.LookbackDays < 90 {
		return fmt.Errorf("SCAN_LOOKBACK_DAYS must be at least 90")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
