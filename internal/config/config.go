// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// server mode, timeouts, session and recommendation settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Geocoder district component levels. Google tags Taiwan's 區 under a
// special municipality as administrative_area_level_3, but older data
// occasionally reports it one level up, so the level is configurable.
const (
	DistrictLevel2 = "administrative_area_level_2"
	DistrictLevel3 = "administrative_area_level_3"
)

// Config holds all application configuration
type Config struct {
	// LINE Bot Configuration
	LineChannelToken  string
	LineChannelSecret string

	// Geocoding Configuration
	GoogleMapsAPIKey     string        // Google Maps Geocoding API key (empty = text parsing only)
	GeocodeDistrictLevel string        // Address component level treated as district
	GeocodeTimeout       time.Duration // Timeout per reverse-geocode request

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration
	WebhookTimeout  time.Duration // Timeout for processing a single webhook event

	// Data Configuration
	DataDir string // Data directory for the SQLite store and seed file

	// Session Configuration
	RedisAddr     string        // Redis address (empty = in-memory session store)
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration // Dialog session expiry

	// Recommendation Configuration
	RecommendCount int    // Businesses per recommendation reply
	Timezone       string // Civil timezone for opening-hours evaluation

	// Error Tracking
	SentryDSN   string
	Environment string
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		LineChannelToken:  getEnv("LINE_CHANNEL_ACCESS_TOKEN", ""),
		LineChannelSecret: getEnv("LINE_CHANNEL_SECRET", ""),

		GoogleMapsAPIKey:     getEnv("GOOGLE_MAPS_API_KEY", ""),
		GeocodeDistrictLevel: getEnv("GEOCODE_DISTRICT_LEVEL", DistrictLevel3),
		GeocodeTimeout:       getDurationEnv("GEOCODE_TIMEOUT", 5*time.Second),

		Port:            getEnv("PORT", "10000"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),
		WebhookTimeout:  getDurationEnv("WEBHOOK_TIMEOUT", 25*time.Second),

		DataDir: getEnv("DATA_DIR", "./data"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		SessionTTL:    getDurationEnv("SESSION_TTL", 10*time.Minute),

		RecommendCount: getIntEnv("RECOMMEND_COUNT", 3),
		Timezone:       getEnv("TIMEZONE", "Asia/Taipei"),

		SentryDSN:   getEnv("SENTRY_DSN", ""),
		Environment: getEnv("ENVIRONMENT", "production"),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.LineChannelToken == "" {
		errs = append(errs, errors.New("LINE_CHANNEL_ACCESS_TOKEN is required"))
	}
	if c.LineChannelSecret == "" {
		errs = append(errs, errors.New("LINE_CHANNEL_SECRET is required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("DATA_DIR is required"))
	}
	if c.RecommendCount <= 0 {
		errs = append(errs, fmt.Errorf("RECOMMEND_COUNT must be positive, got %d", c.RecommendCount))
	}
	if c.GeocodeDistrictLevel != DistrictLevel2 && c.GeocodeDistrictLevel != DistrictLevel3 {
		errs = append(errs, fmt.Errorf("GEOCODE_DISTRICT_LEVEL must be %s or %s, got %q",
			DistrictLevel2, DistrictLevel3, c.GeocodeDistrictLevel))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL must be positive, got %v", c.SessionTTL))
	}
	if c.GeocodeTimeout <= 0 {
		errs = append(errs, fmt.Errorf("GEOCODE_TIMEOUT must be positive, got %v", c.GeocodeTimeout))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE is invalid: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// SQLitePath returns the full path to the SQLite store file
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "stores.db")
}

// SeedPath returns the full path to the JSON seed file loaded on first boot
func (c *Config) SeedPath() string {
	return filepath.Join(c.DataDir, "stores.json")
}

// Location returns the configured timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
