// Package config provides configuration management for the booking service.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultHotelURL is the booking-engine entry point searches are run
// against when TARGET_HOTEL_URL is unset.
const DefaultHotelURL = "https://www.simplebooking.it/ibe2/hotel/1467?lang=IT&cur=EUR"

// Config holds all configuration for the booking service.
type Config struct {
	// Server settings
	Port     int
	LogLevel string

	// Target site
	HotelURL string

	// Browser settings
	ChromePath string
	Headless   bool
	SlowMo     time.Duration

	// Flow timeouts
	NavTimeout     time.Duration
	NavRetries     int
	ResultsTimeout time.Duration
	ConfirmTimeout time.Duration

	// Session settings
	MaxSessions     int
	SessionMaxIdle  time.Duration
	CleanupInterval time.Duration

	// Server idle shutdown (0 disables)
	IdleTimeout time.Duration

	// Booking outcome journal
	JournalPath string

	// TestMode stops the flow before real payment submission.
	TestMode bool
}

// Load creates a Config from environment variables with sensible
// defaults. A .env file in the working directory is loaded first when
// present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	return &Config{
		Port:            getEnvInt("PORT", 8080),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		HotelURL:        getEnv("TARGET_HOTEL_URL", DefaultHotelURL),
		ChromePath:      getEnv("CHROME_PATH", ""),
		Headless:        getEnvBool("HEADLESS", true),
		SlowMo:          getEnvDuration("SLOW_MO", 0),
		NavTimeout:      getEnvDuration("NAV_TIMEOUT", 15*time.Second),
		NavRetries:      getEnvInt("NAV_RETRIES", 2),
		ResultsTimeout:  getEnvDuration("RESULTS_TIMEOUT", 15*time.Second),
		ConfirmTimeout:  getEnvDuration("CONFIRM_TIMEOUT", 5*time.Second),
		MaxSessions:     getEnvInt("MAX_SESSIONS", 5),
		SessionMaxIdle:  getEnvDuration("SESSION_MAX_IDLE", 10*time.Minute),
		CleanupInterval: getEnvDuration("CLEANUP_INTERVAL", time.Minute),
		IdleTimeout:     getEnvDuration("IDLE_TIMEOUT", 0),
		JournalPath:     getEnv("JOURNAL_PATH", "data/bookings.db"),
		TestMode:        getEnvBool("TEST_MODE", true),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
