package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	applog "dompet/internal/log"
)

type Config struct {
	// HTTP Server
	Port               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	RateLimitPerMinute int

	// Logging
	LogLevel  string
	LogFormat string

	// Database (settings only)
	SQLiteDBPath string

	// Locale middleware activation. Empty means the resolver intercepts
	// nothing and every page renders in the default locale.
	LocaleMatcher []string

	// Dashboard data source
	DashboardSeedFile string
	FetchDelay        time.Duration
	CacheTTL          time.Duration
	CacheSize         int
}

func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8081"),
		ReadTimeout:        getEnvDuration("READ_TIMEOUT", 10*time.Second),
		WriteTimeout:       getEnvDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/dompet.db"),

		LocaleMatcher: getEnvList("LOCALE_MATCHER"),

		DashboardSeedFile: getEnv("DASHBOARD_SEED_FILE", ""),
		FetchDelay:        getEnvDuration("FETCH_DELAY", 0),
		CacheTTL:          getEnvDuration("CACHE_TTL", 5*time.Minute),
		CacheSize:         getEnvInt("CACHE_SIZE", 100),
	}
}

// Validate validates the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if _, err := applog.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	}

	for _, p := range c.LocaleMatcher {
		if !strings.HasPrefix(p, "/") {
			errors = append(errors, fmt.Sprintf("invalid locale matcher pattern '%s': must start with '/'", p))
		}
	}

	if c.DashboardSeedFile != "" {
		if _, err := os.Stat(c.DashboardSeedFile); err != nil {
			errors = append(errors, fmt.Sprintf("dashboard seed file not readable: %s", c.DashboardSeedFile))
		} else if filepath.Ext(c.DashboardSeedFile) != ".json" {
			errors = append(errors, fmt.Sprintf("dashboard seed file must be JSON: %s", c.DashboardSeedFile))
		}
	}

	if c.FetchDelay < 0 || c.FetchDelay > 10*time.Second {
		errors = append(errors, fmt.Sprintf("invalid fetch delay %v: must be between 0 and 10s", c.FetchDelay))
	}
	if c.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must not be negative", c.CacheTTL))
	}
	if c.CacheSize < 1 || c.CacheSize > 10000 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be between 1 and 10000", c.CacheSize))
	}
	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1", c.RateLimitPerMinute))
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 || c.ShutdownTimeout <= 0 {
		errors = append(errors, "server timeouts must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// Addr returns the listen address for Port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
