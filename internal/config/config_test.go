package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:               "8081",
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       10 * time.Second,
		ShutdownTimeout:    30 * time.Second,
		RateLimitPerMinute: 60,
		LogLevel:           "info",
		LogFormat:          "text",
		SQLiteDBPath:       "./data/test.db",
		CacheTTL:           5 * time.Minute,
		CacheSize:          100,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid defaults",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "valid locale matcher",
			mutate:  func(c *Config) { c.LocaleMatcher = []string{"/", "/en/*"} },
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
		{
			name:        "invalid log format",
			mutate:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
		{
			name:        "empty database path",
			mutate:      func(c *Config) { c.SQLiteDBPath = "" },
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name:        "relative locale pattern",
			mutate:      func(c *Config) { c.LocaleMatcher = []string{"en/*"} },
			wantErr:     true,
			errorString: "invalid locale matcher pattern 'en/*'",
		},
		{
			name:        "missing seed file",
			mutate:      func(c *Config) { c.DashboardSeedFile = "/does/not/exist.json" },
			wantErr:     true,
			errorString: "dashboard seed file not readable",
		},
		{
			name:        "fetch delay too long",
			mutate:      func(c *Config) { c.FetchDelay = time.Minute },
			wantErr:     true,
			errorString: "invalid fetch delay 1m0s",
		},
		{
			name:        "cache size zero",
			mutate:      func(c *Config) { c.CacheSize = 0 },
			wantErr:     true,
			errorString: "invalid cache size 0",
		},
		{
			name: "multiple errors are combined",
			mutate: func(c *Config) {
				c.Port = "0"
				c.RateLimitPerMinute = 0
			},
			wantErr:     true,
			errorString: "invalid rate limit 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Validate() expected error containing %q, got nil", tt.errorString)
				}
				if !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Validate() error = %v, want it to contain %q", err, tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Validate() unexpected error = %v", err)
			}
		})
	}
}

func TestConfig_ValidateSeedFile(t *testing.T) {
	dir := t.TempDir()
	seed := filepath.Join(dir, "seed.json")
	if err := os.WriteFile(seed, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := validConfig()
	cfg.DashboardSeedFile = seed
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	txt := filepath.Join(dir, "seed.txt")
	if err := os.WriteFile(txt, []byte(`x`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.DashboardSeedFile = txt
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "must be JSON") {
		t.Fatalf("expected JSON error, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOCALE_MATCHER", " /, /en/* ,")
	t.Setenv("FETCH_DELAY", "250ms")
	t.Setenv("CACHE_SIZE", "not-a-number")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if got := strings.Join(cfg.LocaleMatcher, "|"); got != "/|/en/*" {
		t.Errorf("LocaleMatcher = %q", got)
	}
	if cfg.FetchDelay != 250*time.Millisecond {
		t.Errorf("FetchDelay = %v", cfg.FetchDelay)
	}
	if cfg.CacheSize != 100 {
		t.Errorf("CacheSize should fall back to default, got %d", cfg.CacheSize)
	}
	if cfg.Addr() != ":9090" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
}

func TestLoadDefaultsLeaveLocaleMiddlewareOff(t *testing.T) {
	t.Setenv("LOCALE_MATCHER", "")
	if got := Load().LocaleMatcher; len(got) != 0 {
		t.Fatalf("expected empty matcher, got %v", got)
	}
}
