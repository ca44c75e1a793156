package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lodgepole/rentbilling/pkg/observability"
)

// TestGetEnv tests the getEnv helper function
func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "returns env value when set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
		{
			name:         "returns default when env not set",
			key:          "TEST_VAR_NOT_SET",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvDuration tests the getEnvDuration helper function
func TestGetEnvDuration(t *testing.T) {
	os.Setenv("TEST_DURATION", "45s")
	defer os.Unsetenv("TEST_DURATION")

	if got := getEnvDuration("TEST_DURATION", time.Minute); got != 45*time.Second {
		t.Errorf("getEnvDuration() = %v, want 45s", got)
	}
	if got := getEnvDuration("TEST_DURATION_NOT_SET", time.Minute); got != time.Minute {
		t.Errorf("getEnvDuration() default = %v, want 1m", got)
	}

	os.Setenv("TEST_DURATION_BAD", "not-a-duration")
	defer os.Unsetenv("TEST_DURATION_BAD")
	if got := getEnvDuration("TEST_DURATION_BAD", time.Minute); got != time.Minute {
		t.Errorf("getEnvDuration() invalid = %v, want default", got)
	}
}

// TestParseLogLevel tests log level parsing
func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  observability.LogLevel
	}{
		{"debug", observability.DebugLevel},
		{"info", observability.InfoLevel},
		{"warn", observability.WarnLevel},
		{"warning", observability.WarnLevel},
		{"error", observability.ErrorLevel},
		{"ERROR", observability.ErrorLevel},
		{"garbage", observability.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.input); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("RENTBILLING_POSTGRES_URL", "postgres://localhost/rentbilling?sslmode=disable")
	t.Setenv("RENTBILLING_STRIPE_API_KEY", "sk_test_123")
}

// TestLoadConfigDefaults tests default values
func TestLoadConfigDefaults(t *testing.T) {
	validEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("default port = %s, want 8080", cfg.Server.Port)
	}
	if cfg.Billing.Currency != "cad" {
		t.Errorf("default currency = %s, want cad", cfg.Billing.Currency)
	}
	if cfg.Billing.Schedule != "0 2 * * *" {
		t.Errorf("default schedule = %s", cfg.Billing.Schedule)
	}
	if cfg.Billing.ChargeIntervalDays != 30 {
		t.Errorf("default charge interval = %d, want 30", cfg.Billing.ChargeIntervalDays)
	}
	if cfg.Redis.URL != "" {
		t.Errorf("redis should be disabled by default")
	}
}

// TestLoadConfigValidation tests validation failures
func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T)
	}{
		{
			name: "missing postgres URL",
			setup: func(t *testing.T) {
				t.Setenv("RENTBILLING_STRIPE_API_KEY", "sk_test_123")
			},
		},
		{
			name: "missing stripe key",
			setup: func(t *testing.T) {
				t.Setenv("RENTBILLING_POSTGRES_URL", "postgres://localhost/rentbilling")
			},
		},
		{
			name: "invalid currency",
			setup: func(t *testing.T) {
				validEnv(t)
				t.Setenv("RENTBILLING_CURRENCY", "dollars")
			},
		},
		{
			name: "same server and health port",
			setup: func(t *testing.T) {
				validEnv(t)
				t.Setenv("RENTBILLING_PORT", "9090")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup(t)
			if _, err := LoadConfig(); err == nil {
				t.Error("LoadConfig() expected error, got nil")
			}
		})
	}
}

// TestLoadConfigFileOverlay tests YAML file loading with env override
func TestLoadConfigFileOverlay(t *testing.T) {
	validEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("billing:\n  currency: usd\n  schedule: \"30 1 * * *\"\nserver:\n  port: \"8181\"\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("RENTBILLING_CONFIG_FILE", path)
	t.Setenv("RENTBILLING_CURRENCY", "eur")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	// env wins over file
	if cfg.Billing.Currency != "eur" {
		t.Errorf("currency = %s, want eur", cfg.Billing.Currency)
	}
	// file wins over defaults
	if cfg.Billing.Schedule != "30 1 * * *" {
		t.Errorf("schedule = %s, want file value", cfg.Billing.Schedule)
	}
	if cfg.Server.Port != "8181" {
		t.Errorf("port = %s, want 8181", cfg.Server.Port)
	}
}
