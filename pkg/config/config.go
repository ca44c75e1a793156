package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lodgepole/rentbilling/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `yaml:"server"`

	// Database configuration
	Database DatabaseConfig `yaml:"database"`

	// Redis run-lock configuration (optional)
	Redis RedisConfig `yaml:"redis"`

	// Billing configuration
	Billing BillingConfig `yaml:"billing"`

	// Observability configuration
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Health/metrics server (separate port for k8s probes)
	HealthPort string `yaml:"health_port"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL         string        `yaml:"url"`
	MaxConns    int           `yaml:"max_conns"`
	MinConns    int           `yaml:"min_conns"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxLifetime time.Duration `yaml:"max_lifetime"`
	MaxIdleTime time.Duration `yaml:"max_idle_time"`
}

// RedisConfig holds the optional Redis run-lock configuration.
// The run lock is disabled when URL is empty.
type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// BillingConfig holds the billing run configuration
type BillingConfig struct {
	// Stripe API secret key
	StripeAPIKey string `yaml:"stripe_api_key"`

	// Stripe API base URL, overridable for tests
	StripeBaseURL string `yaml:"stripe_base_url"`

	// ISO currency code for charges
	Currency string `yaml:"currency"`

	// Cron expression for the scheduled run
	Schedule string `yaml:"schedule"`

	// Days of occupancy (or since last payment) before rent is due
	ChargeIntervalDays int `yaml:"charge_interval_days"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel observability.LogLevel `yaml:"-"`

	// Metrics
	MetricsEnabled bool `yaml:"metrics_enabled"`

	// OpenTelemetry
	OTelEnabled        bool   `yaml:"otel_enabled"`
	OTelEndpoint       string `yaml:"otel_endpoint"`
	OTelServiceName    string `yaml:"otel_service_name"`
	OTelServiceVersion string `yaml:"otel_service_version"`
	OTelInsecure       bool   `yaml:"otel_insecure"`
}

// LoadConfig loads configuration from environment variables. When
// RENTBILLING_CONFIG_FILE is set, the YAML file is loaded first and
// environment variables override it.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	if path := getEnv("RENTBILLING_CONFIG_FILE", ""); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    5 * time.Minute,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			HealthPort:      "9090",
		},
		Database: DatabaseConfig{
			MaxConns:    10,
			MinConns:    2,
			Timeout:     10 * time.Second,
			MaxLifetime: 30 * time.Minute,
			MaxIdleTime: 5 * time.Minute,
		},
		Billing: BillingConfig{
			StripeBaseURL:      "https://api.stripe.com",
			Currency:           "cad",
			Schedule:           "0 2 * * *",
			ChargeIntervalDays: 30,
		},
		Observability: ObservabilityConfig{
			LogLevel:           observability.InfoLevel,
			MetricsEnabled:     true,
			OTelEndpoint:       "localhost:4317",
			OTelServiceName:    "rentbilling",
			OTelServiceVersion: "1.0.0",
			OTelInsecure:       true,
		},
	}
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnv() {
	c.Server.Host = getEnv("RENTBILLING_HOST", c.Server.Host)
	c.Server.Port = getEnv("RENTBILLING_PORT", c.Server.Port)
	c.Server.ReadTimeout = getEnvDuration("RENTBILLING_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvDuration("RENTBILLING_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.IdleTimeout = getEnvDuration("RENTBILLING_IDLE_TIMEOUT", c.Server.IdleTimeout)
	c.Server.ShutdownTimeout = getEnvDuration("RENTBILLING_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.HealthPort = getEnv("RENTBILLING_HEALTH_PORT", c.Server.HealthPort)

	c.Database.URL = getEnv("RENTBILLING_POSTGRES_URL", c.Database.URL)
	if maxConns := getEnvInt("RENTBILLING_POSTGRES_MAX_CONNS", 0); maxConns > 0 {
		c.Database.MaxConns = maxConns
	}
	if minConns := getEnvInt("RENTBILLING_POSTGRES_MIN_CONNS", 0); minConns > 0 {
		c.Database.MinConns = minConns
	}
	if timeout := getEnvDuration("RENTBILLING_POSTGRES_TIMEOUT", 0); timeout > 0 {
		c.Database.Timeout = timeout
	}

	c.Redis.URL = getEnv("RENTBILLING_REDIS_URL", c.Redis.URL)
	c.Redis.Password = getEnv("RENTBILLING_REDIS_PASSWORD", c.Redis.Password)
	if db := getEnvInt("RENTBILLING_REDIS_DB", -1); db >= 0 {
		c.Redis.DB = db
	}

	c.Billing.StripeAPIKey = getEnv("RENTBILLING_STRIPE_API_KEY", c.Billing.StripeAPIKey)
	c.Billing.StripeBaseURL = getEnv("RENTBILLING_STRIPE_BASE_URL", c.Billing.StripeBaseURL)
	c.Billing.Currency = getEnv("RENTBILLING_CURRENCY", c.Billing.Currency)
	c.Billing.Schedule = getEnv("RENTBILLING_SCHEDULE", c.Billing.Schedule)
	if days := getEnvInt("RENTBILLING_CHARGE_INTERVAL_DAYS", 0); days > 0 {
		c.Billing.ChargeIntervalDays = days
	}

	c.Observability.LogLevel = parseLogLevel(getEnv("RENTBILLING_LOG_LEVEL", "info"))
	c.Observability.MetricsEnabled = getEnvBool("RENTBILLING_METRICS_ENABLED", c.Observability.MetricsEnabled)
	c.Observability.OTelEnabled = getEnvBool("RENTBILLING_OTEL_ENABLED", c.Observability.OTelEnabled)
	c.Observability.OTelEndpoint = getEnv("RENTBILLING_OTEL_ENDPOINT", c.Observability.OTelEndpoint)
	c.Observability.OTelServiceName = getEnv("RENTBILLING_OTEL_SERVICE_NAME", c.Observability.OTelServiceName)
	c.Observability.OTelServiceVersion = getEnv("RENTBILLING_OTEL_SERVICE_VERSION", c.Observability.OTelServiceVersion)
	c.Observability.OTelInsecure = getEnvBool("RENTBILLING_OTEL_INSECURE", c.Observability.OTelInsecure)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("postgres URL is required")
	}

	if c.Billing.StripeAPIKey == "" {
		return fmt.Errorf("stripe API key is required")
	}
	if len(c.Billing.Currency) != 3 {
		return fmt.Errorf("invalid currency code: %s", c.Billing.Currency)
	}
	if c.Billing.Schedule == "" {
		return fmt.Errorf("billing schedule is required")
	}
	if c.Billing.ChargeIntervalDays <= 0 {
		return fmt.Errorf("charge interval must be positive")
	}

	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
