// Package config provides application configuration management from
// environment variables, with an optional YAML file overlay.
//
// # Configuration Structure
//
// Server settings:
//
//	RENTBILLING_HOST="0.0.0.0"
//	RENTBILLING_PORT="8080"
//	RENTBILLING_HEALTH_PORT="9090"
//
// Database settings:
//
//	RENTBILLING_POSTGRES_URL="postgres://localhost/rentbilling"
//	RENTBILLING_POSTGRES_MAX_CONNS="10"
//
// Billing settings:
//
//	RENTBILLING_STRIPE_API_KEY="sk_live_..."
//	RENTBILLING_CURRENCY="cad"
//	RENTBILLING_SCHEDULE="0 2 * * *"
//	RENTBILLING_CHARGE_INTERVAL_DAYS="30"
//
// Run lock settings (optional, disabled when unset):
//
//	RENTBILLING_REDIS_URL="redis://localhost:6379"
//
// Observability settings:
//
//	RENTBILLING_LOG_LEVEL="info"  # debug, info, warn, error
//	RENTBILLING_METRICS_ENABLED="true"
//	RENTBILLING_OTEL_ENABLED="false"
//
// # Usage Example
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Schedule: %s\n", cfg.Billing.Schedule)
//
// A YAML file named by RENTBILLING_CONFIG_FILE is applied before the
// environment, so environment variables always win.
package config
