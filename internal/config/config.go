package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName          string
	AppVersion       string
	Environment      string
	HTTPAddr         string
	AuthCookieSecure bool

	OTLPEndpoint string
	RedisAddr    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	// Price override authorization.
	PriceOverrideAccessCode      string
	PriceOverrideWindowSecs      int
	PriceOverrideMaxAttempts     int
	PriceOverrideAttemptsWindSec int

	DTE DTEConfig

	SeedDemoData bool
}

// DTEConfig carries the Hacienda gateway settings.
type DTEConfig struct {
	Enabled           bool
	GatewayURL        string
	APIToken          string
	IssuerNIT         string
	IssuerNRC         string
	IssuerName        string
	Establecimiento   string
	PuntoVenta        string
	AutoresendSecs    int
	AutoresendMaxSend int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	return Config{
		AppName:          getenv("APP_SERVICE", "facturacion"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Environment:      environment,
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		AuthCookieSecure: authCookieSecure,
		OTLPEndpoint:     getenv("OTLP_ENDPOINT", "localhost:4317"),
		RedisAddr:        strings.TrimSpace(getenv("REDIS_ADDR", "")),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "facturacion"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),

		PriceOverrideAccessCode:      strings.TrimSpace(getenv("PRICE_OVERRIDE_ACCESS_CODE", "123")),
		PriceOverrideWindowSecs:      getenvInt("PRICE_OVERRIDE_WINDOW_SECONDS", 300),
		PriceOverrideMaxAttempts:     getenvInt("PRICE_OVERRIDE_MAX_ATTEMPTS", 5),
		PriceOverrideAttemptsWindSec: getenvInt("PRICE_OVERRIDE_ATTEMPTS_WINDOW_SECONDS", 600),

		DTE: DTEConfig{
			Enabled:           getenvBool("DTE_ENABLED", true),
			GatewayURL:        getenv("DTE_GATEWAY_URL", ""),
			APIToken:          strings.TrimSpace(getenv("DTE_API_TOKEN", "")),
			IssuerNIT:         strings.TrimSpace(getenv("DTE_ISSUER_NIT", "")),
			IssuerNRC:         strings.TrimSpace(getenv("DTE_ISSUER_NRC", "")),
			IssuerName:        getenv("DTE_ISSUER_NAME", ""),
			Establecimiento:   getenv("DTE_ESTABLECIMIENTO", "M002"),
			PuntoVenta:        getenv("DTE_PUNTO_VENTA", "P001"),
			AutoresendSecs:    getenvInt("DTE_AUTORESEND_SECONDS", 300),
			AutoresendMaxSend: getenvInt("DTE_AUTORESEND_MAX_SEND", 5),
		},

		SeedDemoData: getenvBool("SEED_DEMO_DATA", false),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
