// Package config loads application configuration from environment
// variables.
package config

import (
	"log"
	"os"
	"strconv"
)

// Store drivers selectable via STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverJSONFile = "jsonfile"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Database fields are only required when the
// postgres driver is selected.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port to listen on
	JWTSecret     string // secret used to sign JWTs
	TokenTTLDays  int    // access token time-to-live in days
	BcryptCost    int    // bcrypt cost for password hashing
	StoreDriver   string // "postgres" or "jsonfile"
	DataDir       string // data directory for the jsonfile driver
	DBUser        string // database username
	DBPass        string // database password (optional)
	DBHost        string // database host address
	DBPort        string // database port number
	DBName        string // database name
	AdminEmail    string // bootstrap admin email
	AdminPassword string // bootstrap admin password
	AMQPURL       string // message broker URL, empty disables the broker
}

// Load reads configuration from environment variables.  Required
// variables are enforced by must() and missing values cause the program
// to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		JWTSecret:     must("JWT_SECRET"),
		TokenTTLDays:  envInt("TOKEN_TTL_DAYS", 7),
		BcryptCost:    envInt("BCRYPT_COST", 10),
		StoreDriver:   envStr("STORE_DRIVER", DriverPostgres),
		DataDir:       envStr("DATA_DIR", "./data"),
		AdminEmail:    envStr("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: envStr("ADMIN_PASSWORD", "admin123"),
		AMQPURL:       os.Getenv("AMQP_URL"),
	}
	switch cfg.StoreDriver {
	case DriverPostgres:
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS")
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	case DriverJSONFile:
	default:
		log.Fatalf("unknown STORE_DRIVER: %q", cfg.StoreDriver)
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}
