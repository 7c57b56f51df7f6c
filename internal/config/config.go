package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret string
	JWTExpiry time.Duration

	// HTTP
	CORSOrigin     string
	RequestTimeout time.Duration
	RateLimitOn    bool
	RateLimitRPS   float64
	RateLimitBurst int
	TrustProxy     bool

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	loadDotenv()

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "MyProgress"),
		AppEnv:  envString("APP_ENV", "development"),
		Port:    envString("PORT", "5000"),

		// Database
		DBDriver:     envString("DB_DRIVER", defaultDBDriver),
		DBConnection: envString("DB_CONNECTION", defaultDBConnection),

		// Security
		JWTSecret: envRequired("JWT_SECRET"),
		JWTExpiry: envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days

		// HTTP
		CORSOrigin:     envString("CORS_ORIGIN", "http://localhost:3000"),
		RequestTimeout: envDuration("REQUEST_TIMEOUT", 15*time.Second),
		RateLimitOn:    envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRPS:   envFloat("RATE_LIMIT_RPS", 0.2), // 12 per minute on auth routes
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 5),
		TrustProxy:     envBool("TRUST_PROXY", false), // Only behind a proxy that sets X-Forwarded-For

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	return cfg
}

const (
	defaultDBDriver     = "sqlite"
	defaultDBConnection = "./data/myprogress.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
)

// LoadDatabase reads only the database settings, for tooling that must not
// require the server secrets.
func LoadDatabase() (driver, connection string) {
	loadDotenv()
	return envString("DB_DRIVER", defaultDBDriver), envString("DB_CONNECTION", defaultDBConnection)
}

func loadDotenv() {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		slog.Warn("config invalid float, using default", "key", key, "value", v, "default", def)
		return def
	}
	return f
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
