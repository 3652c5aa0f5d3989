package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds settings read once from the environment at startup.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Hosted store
	SupabaseURL            string
	SupabaseAnonKey        string
	SupabaseServiceRoleKey string

	// Database
	DatabaseDriver     string
	DatabaseURL        string
	DatabaseServiceURL string
	DBMaxOpenConns     int
	DBMaxIdleConns     int
	DBConnMaxLifetime  time.Duration
	MigrateOnStart     bool

	AuthTimeout time.Duration

	// Rate limit for write and auth routes
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads Config from the environment. It returns an error naming every
// required variable that is unset.
func Load() (*Config, error) {
	cfg := &Config{}

	var missing []string
	required := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg.SupabaseURL = required("SUPABASE_URL")
	cfg.SupabaseAnonKey = required("SUPABASE_ANON_KEY")
	cfg.SupabaseServiceRoleKey = required("SUPABASE_SERVICE_ROLE_KEY")
	cfg.DatabaseURL = required("DATABASE_URL")

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	loadDatabase(cfg)
	cfg.Port = getEnv("PORT", "8000")
	cfg.Env = getEnv("ENV", "development")
	cfg.AuthTimeout = getEnvDuration("AUTH_TIMEOUT", 10*time.Second)
	cfg.RateLimitRPS = getEnvFloat("RATE_LIMIT_RPS", 5)
	cfg.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", 10)

	if cfg.Env == "production" && cfg.DatabaseServiceURL == cfg.DatabaseURL {
		slog.Warn("DATABASE_SERVICE_URL not set, repositories share the reduced-privilege DSN")
	}

	return cfg, nil
}

// LoadDatabase reads only the settings needed to reach the database, for
// commands such as migrate that never talk to the hosted auth service.
func LoadDatabase() (*Config, error) {
	cfg := &Config{DatabaseURL: os.Getenv("DATABASE_URL")}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("required environment variables are not set: %v", []string{"DATABASE_URL"})
	}
	loadDatabase(cfg)
	return cfg, nil
}

func loadDatabase(cfg *Config) {
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.DatabaseDriver = getEnv("DATABASE_DRIVER", "postgres")
	cfg.DatabaseServiceURL = getEnv("DATABASE_SERVICE_URL", cfg.DatabaseURL)
	cfg.DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 25)
	cfg.DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 5)
	cfg.DBConnMaxLifetime = getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	cfg.MigrateOnStart = getEnvBool("MIGRATE_ON_START", false)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
