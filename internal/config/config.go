package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"tablebook/internal/auth"
	"tablebook/internal/booking"
	"tablebook/internal/cache"
	"tablebook/internal/database"
	"tablebook/internal/messaging"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config holds the application configuration.
type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	// memory (default) or postgres.
	StoreDriver string

	// Empty addresses disable the optional subsystems.
	NATSEnabled  bool
	CacheEnabled bool

	Database    database.Config
	NATS        messaging.Config
	Cache       cache.Config
	Auth        auth.Config
	Reservation booking.Config
}

// Load reads configuration from the environment. A .env file is applied
// first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		StoreDriver: getEnv("STORE_DRIVER", StoreMemory),

		NATSEnabled:  getEnv("NATS_URL", "") != "",
		CacheEnabled: getEnv("CACHE_ADDR", "") != "",

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "tablebook"),
			Password:           getEnv("DB_PASSWORD", "tablebook"),
			DBName:             getEnv("DB_NAME", "tablebook"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "tablebook"),
			ClientID:  getEnv("NATS_CLIENT_ID", "tablebook-api"),
		},

		Cache: cache.Config{
			Addr:     getEnv("CACHE_ADDR", "localhost:6379"),
			Password: getEnv("CACHE_PASSWORD", ""),
			TTL:      time.Duration(getEnvInt("CACHE_TTL_SEC", 30)) * time.Second,
		},

		Auth: auth.Config{
			Secret:        getEnv("JWT_SECRET", ""),
			TokenTTL:      time.Duration(getEnvInt("TOKEN_TTL_HOURS", 12)) * time.Hour,
			AdminLogin:    getEnv("ADMIN_LOGIN", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
			AdminUserIDs:  getEnvList("ADMIN_USER_IDS"),
		},

		Reservation: booking.Config{
			LockDuration:  time.Duration(getEnvInt("LOCK_DURATION_MIN", 15)) * time.Minute,
			SweepInterval: time.Duration(getEnvInt("SWEEP_INTERVAL_SEC", 60)) * time.Second,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
