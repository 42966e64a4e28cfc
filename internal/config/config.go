// Package config loads application settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Access policies for note operations addressed by id.
const (
	AccessOpen  = "open"
	AccessOwner = "owner"
)

// Config holds every runtime setting.
type Config struct {
	AppPort       string
	DBDriver      string
	DatabaseDSN   string
	JWTSecret     string
	JWTTTL        time.Duration
	RabbitMQURL   string
	NotesExchange string
	AccessPolicy  string
	PublicBaseURL string
	LogLevel      string
	LogFormat     string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	return FromViper(v)
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:notes.db?_foreign_keys=on")
	v.SetDefault("JWT_SECRET", "dev-secret-change-in-production")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("NOTES_EXCHANGE", "notes")
	v.SetDefault("NOTES_ACCESS_POLICY", AccessOpen)
	v.SetDefault("PUBLIC_BASE_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	ttl, err := time.ParseDuration(v.GetString("JWT_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}

	cfg := &Config{
		AppPort:       v.GetString("APP_PORT"),
		DBDriver:      v.GetString("DB_DRIVER"),
		DatabaseDSN:   v.GetString("DATABASE_DSN"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		JWTTTL:        ttl,
		RabbitMQURL:   v.GetString("RABBITMQ_URL"),
		NotesExchange: v.GetString("NOTES_EXCHANGE"),
		AccessPolicy:  v.GetString("NOTES_ACCESS_POLICY"),
		PublicBaseURL: v.GetString("PUBLIC_BASE_URL"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFormat:     v.GetString("LOG_FORMAT"),
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER %q: want postgres or sqlite", cfg.DBDriver)
	}
	switch cfg.AccessPolicy {
	case AccessOpen, AccessOwner:
	default:
		return nil, fmt.Errorf("invalid NOTES_ACCESS_POLICY %q: want %s or %s", cfg.AccessPolicy, AccessOpen, AccessOwner)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}
	return cfg, nil
}
