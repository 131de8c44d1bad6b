// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds the application configuration.
type Config struct {
	Server   ServerConfig
	Hygraph  HygraphConfig
	SQLite   SQLiteConfig
	Auth     AuthConfig
	Workflow WorkflowConfig
	Logger   LoggerConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// HygraphConfig holds the content store endpoint and mutation credential.
type HygraphConfig struct {
	Endpoint string
	Token    string
}

// SQLiteConfig holds the interaction store location.
type SQLiteConfig struct {
	Path string
}

// AuthConfig holds the PASETO verification key shared with the identity
// gateway (hex-encoded, 32 bytes).
type AuthConfig struct {
	TokenKeyHex string
}

// WorkflowConfig tunes the publish workflow.
type WorkflowConfig struct {
	// TagPublishDelay is the pause between creating and publishing a tag,
	// covering the content store's indexing lag.
	TagPublishDelay time.Duration
	// SyncRepairInterval is how often parked cross-store syncs are retried.
	SyncRepairInterval time.Duration
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from the environment, applying defaults where a
// variable is unset. The content store endpoint and token are required, and a
// set-but-unparsable duration is an error rather than a silent fallback.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envOr("PORT", "8080"),
		},
		Hygraph: HygraphConfig{
			Endpoint: os.Getenv("HYGRAPH_API"),
			Token:    os.Getenv("HYGRAPH_MUTATION_TOKEN"),
		},
		SQLite: SQLiteConfig{
			Path: envOr("SQLITE_DB_PATH", "./pressroom.db"),
		},
		Auth: AuthConfig{
			TokenKeyHex: os.Getenv("AUTH_TOKEN_KEY"),
		},
		Logger: LoggerConfig{
			Level: envOr("LOG_LEVEL", "info"),
		},
	}

	durations := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", 15 * time.Second, &cfg.Server.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", 15 * time.Second, &cfg.Server.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", 60 * time.Second, &cfg.Server.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", 5 * time.Second, &cfg.Server.ShutdownTimeout},
		{"TAG_PUBLISH_DELAY", 500 * time.Millisecond, &cfg.Workflow.TagPublishDelay},
		{"SYNC_REPAIR_INTERVAL", time.Minute, &cfg.Workflow.SyncRepairInterval},
	}
	for _, d := range durations {
		v, err := durationOr(d.key, d.fallback)
		if err != nil {
			return nil, err
		}
		*d.dst = v
	}

	if cfg.Hygraph.Endpoint == "" {
		return nil, fmt.Errorf("HYGRAPH_API is required")
	}
	if cfg.Hygraph.Token == "" {
		return nil, fmt.Errorf("HYGRAPH_MUTATION_TOKEN is required")
	}
	if cfg.Auth.TokenKeyHex == "" {
		return nil, fmt.Errorf("AUTH_TOKEN_KEY is required")
	}

	return cfg, nil
}

func envOr(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}
