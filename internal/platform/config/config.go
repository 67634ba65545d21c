// Package config loads service configuration from environment variables so
// main stays lean.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Backend selects the participant store implementation.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendMongo    Backend = "mongo"
	BackendPostgres Backend = "postgres"
)

// Config captures every recognized deployment option.
type Config struct {
	Addr string `env:"ADDR" envDefault:":8080"`

	// Capacity is the fixed registration ceiling for the event.
	Capacity int `env:"WORKSHOP_CAPACITY" envDefault:"70"`

	StoreBackend  Backend `env:"STORE_BACKEND" envDefault:"memory"`
	MongoURI      string  `env:"MONGODB_URI"`
	MongoDatabase string  `env:"MONGODB_DATABASE" envDefault:"ai-workshop"`
	PostgresDSN   string  `env:"POSTGRES_DSN"`

	BrevoAPIKey  string `env:"BREVO_API_KEY"`
	BrevoBaseURL string `env:"BREVO_BASE_URL" envDefault:"https://api.sendinblue.com"`
	SenderName   string `env:"BREVO_FROM_NAME" envDefault:"LangChain Workshop Team"`
	SenderEmail  string `env:"BREVO_FROM_EMAIL"`
	AdminName    string `env:"ADMIN_NAME" envDefault:"Workshop Admin"`
	AdminEmail   string `env:"ADMIN_EMAIL"`

	RedisURL string `env:"REDIS_URL"`

	RegisterRateLimit  int           `env:"REGISTER_RATE_LIMIT" envDefault:"10"`
	RegisterRateWindow time.Duration `env:"REGISTER_RATE_WINDOW" envDefault:"1m"`

	ExportQueueSize int           `env:"EXPORT_QUEUE_SIZE" envDefault:"4"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses the environment and validates cross-field requirements.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Capacity <= 0 {
		return Config{}, fmt.Errorf("WORKSHOP_CAPACITY must be positive, got %d", cfg.Capacity)
	}
	switch cfg.StoreBackend {
	case BackendMemory:
	case BackendMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGODB_URI is required when STORE_BACKEND=mongo")
		}
	case BackendPostgres:
		if cfg.PostgresDSN == "" {
			return Config{}, fmt.Errorf("POSTGRES_DSN is required when STORE_BACKEND=postgres")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	if cfg.BrevoAPIKey != "" && cfg.SenderEmail == "" {
		return Config{}, fmt.Errorf("BREVO_FROM_EMAIL is required when BREVO_API_KEY is set")
	}
	return cfg, nil
}
