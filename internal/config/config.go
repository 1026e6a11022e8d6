// Package config loads userfront settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Prefix is prepended to every variable name, e.g. USERFRONT_API_BASE_URL.
const Prefix = "USERFRONT"

// DefaultAPIBaseURL is the local-development backend.
const DefaultAPIBaseURL = "http://localhost:8000"

// Token store kinds.
const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds the configuration for all userfront entry points.
// Environment variables are parsed with the USERFRONT_ prefix.
type Config struct {
	// Backend
	APIBaseURL string `envconfig:"API_BASE_URL" default:"http://localhost:8000"`

	// Token storage
	TokenStore     string `envconfig:"TOKEN_STORE" default:"file"`
	StateDir       string `envconfig:"STATE_DIR" default:""`
	RedisAddr      string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword  string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB        int    `envconfig:"REDIS_DB" default:"0"`
	RedisKeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"userfront:"`

	// Web front-end
	ListenAddr      string        `envconfig:"LISTEN_ADDR" default:":3000"`
	SessionKey      string        `envconfig:"SESSION_KEY" default:""`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// Diagnostics
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

// ResolveDefaults fills values that were set but left empty and validates
// the token store kind.
func (c *Config) ResolveDefaults() error {
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	switch c.TokenStore {
	case "":
		c.TokenStore = StoreFile
	case StoreFile, StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("unsupported TOKEN_STORE: %s", c.TokenStore)
	}
	return nil
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("api_base_url", cfg.APIBaseURL).
		Str("token_store", cfg.TokenStore).
		Str("listen_addr", cfg.ListenAddr).
		Bool("session_key_present", cfg.SessionKey != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting returns a config that touches nothing outside the process.
func NewForTesting() *Config {
	return &Config{
		APIBaseURL:      DefaultAPIBaseURL,
		TokenStore:      StoreMemory,
		RedisKeyPrefix:  "userfront:",
		ListenAddr:      "127.0.0.1:0",
		SessionKey:      "test-session-key-0123456789abcdef",
		ShutdownTimeout: time.Second,
		LogLevel:        "debug",
	}
}
