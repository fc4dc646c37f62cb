// Package config loads and validates the process configuration from the
// environment, with optional .env file support.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// JWT holds the token lifecycle parameters. The access and refresh secrets
// must differ so a refresh token can never pass for an access token.
type JWT struct {
	AccessSecret  string        `envconfig:"ACCESS_SECRET"`
	RefreshSecret string        `envconfig:"REFRESH_SECRET"`
	AccessTTL     time.Duration `envconfig:"ACCESS_TTL" default:"15m"`
	RefreshTTL    time.Duration `envconfig:"REFRESH_TTL" default:"168h"`
}

// OAuthProvider holds one provider's client credentials. A provider with an
// empty client id stays disabled.
type OAuthProvider struct {
	ClientID     string `envconfig:"CLIENT_ID"`
	ClientSecret string `envconfig:"CLIENT_SECRET"`
}

// Config is the full process configuration.
type Config struct {
	Port         string `envconfig:"PORT" default:"5000"`
	DatabasePath string `envconfig:"DATABASE_PATH" default:"finanzas.db"`

	// BaseURL is this API's externally visible origin (OAuth callbacks);
	// FrontendURL is the SPA origin allowed by CORS and targeted by OAuth
	// redirects.
	BaseURL     string `envconfig:"BASE_URL" default:"http://localhost:5000"`
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:5173"`

	BcryptCost int `envconfig:"BCRYPT_COST" default:"10"`

	JWT    JWT           `envconfig:"JWT"`
	GitHub OAuthProvider `envconfig:"GITHUB"`
	Google OAuthProvider `envconfig:"GOOGLE"`
}

// Load reads an optional .env file, populates the configuration from the
// environment, and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using process environment")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration invariants.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.DatabasePath == "" {
		return errors.New("database path is required")
	}
	if len(c.JWT.AccessSecret) < 32 {
		return errors.New("JWT_ACCESS_SECRET must be at least 32 characters")
	}
	if len(c.JWT.RefreshSecret) < 32 {
		return errors.New("JWT_REFRESH_SECRET must be at least 32 characters")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost)
	}
	return nil
}
