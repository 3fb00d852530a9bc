// internal/config/config.go
//
// Process configuration read from the environment.
// A .env file in the working directory is loaded first when present;
// variables already set in the environment win over it.

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the server and CLI configuration.
type Config struct {
	Port           string        `envconfig:"PORT" default:"5175"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	ClientOrigin   string        `envconfig:"CLIENT_ORIGIN" default:"http://localhost:5173"`
	JWTSecret      string        `envconfig:"JWT_SECRET" default:"dev_secret_change_me"`
	NodeEnv        string        `envconfig:"NODE_ENV"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"2h"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	DefaultLocale  string        `envconfig:"DEFAULT_LOCALE" default:"ja"`
	DeckFile       string        `envconfig:"RIDDLE_DECK_FILE"`
	RateLimitRPS   float64       `envconfig:"RATE_LIMIT_RPS" default:"5"`
	RateLimitBurst int           `envconfig:"RATE_LIMIT_BURST" default:"10"`
}

// Load reads .env (if any) and the environment into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv decodes the current environment without touching .env files.
func FromEnv() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Port == "":
		return errors.New("config: PORT is empty")
	case c.JWTSecret == "":
		return errors.New("config: JWT_SECRET is empty")
	case c.DefaultLocale == "":
		return errors.New("config: DEFAULT_LOCALE is empty")
	case c.RequestTimeout <= 0:
		return errors.New("config: REQUEST_TIMEOUT must be positive")
	case c.RateLimitRPS < 0 || c.RateLimitBurst < 0:
		return errors.New("config: rate limits must not be negative")
	}
	return nil
}

// Production reports whether cookies should be Secure / SameSite=None.
func (c Config) Production() bool { return c.NodeEnv == "production" }
