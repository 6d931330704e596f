// Package config describes all runtime settings for the scramble server.
// Load once in main (after godotenv), validate, then pass values down.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const devSecret = "dev_secret_change_me"

type Config struct {
	Env       string `envconfig:"APP_ENV" default:"dev"` // dev|stage|prod
	Port      string `envconfig:"PORT" default:"5175"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"` // json|console

	ClientOrigin string `envconfig:"CLIENT_ORIGIN" default:"http://localhost:5173"`

	WordsFile string `envconfig:"WORDS_FILE"`
	WordsDB   string `envconfig:"WORDS_DB"`

	JWTSecret         string        `envconfig:"JWT_SECRET" default:"dev_secret_change_me"`
	TokenTTL          time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	AdminPasswordHash string        `envconfig:"ADMIN_PASSWORD_HASH"`

	RoundSeconds    int           `envconfig:"ROUND_SECONDS" default:"30"`
	TickInterval    time.Duration `envconfig:"TICK_INTERVAL" default:"1s"`
	MaxSessions     int           `envconfig:"MAX_SESSIONS" default:"1024"`
	DailySalt       string        `envconfig:"DAILY_SALT" default:"local_dev_salt"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads the environment into a Config and validates it.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is empty")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is empty")
	}
	if c.Env != "dev" && c.JWTSecret == devSecret {
		return fmt.Errorf("refuse to run with default JWT_SECRET in %s", c.Env)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("unsupported LOG_FORMAT=%q (want json|console)", c.LogFormat)
	}
	if c.RoundSeconds <= 0 {
		return fmt.Errorf("ROUND_SECONDS must be positive, got %d", c.RoundSeconds)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("TICK_INTERVAL must be positive, got %s", c.TickInterval)
	}
	if c.MaxSessions <= 0 {
		return fmt.Errorf("MAX_SESSIONS must be positive, got %d", c.MaxSessions)
	}
	return nil
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string { return ":" + c.Port }
