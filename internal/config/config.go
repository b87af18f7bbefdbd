// Package config loads the web server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"smakrik.se/web/internal/logging"
)

// Prefix is prepended to every environment variable name.
const Prefix = "SMAKRIK_"

const minSigningKeyLength = 32

// Config holds runtime options for the web server.
type Config struct {
	Addr              string        `env:"ADDR"`
	Port              string        `env:"PORT"`
	Environment       string        `env:"ENV" envDefault:"development"`
	Dev               bool          `env:"DEV"`
	BaseURL           string        `env:"BASE_URL" envDefault:"http://localhost:8080"`
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"8s"`
	SessionSigningKey string        `env:"SESSION_SIGNING_KEY"`
	DBPath            string        `env:"DB_PATH" envDefault:"smakrik.db"`
	ContentDir        string        `env:"CONTENT_DIR"`
	GAMeasurementID   string        `env:"GA_MEASUREMENT_ID"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Options controls where Load reads from.
type Options struct {
	// DotEnvFiles are loaded into the process environment first; missing files are
	// skipped. Variables already set are never overridden.
	DotEnvFiles []string
	// Environment replaces the process environment when non-nil.
	Environment map[string]string
}

// Load parses the configuration and validates it.
func Load(opts Options) (Config, error) {
	for _, file := range opts.DotEnvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var cfg Config
	envOpts := env.Options{Prefix: Prefix}
	if opts.Environment != nil {
		envOpts.Environment = opts.Environment
	}
	if err := env.ParseWithOptions(&cfg, envOpts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	// Cloud Run and similar platforms inject an unprefixed PORT.
	if cfg.Port == "" {
		cfg.Port = lookup(opts.Environment, "PORT")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Addr == "" {
		cfg.Addr = ":" + cfg.Port
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func lookup(environ map[string]string, key string) string {
	if environ != nil {
		return strings.TrimSpace(environ[key])
	}
	return strings.TrimSpace(os.Getenv(key))
}

// Production reports whether the server runs in production.
func (c Config) Production() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Validate checks field values. Production additionally requires a session signing key.
func (c Config) Validate() error {
	var invalid []string
	if !absoluteHTTP(c.BaseURL) {
		invalid = append(invalid, Prefix+"BASE_URL")
	}
	if c.WebhookURL != "" && !absoluteHTTP(c.WebhookURL) {
		invalid = append(invalid, Prefix+"WEBHOOK_URL")
	}
	if c.WebhookTimeout <= 0 {
		invalid = append(invalid, Prefix+"WEBHOOK_TIMEOUT")
	}
	if c.ShutdownTimeout <= 0 {
		invalid = append(invalid, Prefix+"SHUTDOWN_TIMEOUT")
	}
	if !logging.ValidLevel(c.LogLevel) {
		invalid = append(invalid, Prefix+"LOG_LEVEL")
	}
	if c.Production() && len(c.SessionSigningKey) < minSigningKeyLength {
		invalid = append(invalid, Prefix+"SESSION_SIGNING_KEY")
	}
	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}

func absoluteHTTP(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
