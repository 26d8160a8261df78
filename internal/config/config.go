// Package config loads process configuration from the environment.
//
// Values come from environment variables, optionally seeded from a .env file
// for local development. Each component owns its own struct and env tags;
// Config composes them and validates the result once at startup so a bad
// deployment fails before serving traffic.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"url-summarizer/internal/infra/fetcher"
	"url-summarizer/internal/infra/summarizer"
	"url-summarizer/internal/observability/tracing"
)

// EnvProduction is the ENVIRONMENT value that hides error stacks.
const EnvProduction = "production"

// Config is the full process configuration.
type Config struct {
	Environment   string `env:"ENVIRONMENT" envDefault:"production"`
	HTTPAddr      string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	AllowedOrigin string `env:"ALLOWED_ORIGIN" envDefault:"*"`
	Version       string `env:"VERSION" envDefault:"dev"`

	// MaxBodyBytes caps inbound request bodies on the HTTP server.
	MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" envDefault:"1048576"`

	Fetcher    fetcher.Config
	Summarizer summarizer.Config
	Tracing    tracing.Config
}

// IsProduction reports whether error stacks must be withheld from clients.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, EnvProduction)
}

// Load reads .env files (missing files are ignored) and then the environment.
// Variables already set in the environment win over .env values.
func Load(dotenvFiles ...string) (Config, error) {
	if err := godotenv.Load(dotenvFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse(env.Options{})
}

// Parse reads the configuration with the given env options and validates it.
// Tests pass Options.Environment to avoid touching the process environment.
func Parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		configMetrics.RecordValidationError("parse")
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	configMetrics.RecordLoadTimestamp()
	return cfg, nil
}

// Validate checks every section and reports all failures at once.
func (c Config) Validate() error {
	var errs []error
	check := func(field string, err error) {
		if err != nil {
			configMetrics.RecordValidationError(field)
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
	}

	if strings.TrimSpace(c.HTTPAddr) == "" {
		check("http_addr", errors.New("must not be empty"))
	}
	if strings.TrimSpace(c.AllowedOrigin) == "" {
		check("allowed_origin", errors.New("must not be empty"))
	}
	if c.MaxBodyBytes <= 0 {
		check("http_max_body_bytes", fmt.Errorf("must be positive, got %d", c.MaxBodyBytes))
	}
	check("fetcher", c.Fetcher.Validate())
	check("summarizer", c.Summarizer.Validate())
	check("tracing", c.Tracing.Validate())

	return errors.Join(errs...)
}

// LogWarnings reports settings that are legal but probably unintended.
func (c Config) LogWarnings(logger *slog.Logger) {
	if !c.Tracing.Enabled() {
		logger.Info("Langfuse keys are not set; generation telemetry is disabled")
	}
	if !c.IsProduction() {
		logger.Info("non-production environment; error stacks are included in 500 responses",
			slog.String("environment", c.Environment))
	}
}
