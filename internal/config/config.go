// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/mmynk/stockroom/internal/storage"
)

// S3 selects S3 upload storage when Bucket is set.
type S3 struct {
	Bucket    string `env:"BUCKET"`
	Region    string `env:"REGION"     envDefault:"us-east-1"`
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
}

// Config is the complete server configuration.
type Config struct {
	HTTPAddr    string        `env:"HTTP_ADDR"    envDefault:":8000"`
	DatabaseURL string        `env:"DATABASE_URL" envDefault:"./data/stockroom.db"`
	SecretKey   string        `env:"SECRET_KEY"`
	TokenTTL    time.Duration `env:"TOKEN_TTL"    envDefault:"1h"`

	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	UploadDir          string   `env:"UPLOAD_DIR"           envDefault:"./uploads"`
	// MaxUploadBytes caps the body of an upload request.
	MaxUploadBytes     int64    `env:"MAX_UPLOAD_BYTES"     envDefault:"33554432"`
	S3                 S3       `envPrefix:"S3_"`

	// OTELEndpoint is the OTLP/HTTP collector address. Empty disables export.
	OTELEndpoint string `env:"OTEL_ENDPOINT"`

	RetryMaxTries   uint          `env:"STORAGE_RETRY_MAX_TRIES"   envDefault:"3"`
	RetryMaxElapsed time.Duration `env:"STORAGE_RETRY_MAX_ELAPSED" envDefault:"2s"`
}

// Load reads the optional dotenv files (".env" if none are given) into the
// process environment, then parses the environment. Variables already set
// take precedence over the files.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.SecretKey == "" {
		errs = append(errs, errors.New("SECRET_KEY is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.RetryMaxTries == 0 {
		errs = append(errs, errors.New("STORAGE_RETRY_MAX_TRIES must be at least 1"))
	}
	return errors.Join(errs...)
}

// IsPostgres reports whether DatabaseURL points at a PostgreSQL server.
func (c *Config) IsPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") ||
		strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

// RetryPolicy returns the storage retry policy.
func (c *Config) RetryPolicy() storage.RetryPolicy {
	p := storage.DefaultRetryPolicy()
	p.MaxTries = c.RetryMaxTries
	p.MaxElapsedTime = c.RetryMaxElapsed
	return p
}
