// SPDX-License-Identifier: MIT

// Package config loads the tbmodels CLI settings from TBMODELS_* environment
// variables (caarlos0/env). Command-line flags override the loaded values.
package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/katalvlaran/tbmodels/codec"
	"github.com/katalvlaran/tbmodels/internal/logging"
	"github.com/katalvlaran/tbmodels/store"
)

// Prefix is prepended to every variable name.
const Prefix = "TBMODELS_"

// Store backends.
const (
	StoreLocal = "local"
	StoreMinio = "minio"
)

// ErrInvalid indicates a setting outside its allowed values.
var ErrInvalid = errors.New("config: invalid setting")

// Config is the full CLI configuration.
type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	Store       string        `env:"STORE" envDefault:"local"`
	StoreRoot   string        `env:"STORE_ROOT" envDefault:"tbmodels-store"`
	LockTimeout time.Duration `env:"LOCK_TIMEOUT" envDefault:"10s"`
	Minio       Minio         `envPrefix:"MINIO_"`

	// Workers bounds parallel symmetrization and k-point sweeps; 0 means GOMAXPROCS.
	Workers int           `env:"WORKERS" envDefault:"0"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"0s"`

	Format      string `env:"FORMAT" envDefault:"json"`
	Compression string `env:"COMPRESSION" envDefault:"zstd"`
}

// Minio holds the TBMODELS_MINIO_* settings.
type Minio struct {
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET" envDefault:"tbmodels"`
	Prefix    string `env:"PREFIX"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every enumerated or bounded setting.
func (c *Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != logging.FormatText && c.LogFormat != logging.FormatJSON {
		errs = append(errs, fmt.Errorf("log format %q: %w", c.LogFormat, ErrInvalid))
	}
	switch c.Store {
	case StoreLocal:
		if c.StoreRoot == "" {
			errs = append(errs, fmt.Errorf("empty store root: %w", ErrInvalid))
		}
	case StoreMinio:
		if c.Minio.Endpoint == "" || c.Minio.Bucket == "" {
			errs = append(errs, fmt.Errorf("minio needs endpoint and bucket: %w", ErrInvalid))
		}
	default:
		errs = append(errs, fmt.Errorf("store %q: %w", c.Store, ErrInvalid))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers %d: %w", c.Workers, ErrInvalid))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout %s: %w", c.Timeout, ErrInvalid))
	}
	if _, err := codec.ParseFormat(c.Format); err != nil {
		errs = append(errs, err)
	}
	if _, err := codec.ParseCompression(c.Compression); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// CodecOptions returns the archive format and compression as codec options.
// Call after Validate.
func (c *Config) CodecOptions() []codec.Option {
	f, _ := codec.ParseFormat(c.Format)
	comp, _ := codec.ParseCompression(c.Compression)

	return []codec.Option{codec.WithFormat(f), codec.WithCompression(comp)}
}

// OpenStore connects the configured archive backend.
func (c *Config) OpenStore(ctx context.Context) (store.Store, error) {
	switch c.Store {
	case StoreLocal:
		s, err := store.NewLocal(c.StoreRoot, c.LockTimeout)
		if err != nil {
			return nil, err
		}

		return s, nil
	case StoreMinio:
		s, err := store.DialMinio(ctx, store.MinioConfig{
			Endpoint:  c.Minio.Endpoint,
			AccessKey: c.Minio.AccessKey,
			SecretKey: c.Minio.SecretKey,
			Bucket:    c.Minio.Bucket,
			Prefix:    c.Minio.Prefix,
			UseSSL:    c.Minio.UseSSL,
		})
		if err != nil {
			return nil, err
		}

		return s, nil
	default:
		return nil, fmt.Errorf("store %q: %w", c.Store, ErrInvalid)
	}
}
