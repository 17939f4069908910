// Package config loads the HTTP service configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ZelongGuo/dislocation/internal/logging"
	"github.com/ZelongGuo/dislocation/internal/material"
)

// Config is the service configuration
type Config struct {
	Server struct {
		Addr            string        `yaml:"addr" default:":8080" validate:"required"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		BodyLimit       string        `yaml:"body_limit" default:"16M"`
	} `yaml:"server"`

	Evaluator struct {
		Workers        int           `yaml:"workers" validate:"gte=0"` // 0 selects GOMAXPROCS
		MaxPairs       int           `yaml:"max_pairs" default:"10000000" validate:"gt=0"`
		RequestTimeout time.Duration `yaml:"request_timeout" default:"30s"`
	} `yaml:"evaluator"`

	// Defaults for requests that omit the elastic constants
	Elastic struct {
		Mu float64 `yaml:"mu" validate:"gt=0"`
		Nu float64 `yaml:"nu" validate:"gt=-1,lt=0.5"`
	} `yaml:"elastic"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`

	Log logging.Config `yaml:"log"`
}

var validate = validator.New()

// Default returns the configuration used when no file is given
func Default() (*Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, err
	}
	cfg.Elastic.Mu, cfg.Elastic.Nu = material.DefaultMu, material.DefaultNu
	return &cfg, nil
}

// Load reads a YAML config file over the defaults and validates it
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
