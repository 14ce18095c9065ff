// Package config loads the timing engine's runtime settings.
//
// Settings are resolved in order: built-in defaults, then the YAML file,
// then environment variables. The merged result is validated before use.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-timing/pkg/logging"
	"github.com/dd0wney/cluso-timing/pkg/timing"
	"github.com/dd0wney/cluso-timing/pkg/validation"
)

// Environment variables read by Load.
const (
	EnvLogLevel       = "TIMING_LOG_LEVEL"
	EnvLogLevelShared = "LOG_LEVEL"
	EnvWorkers        = "TIMING_WORKERS"
)

// MaxWorkers bounds the batch worker count.
const MaxWorkers = 1024

// Config holds runtime settings for graph building and queries.
//
// An empty HierSep keeps the divider the annotation declares.
type Config struct {
	LogLevel        string `yaml:"log_level"`
	HierSep         string `yaml:"hier_sep" validate:"omitempty,max=4"`
	DelaySelector   string `yaml:"delay_selector"`
	ImplicitNodes   bool   `yaml:"implicit_nodes"`
	Workers         int    `yaml:"workers" validate:"gte=0"`
	CacheDistances  bool   `yaml:"cache_distances"`
	MetricsTextfile string `yaml:"metrics_textfile"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:      "info",
		DelaySelector: string(timing.DefaultDelaySelector),
		ImplicitNodes: true,
		Workers:       0, // GOMAXPROCS
	}
}

// Load resolves the configuration. An empty path or a missing file leaves
// the defaults in place; a file that exists but does not parse is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := loadEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := validation.ValidateConfig(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func loadEnv(cfg *Config) error {
	for _, key := range []string{EnvLogLevel, EnvLogLevelShared} {
		if v := os.Getenv(key); v != "" {
			cfg.LogLevel = strings.ToLower(v)
			break
		}
	}

	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		cfg.Workers = n
	}
	return nil
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	return validation.NewConfigValidator("Config").
		Required("log_level", c.LogLevel).
		OneOf("log_level", c.LogLevel, "debug", "info", "warn", "warning", "error").
		RangeInt("workers", c.Workers, 0, MaxWorkers).
		Custom("delay_selector", func() error {
			_, err := timing.ParseDelaySelector(c.DelaySelector)
			return err
		}).
		When(c.MetricsTextfile != "", func(cv *validation.ConfigValidator) {
			cv.Custom("metrics_textfile", func() error {
				if strings.HasSuffix(c.MetricsTextfile, ".prom") {
					return nil
				}
				return errors.New("must end in .prom")
			})
		}).
		Validate()
}

// Level returns the parsed log level.
func (c *Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}

// Selector returns the parsed delay selector, or the default when unset.
func (c *Config) Selector() timing.DelaySelector {
	sel, err := timing.ParseDelaySelector(c.DelaySelector)
	if err != nil {
		return timing.DefaultDelaySelector
	}
	return sel
}
