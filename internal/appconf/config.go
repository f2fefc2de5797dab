// Package appconf loads the departure board configuration.
//
// Settings come from a YAML file validated with struct tags. Credentials may
// also be supplied through GEOFOX_USER and GEOFOX_SECRET, optionally read from
// a .env file. Command line flags override both in cmd/.
package appconf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hvv-tools/departureboard/internal/geofox"
)

type Environment int

const (
	Development Environment = iota
	Test
	Production
)

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

// EnvFlagToEnvironment maps a flag value to an Environment, defaulting to Development.
func EnvFlagToEnvironment(env string) Environment {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "test":
		return Test
	case "production", "prod":
		return Production
	default:
		return Development
	}
}

// GeofoxConfig describes how to reach the GTI API.
type GeofoxConfig struct {
	Endpoint  string `yaml:"endpoint" validate:"omitempty,url"`
	User      string `yaml:"user"`
	Secret    string `yaml:"secret"`
	TimeoutMS int    `yaml:"timeoutMS" validate:"gte=0"`
	Timezone  string `yaml:"timezone"`
}

// BoardConfig is the per-board record: which station to watch and how to filter it.
type BoardConfig struct {
	Operation     string          `yaml:"operation"`
	Station       string          `yaml:"station"`
	City          string          `yaml:"city"`
	Modes         map[string]bool `yaml:"modes"`
	MaxList       int             `yaml:"maxList" validate:"gte=0,lte=100"`
	MaxTimeOffset int             `yaml:"maxTimeOffset" validate:"gte=0,lte=1440"`
}

// LoggingConfig selects log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Format string `yaml:"format" validate:"omitempty,oneof=json text"`
}

// Config holds all the configuration settings for the application.
type Config struct {
	Port      int           `yaml:"port" validate:"gte=0,lte=65535"`
	Env       Environment   `yaml:"-"`
	EnvName   string        `yaml:"env" validate:"omitempty,oneof=development test production prod"`
	ApiKeys   []string      `yaml:"apiKeys" validate:"dive,required"`
	RateLimit int           `yaml:"rateLimit" validate:"gte=0"`
	Geofox    GeofoxConfig  `yaml:"geofox"`
	Board     BoardConfig   `yaml:"board"`
	Logging   LoggingConfig `yaml:"logging"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Port:      4000,
		Env:       Development,
		EnvName:   Development.String(),
		RateLimit: 100,
		Geofox: GeofoxConfig{
			Endpoint:  geofox.DefaultEndpoint,
			TimeoutMS: int(geofox.DefaultTimeout / time.Millisecond),
			Timezone:  geofox.DefaultTimezone,
		},
	}
}

// Load reads path (a missing file is not an error when optional is true),
// applies .env and environment overrides, then validates the result.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		case optional && errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.Env = EnvFlagToEnvironment(cfg.EnvName)
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GEOFOX_USER"); v != "" {
		c.Geofox.User = v
	}
	if v := os.Getenv("GEOFOX_SECRET"); v != "" {
		c.Geofox.Secret = v
	}
	if v := os.Getenv("GEOFOX_ENDPOINT"); v != "" {
		c.Geofox.Endpoint = v
	}
}

// Validate checks struct tags and the configured timezone.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := geofox.LoadLocation(c.Geofox.Timezone); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Credentials returns the configured GTI credentials.
func (c Config) Credentials() geofox.Credentials {
	return geofox.Credentials{User: c.Geofox.User, Secret: c.Geofox.Secret}
}

// Timeout returns the per-call timeout.
func (c Config) Timeout() time.Duration {
	if c.Geofox.TimeoutMS <= 0 {
		return geofox.DefaultTimeout
	}
	return time.Duration(c.Geofox.TimeoutMS) * time.Millisecond
}

// Location returns the configured timezone. Validate has already checked it.
func (c Config) Location() *time.Location {
	loc, err := geofox.LoadLocation(c.Geofox.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Redacted returns a copy safe to display or log.
func (c Config) Redacted() Config {
	out := c
	if out.Geofox.Secret != "" {
		out.Geofox.Secret = "[redacted]"
	}
	if len(out.ApiKeys) > 0 {
		out.ApiKeys = []string{fmt.Sprintf("[%d keys]", len(c.ApiKeys))}
	}
	return out
}
