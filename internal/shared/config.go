package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	EnvProduction = "production"
	EnvLocal      = "local"

	ProductionBaseURL = "http://andrewwillette.com:9099"
	LocalBaseURL      = "http://localhost:9099"
)

// Config represents the application configuration loaded from a TOML file.
//
// Environment variables prefixed with WILLETTE_ override file values.
type Config struct {
	API       APIConfig       `toml:"api" envPrefix:"WILLETTE_"`
	Storage   StorageConfig   `toml:"storage" envPrefix:"WILLETTE_STORAGE_"`
	DevServer DevServerConfig `toml:"devserver" envPrefix:"WILLETTE_DEVSERVER_"`
}

// APIConfig selects the backend and tunes outgoing requests.
type APIConfig struct {
	BaseURL     string   `toml:"base_url" env:"BASE_URL"`
	Environment string   `toml:"environment" env:"ENV"`
	Timeout     Duration `toml:"timeout" env:"TIMEOUT"`
	RateLimit   float64  `toml:"rate_limit" env:"RATE_LIMIT"`
	Burst       int      `toml:"burst" env:"BURST"`
}

// StorageConfig locates the persisted key/value store.
type StorageConfig struct {
	Path string `toml:"path" env:"PATH"`
}

// DevServerConfig configures the local stub backend.
type DevServerConfig struct {
	Host     string `toml:"host" env:"HOST"`
	Port     int    `toml:"port" env:"PORT"`
	Username string `toml:"username" env:"USERNAME"`
	Password string `toml:"password" env:"PASSWORD"`
}

// Duration wraps [time.Duration] so it can be written as "10s" in TOML and env values.
type Duration struct {
	time.Duration
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: duration %q: %v", ErrInvalidConfig, string(text), err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// ResolveBaseURL returns the backend base URL: an explicit base_url wins, then the configured environment,
// then the environment chosen at build time (the "production" build tag).
func (c *Config) ResolveBaseURL() (string, error) {
	if c.API.BaseURL != "" {
		return c.API.BaseURL, nil
	}

	environment := c.API.Environment
	if environment == "" {
		environment = defaultEnvironment
	}

	switch environment {
	case EnvProduction:
		return ProductionBaseURL, nil
	case EnvLocal:
		return LocalBaseURL, nil
	default:
		return "", fmt.Errorf("%w: unknown environment %q", ErrInvalidConfig, environment)
	}
}

// LoadConfig reads and parses a TOML configuration file from the specified path, then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ApplyEnv overlays WILLETTE_* environment variables onto config.
func ApplyEnv(config *Config) error {
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("%w: parse env: %v", ErrInvalidConfig, err)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
