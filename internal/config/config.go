// Package config loads API server settings from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all API server settings.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// Addr is the listen address, host:port.
	Addr string `yaml:"addr" env:"RISK_ADDR"`

	// AllowedOrigin is the CORS origin served to browsers. "*" allows all.
	AllowedOrigin string `yaml:"allowed_origin" env:"RISK_ALLOWED_ORIGIN"`

	// MaxAttack caps the attacking troop count accepted per request.
	// Engine cost grows with troop counts and there is no cancellation,
	// so the cap is the only latency bound the server has.
	MaxAttack int `yaml:"max_attack" env:"RISK_MAX_ATTACK"`

	// MaxFortifyTroops caps the troop budget of a fortify request; each
	// budgeted troop costs a full engine evaluation per candidate
	// territory.
	MaxFortifyTroops int `yaml:"max_fortify_troops" env:"RISK_MAX_FORTIFY_TROOPS"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR.
	Level string `yaml:"level" env:"RISK_LOG_LEVEL"`

	// File, when set, adds a rotating log file alongside stdout.
	File       string `yaml:"file" env:"RISK_LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"RISK_LOG_MAX_SIZE_MB"`
	MaxBackups int    `yaml:"max_backups" env:"RISK_LOG_MAX_BACKUPS"`
	MaxAgeDays int    `yaml:"max_age_days" env:"RISK_LOG_MAX_AGE_DAYS"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:             ":8080",
			AllowedOrigin:    "*",
			MaxAttack:        1000,
			MaxFortifyTroops: 100,
		},
		Log: LogConfig{
			Level:      "INFO",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (a
// missing file is fine), then environment variables on top.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
