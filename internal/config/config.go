// Package config provides Viper-based configuration loading for the simulator.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// SimulationConfig holds the dice pool and run size.
type SimulationConfig struct {
	// Sides is the number of faces per die (S).
	Sides int `mapstructure:"sides"`
	// Dice is the number of dice rolled together (N).
	Dice int `mapstructure:"dice"`
	// Trials is the number of pool rolls (R).
	Trials int `mapstructure:"trials"`
	// Seed makes a run reproducible; 0 selects the crypto/rand source.
	Seed uint64 `mapstructure:"seed"`
}

// Ready reports whether all three pool parameters have been supplied.
// Zero means "not given"; the CLI prompts for those.
func (s SimulationConfig) Ready() bool {
	return s.Sides != 0 && s.Dice != 0 && s.Trials != 0
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// RenderConfig holds terminal output settings.
type RenderConfig struct {
	// BarWidth is the width in cells of the longest histogram bar.
	BarWidth int `mapstructure:"bar_width"`
	// Color enables ANSI styling.
	Color bool `mapstructure:"color"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	// Addr is the "host:port" for /metrics; empty disables the endpoint.
	Addr string `mapstructure:"addr"`
}

// Config is the top-level application configuration.
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Render     RenderConfig     `mapstructure:"render"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// Validate checks all configuration invariants. Simulation parameters left at
// zero are treated as not yet supplied and are checked by ValidateSimulation.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRender(c.Render); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validatePartialSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ValidateSimulation checks that every pool parameter is present and positive.
//
// Postcondition: Returns nil when Sides >= 1, Dice >= 1 and Trials >= 1.
func (s SimulationConfig) ValidateSimulation() error {
	var errs []string
	if s.Sides < 1 {
		errs = append(errs, fmt.Sprintf("simulation.sides must be >= 1, got %d", s.Sides))
	}
	if s.Dice < 1 {
		errs = append(errs, fmt.Sprintf("simulation.dice must be >= 1, got %d", s.Dice))
	}
	if s.Trials < 1 {
		errs = append(errs, fmt.Sprintf("simulation.trials must be >= 1, got %d", s.Trials))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validatePartialSimulation(s SimulationConfig) error {
	var errs []string
	if s.Sides < 0 {
		errs = append(errs, fmt.Sprintf("simulation.sides must be >= 1, got %d", s.Sides))
	}
	if s.Dice < 0 {
		errs = append(errs, fmt.Sprintf("simulation.dice must be >= 1, got %d", s.Dice))
	}
	if s.Trials < 0 {
		errs = append(errs, fmt.Sprintf("simulation.trials must be >= 1, got %d", s.Trials))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateRender(r RenderConfig) error {
	if r.BarWidth < 1 || r.BarWidth > 500 {
		return fmt.Errorf("render.bar_width must be 1-500, got %d", r.BarWidth)
	}
	return nil
}

// New returns a Viper instance with defaults and DICESIM_ environment
// overrides applied.
//
// Postcondition: Returns a non-nil Viper ready for flag binding or Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("DICESIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result. An empty path skips the file.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulation.sides", 0)
	v.SetDefault("simulation.dice", 0)
	v.SetDefault("simulation.trials", 0)
	v.SetDefault("simulation.seed", 0)

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")

	v.SetDefault("render.bar_width", 50)
	v.SetDefault("render.color", true)

	v.SetDefault("metrics.addr", "")
}
