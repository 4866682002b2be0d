// Package config reads turnstile settings from the environment.
//
// Every setting has a TURNSTILE_* variable. A .env file in the working
// directory is loaded first if present; variables already set in the
// environment win over it. Command-line flags default to these values.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/roach88/turnstile/internal/cards"
	"github.com/roach88/turnstile/internal/game"
)

// Config holds the settings shared by every command.
type Config struct {
	// Seed is the deck seed as 64 hex characters. Empty means all zeros.
	Seed string `env:"TURNSTILE_SEED"`

	// Draws is the number of cards dealt to the blind.
	Draws int `env:"TURNSTILE_DRAWS" envDefault:"2"`

	// Rules is an optional .cue rules file. When set it replaces Seed and
	// Draws.
	Rules string `env:"TURNSTILE_RULES"`

	// Journal is the SQLite journal path. Empty disables journaling.
	Journal string `env:"TURNSTILE_JOURNAL"`

	// MaxSteps caps machine steps. Zero means no limit.
	MaxSteps int `env:"TURNSTILE_MAX_STEPS" envDefault:"0"`

	Format  string `env:"TURNSTILE_FORMAT" envDefault:"text"`
	Verbose bool   `env:"TURNSTILE_VERBOSE"`
}

// Default returns the configuration of an empty environment.
func Default() Config {
	return Config{Draws: game.DefaultDraws, Format: "text"}
}

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Load reads the environment into a Config.
//
// With no files, ./.env is loaded if it exists. Named files must exist.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		// Ignore errors - the .env file might not exist and that's ok
		_ = godotenv.Load()
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env.Parse cannot.
func (c Config) Validate() error {
	if c.Format != "text" && c.Format != "json" {
		return fmt.Errorf("%w: format must be text or json, got %q", ErrInvalidConfig, c.Format)
	}
	if c.Draws < 1 {
		return fmt.Errorf("%w: draws must be at least 1, got %d", ErrInvalidConfig, c.Draws)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("%w: max steps must not be negative, got %d", ErrInvalidConfig, c.MaxSteps)
	}
	if c.Seed != "" {
		if _, err := cards.ParseSeed(c.Seed); err != nil {
			return fmt.Errorf("%w: seed: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// GameRules returns the rules described by Seed and Draws.
// Rules files are loaded by the caller, which owns their error reporting.
func (c Config) GameRules() (game.Rules, error) {
	rules := game.DefaultRules()
	rules.Draws = c.Draws
	if c.Seed != "" {
		seed, err := cards.ParseSeed(c.Seed)
		if err != nil {
			return game.Rules{}, fmt.Errorf("%w: seed: %v", ErrInvalidConfig, err)
		}
		rules.Seed = seed
	}
	return rules, rules.Validate()
}
