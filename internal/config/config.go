// Package config loads battlesim settings: defaults, then an optional YAML
// file, then BATTLEKIT_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/samdwyer/battlekit/internal/entity"
	"github.com/samdwyer/battlekit/internal/game"
)

// Config holds all configuration for a battlesim run.
type Config struct {
	// Seed for the first battle; battle i uses Seed+i. 0 picks random seeds.
	Seed        int64   `yaml:"seed" env:"BATTLEKIT_SEED"`
	Battles     int     `yaml:"battles" env:"BATTLEKIT_BATTLES"`
	Parallelism int     `yaml:"parallelism" env:"BATTLEKIT_PARALLELISM"`
	Step        float64 `yaml:"step" env:"BATTLEKIT_STEP"`               // seconds
	MaxSeconds  float64 `yaml:"max_seconds" env:"BATTLEKIT_MAX_SECONDS"` // per battle

	Telemetry bool   `yaml:"telemetry" env:"BATTLEKIT_TELEMETRY"`
	LogLevel  string `yaml:"log_level" env:"BATTLEKIT_LOG_LEVEL"`

	// Roster is the fixed line-up. Empty means random teams of TeamSize.
	Roster   []RosterEntry `yaml:"roster"`
	TeamSize int           `yaml:"team_size" env:"BATTLEKIT_TEAM_SIZE"`
}

// RosterEntry places one character on a team.
type RosterEntry struct {
	Character string  `yaml:"character"`
	Team      string  `yaml:"team"`
	Level     int     `yaml:"level"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		Battles:     1,
		Parallelism: 4,
		Step:        game.DefaultStep,
		MaxSeconds:  game.DefaultMaxSeconds,
		LogLevel:    "info",
		TeamSize:    2,
	}
}

// Load reads config from a YAML file and applies environment overrides.
// If path is empty or the file doesn't exist, defaults are used.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks ranges and roster entries.
func (c Config) Validate() error {
	var errs []error
	if c.Battles < 1 {
		errs = append(errs, fmt.Errorf("battles must be at least 1, got %d", c.Battles))
	}
	if c.Parallelism < 0 {
		errs = append(errs, fmt.Errorf("parallelism must not be negative, got %d", c.Parallelism))
	}
	if c.Step <= 0 {
		errs = append(errs, fmt.Errorf("step must be positive, got %v", c.Step))
	}
	if c.MaxSeconds <= 0 {
		errs = append(errs, fmt.Errorf("max_seconds must be positive, got %v", c.MaxSeconds))
	}
	if len(c.Roster) == 0 && c.TeamSize < 1 {
		errs = append(errs, fmt.Errorf("team_size must be at least 1, got %d", c.TeamSize))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	for i, r := range c.Roster {
		if r.Character == "" {
			errs = append(errs, fmt.Errorf("roster[%d]: character is required", i))
		}
		if _, err := entity.ParseTeam(r.Team); err != nil {
			errs = append(errs, fmt.Errorf("roster[%d]: %w", i, err))
		}
		if r.Level < 0 {
			errs = append(errs, fmt.Errorf("roster[%d]: level must not be negative", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// Battle returns the options of battle i.
func (c Config) Battle(i int) game.Config {
	seed := c.Seed
	if seed != 0 {
		seed += int64(i)
	}
	return game.Config{
		Seed:       seed,
		Step:       c.Step,
		MaxSeconds: c.MaxSeconds,
	}
}
