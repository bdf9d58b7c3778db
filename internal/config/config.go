// Package config handles reading and writing the tomo configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tomo-dev/tomo/internal/journal"
)

// Config is the top-level structure for config.yaml in the data directory.
type Config struct {
	Version            int            `yaml:"version"`
	Focus              PhaseDurations `yaml:"focus"`
	ShortBreak         PhaseDurations `yaml:"short_break"`
	LongBreak          PhaseDurations `yaml:"long_break"`
	CyclesPerLongBreak int            `yaml:"cycles_per_long_break"`
	AutoStartBreaks    bool           `yaml:"auto_start_breaks"`
	AutoStartFocus     bool           `yaml:"auto_start_focus"`
	Planner            PlannerConfig  `yaml:"planner"`
	Sound              string         `yaml:"sound"`
	Exports            ExportsConfig  `yaml:"exports"`
}

// PhaseDurations bounds one phase. All values are seconds; the planner never
// leaves [MinSeconds, MaxSeconds].
type PhaseDurations struct {
	DefaultSeconds int `yaml:"default_seconds"`
	MinSeconds     int `yaml:"min_seconds"`
	MaxSeconds     int `yaml:"max_seconds"`
}

// PlannerConfig holds the adaptive duration policy constants. They live in
// configuration rather than code so the heuristic can be retuned per user.
type PlannerConfig struct {
	Window           int     `yaml:"window"`
	HighThreshold    float64 `yaml:"high_threshold"`
	LowThreshold     float64 `yaml:"low_threshold"`
	FocusStepSeconds int     `yaml:"focus_step_seconds"`
	BreakStepSeconds int     `yaml:"break_step_seconds"`
}

// ExportsConfig controls CSV export housekeeping.
type ExportsConfig struct {
	Keep int `yaml:"keep"` // exports retained by auto-prune
}

const configFile = "config.yaml"

// DataDir returns the tomo data directory: $TOMO_HOME when set, else ~/.tomo.
func DataDir() (string, error) {
	if dir := os.Getenv("TOMO_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".tomo"), nil
}

// ReadConfig reads config.yaml from the given data directory. A missing file
// yields the defaults; keys absent from an older file keep their default
// values, so upgrades never require rewriting the config.
func ReadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, configFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// WriteConfig writes cfg to config.yaml in the given data directory,
// creating the directory if needed.
func WriteConfig(dir string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dir, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfig returns a Config populated with the stock pomodoro policy:
// 25 minute focus, 5/15 minute breaks, a long break every fourth focus.
func DefaultConfig() *Config {
	return &Config{
		Version:            1,
		Focus:              PhaseDurations{DefaultSeconds: 1500, MinSeconds: 900, MaxSeconds: 3600},
		ShortBreak:         PhaseDurations{DefaultSeconds: 300, MinSeconds: 120, MaxSeconds: 900},
		LongBreak:          PhaseDurations{DefaultSeconds: 900, MinSeconds: 600, MaxSeconds: 1800},
		CyclesPerLongBreak: 4,
		AutoStartBreaks:    true,
		AutoStartFocus:     false,
		Planner: PlannerConfig{
			Window:           10,
			HighThreshold:    0.8,
			LowThreshold:     0.4,
			FocusStepSeconds: 300,
			BreakStepSeconds: 60,
		},
		Sound:   "chime",
		Exports: ExportsConfig{Keep: 10},
	}
}

// Durations returns the configured bounds for a phase.
func (c *Config) Durations(phase journal.Phase) PhaseDurations {
	switch phase {
	case journal.PhaseShortBreak:
		return c.ShortBreak
	case journal.PhaseLongBreak:
		return c.LongBreak
	default:
		return c.Focus
	}
}

// Validate rejects configurations the planner or machine cannot honor.
func (c *Config) Validate() error {
	phases := []struct {
		name string
		d    PhaseDurations
	}{
		{"focus", c.Focus},
		{"short_break", c.ShortBreak},
		{"long_break", c.LongBreak},
	}
	for _, p := range phases {
		if p.d.MinSeconds <= 0 {
			return fmt.Errorf("%s.min_seconds must be positive, got %d", p.name, p.d.MinSeconds)
		}
		if p.d.MinSeconds > p.d.MaxSeconds {
			return fmt.Errorf("%s bounds inverted: min %d > max %d", p.name, p.d.MinSeconds, p.d.MaxSeconds)
		}
		if p.d.DefaultSeconds < p.d.MinSeconds || p.d.DefaultSeconds > p.d.MaxSeconds {
			return fmt.Errorf("%s.default_seconds %d outside [%d, %d]", p.name, p.d.DefaultSeconds, p.d.MinSeconds, p.d.MaxSeconds)
		}
	}
	if c.CyclesPerLongBreak <= 0 {
		return fmt.Errorf("cycles_per_long_break must be positive, got %d", c.CyclesPerLongBreak)
	}
	pl := c.Planner
	if pl.Window <= 0 {
		return fmt.Errorf("planner.window must be positive, got %d", pl.Window)
	}
	if pl.HighThreshold < 0 || pl.HighThreshold > 1 || pl.LowThreshold < 0 || pl.LowThreshold > 1 {
		return fmt.Errorf("planner thresholds must be within [0, 1]")
	}
	if pl.LowThreshold > pl.HighThreshold {
		return fmt.Errorf("planner thresholds inverted: low %.2f > high %.2f", pl.LowThreshold, pl.HighThreshold)
	}
	if pl.FocusStepSeconds < 0 || pl.BreakStepSeconds < 0 {
		return fmt.Errorf("planner step sizes must be non-negative")
	}
	if c.Exports.Keep < 0 {
		return fmt.Errorf("exports.keep must be non-negative, got %d", c.Exports.Keep)
	}
	return nil
}
