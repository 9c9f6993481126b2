/*
Package config loads the server configuration from a YAML file.

PURPOSE:
  One small file holds everything an operator may want to change:
  listen port, database location, civil time zone, the tracked user,
  and the default work rules applied before a user stores their own.

BEHAVIOR:
  A missing file is not an error; defaults apply. A present but
  malformed file is an error. Missing fields fall back to defaults
  individually, so a two-line config file is valid.

TIME ZONE:
  Days are bucketed in a fixed civil zone regardless of where the
  server runs or which device stamps. Defaults to Europe/Berlin.
*/
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	Port         int    `yaml:"port"`
	DatabasePath string `yaml:"database_path"`
	Timezone     string `yaml:"timezone"`
	User         string `yaml:"user"`

	Work WorkDefaults `yaml:"work"`
}

// WorkDefaults are the work rules applied until the user saves their own.
type WorkDefaults struct {
	TargetWorkSeconds int    `yaml:"target_work_seconds"`
	WorkStart         string `yaml:"work_start"`
	WorkEnd           string `yaml:"work_end"`
	ShortBreakLogic   *bool  `yaml:"short_break_logic"` // pointer: absent means true
	ExtendedPause     bool   `yaml:"extended_pause"`
	TimeOffsetSeconds int    `yaml:"time_offset_seconds"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Port:         8080,
		DatabasePath: "./data/worktime.db",
		Timezone:     "Europe/Berlin",
		User:         "default",
		Work: WorkDefaults{
			TargetWorkSeconds: 28080, // 7h48m
			WorkStart:         "06:30",
			WorkEnd:           "18:30",
		},
	}
}

// Load reads the configuration from path. A missing file yields the
// defaults; a malformed file is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.User == "" {
		return fmt.Errorf("user must not be empty")
	}
	if c.Work.TargetWorkSeconds <= 0 {
		return fmt.Errorf("target_work_seconds must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves the configured civil zone. Call validate first via
// Load; this panics only on a zone that already passed validation and
// then disappeared from the zone database.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		panic(err)
	}
	return loc
}

// ShortBreakLogicEnabled reports the short-break default, true unless
// explicitly disabled.
func (w WorkDefaults) ShortBreakLogicEnabled() bool {
	if w.ShortBreakLogic == nil {
		return true
	}
	return *w.ShortBreakLogic
}
