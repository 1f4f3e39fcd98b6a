package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// RosterDefaults applies to sessions created without explicit capacities.
	RosterDefaults RosterDefaults `json:"rosterDefaults" yaml:"rosterDefaults"`
	// AutoStandby controls the rate-based standby routing for repeat no-shows.
	AutoStandby AutoStandby `json:"autoStandby" yaml:"autoStandby"`
}

// RosterDefaults captures per-session baseline capacities.
type RosterDefaults struct {
	MaxAttending int `json:"maxAttending" yaml:"maxAttending"`
	MaxStandby   int `json:"maxStandby" yaml:"maxStandby"`
}

// AutoStandby configures when a joining user is routed straight to standby
// based on their attendance history.
type AutoStandby struct {
	// MinSignups is the minimum recorded signups before the rate applies.
	MinSignups int `json:"minSignups" yaml:"minSignups"`
	// NoShowRate is the no-show ratio (0..1) at or above which Join routes
	// to standby even when attending has room.
	NoShowRate float64 `json:"noShowRate" yaml:"noShowRate"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		RosterDefaults: RosterDefaults{
			MaxAttending: 10,
			MaxStandby:   10,
		},
		AutoStandby: AutoStandby{
			MinSignups: 3,
			NoShowRate: 0.6,
		},
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path
// is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, nil
}
