package config

import (
	"os"
	"strconv"
)

// FromEnv overlays ATTEND_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("ATTEND_MAX_ATTENDING"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RosterDefaults.MaxAttending = n
		}
	}
	if v := os.Getenv("ATTEND_MAX_STANDBY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RosterDefaults.MaxStandby = n
		}
	}
	if v := os.Getenv("ATTEND_AUTO_STANDBY_MIN_SIGNUPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.AutoStandby.MinSignups = n
		}
	}
	if v := os.Getenv("ATTEND_AUTO_STANDBY_NO_SHOW_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			cfg.AutoStandby.NoShowRate = f
		}
	}
}
