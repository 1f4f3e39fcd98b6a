package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.RosterDefaults.MaxAttending != 10 {
		t.Fatalf("default max attending")
	}
	if cfg.RosterDefaults.MaxStandby != 10 {
		t.Fatalf("default max standby")
	}
	if cfg.AutoStandby.MinSignups != 3 || cfg.AutoStandby.NoShowRate != 0.6 {
		t.Fatalf("auto standby defaults")
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "attend.json")
	data := []byte(`{"rosterDefaults":{"maxAttending":4,"maxStandby":2},"autoStandby":{"minSignups":5,"noShowRate":0.5}}`)
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RosterDefaults.MaxAttending != 4 || cfg.RosterDefaults.MaxStandby != 2 {
		t.Fatalf("roster defaults not loaded: %+v", cfg.RosterDefaults)
	}
	if cfg.AutoStandby.MinSignups != 5 {
		t.Fatalf("auto standby not loaded: %+v", cfg.AutoStandby)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "attend.yaml")
	data := []byte("rosterDefaults:\n  maxAttending: 6\n  maxStandby: 3\n")
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RosterDefaults.MaxAttending != 6 || cfg.RosterDefaults.MaxStandby != 3 {
		t.Fatalf("yaml roster defaults: %+v", cfg.RosterDefaults)
	}
	// Untouched sections keep defaults.
	if cfg.AutoStandby.MinSignups != 3 {
		t.Fatalf("yaml should preserve defaults: %+v", cfg.AutoStandby)
	}
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	t.Setenv("ATTEND_MAX_ATTENDING", "8")
	t.Setenv("ATTEND_MAX_STANDBY", "5")
	t.Setenv("ATTEND_AUTO_STANDBY_NO_SHOW_RATE", "0.75")
	FromEnv(&cfg)
	if cfg.RosterDefaults.MaxAttending != 8 {
		t.Fatalf("env override max attending")
	}
	if cfg.RosterDefaults.MaxStandby != 5 {
		t.Fatalf("env override max standby")
	}
	if cfg.AutoStandby.NoShowRate != 0.75 {
		t.Fatalf("env override rate")
	}
}

func TestFromEnvIgnoresInvalid(t *testing.T) {
	cfg := Default()
	t.Setenv("ATTEND_MAX_ATTENDING", "-2")
	t.Setenv("ATTEND_AUTO_STANDBY_NO_SHOW_RATE", "1.5")
	FromEnv(&cfg)
	if cfg.RosterDefaults.MaxAttending != 10 {
		t.Fatalf("invalid values must not override")
	}
	if cfg.AutoStandby.NoShowRate != 0.6 {
		t.Fatalf("out-of-range rate must not override")
	}
}
