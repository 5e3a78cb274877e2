package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 16181 {
		t.Errorf("expected default port 16181, got %d", cfg.Server.Port)
	}
	if cfg.Violation.Speeding.ToleranceKmh != 4 {
		t.Errorf("expected tolerance 4, got %v", cfg.Violation.Speeding.ToleranceKmh)
	}
	if len(cfg.Violation.SchoolZone.Bands) != 2 {
		t.Errorf("expected 2 school bands, got %d", len(cfg.Violation.SchoolZone.Bands))
	}
	if len(cfg.Route.GuidanceBandsM) != 4 {
		t.Errorf("expected 4 guidance bands, got %d", len(cfg.Route.GuidanceBandsM))
	}
}

func TestLoadMinimalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := []byte("server:\n  port: 9000\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000 from file, got %d", cfg.Server.Port)
	}
	// Everything else falls back to defaults.
	if cfg.Fusion.SpeedAlpha != 0.15 {
		t.Errorf("expected default speed alpha, got %v", cfg.Fusion.SpeedAlpha)
	}
	if cfg.Trip.MaxDistractions != 3 {
		t.Errorf("expected default max distractions, got %d", cfg.Trip.MaxDistractions)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := []byte(`
server:
  port: 9000
violation:
  speeding:
    toleranceKmh: 6
    sustainS: 5
  schoolZone:
    capKmh: 30
route:
  offRouteDistanceM: 40
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Violation.Speeding.ToleranceKmh != 6 {
		t.Errorf("expected tolerance override 6, got %v", cfg.Violation.Speeding.ToleranceKmh)
	}
	if cfg.Violation.Speeding.SustainS != 5 {
		t.Errorf("expected sustain override 5, got %v", cfg.Violation.Speeding.SustainS)
	}
	if cfg.Violation.SchoolZone.CapKmh != 30 {
		t.Errorf("expected school cap override 30, got %v", cfg.Violation.SchoolZone.CapKmh)
	}
	if cfg.Route.OffRouteDistanceM != 40 {
		t.Errorf("expected off-route override 40, got %v", cfg.Route.OffRouteDistanceM)
	}
	// Unset siblings keep defaults.
	if cfg.Violation.Speeding.RecurringS != 5 {
		t.Errorf("expected default recurring interval, got %v", cfg.Violation.Speeding.RecurringS)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadInvalidConfigRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := []byte("server:\n  port: -1\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected validation error for negative port")
	}
}

func TestLoadFirstExistingPathWins(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.yml")
	second := filepath.Join(dir, "second.yml")
	if err := os.WriteFile(second, []byte("server:\n  port: 7000\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(first, second)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("expected fallback to second path, got %d", cfg.Server.Port)
	}
}
