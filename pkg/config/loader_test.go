package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("../../config/solar_system.yaml")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected log_level 'info', got '%s'", cfg.LogLevel)
	}
	if len(cfg.SolarSystem) != 6 {
		t.Fatalf("Expected 6 bodies, got %d", len(cfg.SolarSystem))
	}

	sun := cfg.SolarSystem[0]
	if sun.Name != "Sun" || sun.PeriodDays != 0 {
		t.Errorf("Expected a fixed Sun first, got %+v", sun)
	}

	earth := cfg.SolarSystem[3]
	if earth.Name != EarthName {
		t.Errorf("Expected Earth as fourth body, got %s", earth.Name)
	}
	if earth.PeriodDays != 365.256 {
		t.Errorf("Expected Earth period 365.256, got %f", earth.PeriodDays)
	}

	if cfg.Problem.TargetPlanet != "Mars" {
		t.Errorf("Expected target Mars, got %s", cfg.Problem.TargetPlanet)
	}
	if cfg.Algorithm.PopulationSize != 40 || cfg.Algorithm.Generations != 20 {
		t.Errorf("Unexpected algorithm settings: %+v", cfg.Algorithm)
	}
	if cfg.SearchSpace.WindowStartUnix != 1700000000 {
		t.Errorf("Expected window start 1700000000, got %f", cfg.SearchSpace.WindowStartUnix)
	}
	if cfg.SearchSpace.LatitudeMax != DefaultLatitudeMax {
		t.Errorf("Expected default latitude max, got %f", cfg.SearchSpace.LatitudeMax)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("nonexistent.yaml")
	if err == nil {
		t.Fatal("Expected error for nonexistent file")
	}
}

func TestLoadConfigInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("solar_system: [\n"), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("Expected error for malformed YAML")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("Expected error to mention the path, got %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.LogLevel)
	}
	s := cfg.SearchSpace
	if s.WindowStartUnix <= 0 {
		t.Errorf("Expected window start to be filled from the clock")
	}
	if s.WindowYears != DefaultWindowYears {
		t.Errorf("Expected %d window years, got %f", DefaultWindowYears, s.WindowYears)
	}
	if s.LatitudeMin != DefaultLatitudeMin || s.LatitudeMax != DefaultLatitudeMax {
		t.Errorf("Unexpected latitude range [%f, %f]", s.LatitudeMin, s.LatitudeMax)
	}
	if s.LaunchSpeedMin != DefaultLaunchSpeedMin || s.LaunchSpeedMax != DefaultLaunchSpeedMax {
		t.Errorf("Unexpected speed range [%f, %f]", s.LaunchSpeedMin, s.LaunchSpeedMax)
	}
	if s.VelocityScale != DefaultVelocityScale {
		t.Errorf("Expected velocity scale %f, got %f", DefaultVelocityScale, s.VelocityScale)
	}

	start := s.WindowStartUnix
	cfg.ApplyDefaults()
	if cfg.SearchSpace.WindowStartUnix != start {
		t.Errorf("ApplyDefaults should be idempotent")
	}
}

func TestSearchSpaceWindowAndOffset(t *testing.T) {
	s := SearchSpace{WindowStartUnix: 1000, WindowYears: 1}
	start, end := s.Window()
	if start != 1000 || end != 1000+365*86400 {
		t.Errorf("Unexpected window [%f, %f)", start, end)
	}
	if s.Offset() != 1000 {
		t.Errorf("Expected offset to default to window start, got %f", s.Offset())
	}

	ref := 42.0
	s.ReferenceOffset = &ref
	if s.Offset() != 42 {
		t.Errorf("Expected explicit offset 42, got %f", s.Offset())
	}
}

func TestClone(t *testing.T) {
	ref := 5.0
	cfg := &Config{
		SolarSystem: []BodyConfig{{Name: "Earth"}},
		SearchSpace: SearchSpace{ReferenceOffset: &ref},
	}

	cloned := cfg.Clone()
	cloned.SolarSystem[0].Name = "Mars"
	*cloned.SearchSpace.ReferenceOffset = 9

	if cfg.SolarSystem[0].Name != "Earth" {
		t.Error("Clone shares the body slice")
	}
	if *cfg.SearchSpace.ReferenceOffset != 5 {
		t.Error("Clone shares the reference offset")
	}
	if (*Config)(nil).Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}
