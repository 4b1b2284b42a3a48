package config

import (
	"fmt"
	"os"
	"time"
)

// LoadConfig loads and parses a search document
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfigYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyDefaults fills unset optional fields. It is idempotent.
func (c *Config) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	s := &c.SearchSpace
	if s.WindowStartUnix == 0 {
		s.WindowStartUnix = float64(time.Now().Unix())
	}
	if s.WindowYears == 0 {
		s.WindowYears = DefaultWindowYears
	}
	if s.LatitudeMin == 0 && s.LatitudeMax == 0 {
		s.LatitudeMin = DefaultLatitudeMin
		s.LatitudeMax = DefaultLatitudeMax
	}
	if s.LaunchSpeedMin == 0 && s.LaunchSpeedMax == 0 {
		s.LaunchSpeedMin = DefaultLaunchSpeedMin
		s.LaunchSpeedMax = DefaultLaunchSpeedMax
	}
	if s.VelocityScale == 0 {
		s.VelocityScale = DefaultVelocityScale
	}
}

// Validate checks a configuration built in code rather than parsed from YAML
func (c *Config) Validate() error {
	return validateConfig(c)
}

// Clone returns a deep copy of the configuration
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cloned := *c
	cloned.SolarSystem = append([]BodyConfig(nil), c.SolarSystem...)
	if c.SearchSpace.ReferenceOffset != nil {
		offset := *c.SearchSpace.ReferenceOffset
		cloned.SearchSpace.ReferenceOffset = &offset
	}
	return &cloned
}

// validateConfig performs validation on the configuration
func validateConfig(cfg *Config) error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	if err := validateSolarSystem(cfg.SolarSystem); err != nil {
		return fmt.Errorf("solar_system validation failed: %w", err)
	}

	if cfg.Problem.RocketMass < 0 {
		return fmt.Errorf("problem rocket_mass cannot be negative, got %f", cfg.Problem.RocketMass)
	}
	if cfg.Problem.TargetPlanet == "" {
		return fmt.Errorf("problem target_planet cannot be empty")
	}

	if err := validateAlgorithm(&cfg.Algorithm); err != nil {
		return fmt.Errorf("algorithm validation failed: %w", err)
	}

	if err := validateSearchSpace(&cfg.SearchSpace); err != nil {
		return fmt.Errorf("search_space validation failed: %w", err)
	}

	return nil
}

// validateSolarSystem checks every body and that names are unique
func validateSolarSystem(bodies []BodyConfig) error {
	if len(bodies) == 0 {
		return fmt.Errorf("at least one body must be defined")
	}

	names := make(map[string]bool)
	for _, b := range bodies {
		if b.Name == "" {
			return fmt.Errorf("body name cannot be empty")
		}
		if names[b.Name] {
			return fmt.Errorf("duplicate body name: %s", b.Name)
		}
		names[b.Name] = true

		if b.RadiusKm < 0 {
			return fmt.Errorf("body %s: radius_km cannot be negative", b.Name)
		}
		if b.PeriodDays < 0 {
			return fmt.Errorf("body %s: period_days cannot be negative", b.Name)
		}
		if b.Mass < 0 {
			return fmt.Errorf("body %s: mass cannot be negative", b.Name)
		}
	}
	return nil
}

// validateAlgorithm validates the evolutionary loop parameters
func validateAlgorithm(a *Algorithm) error {
	if a.PopulationSize < 2 {
		return fmt.Errorf("population_size must be at least 2, got %d", a.PopulationSize)
	}
	if a.Generations < 1 {
		return fmt.Errorf("generations must be positive, got %d", a.Generations)
	}
	if a.Workers < 0 {
		return fmt.Errorf("workers cannot be negative, got %d", a.Workers)
	}
	return nil
}

// validateSearchSpace validates the sampling ranges
func validateSearchSpace(s *SearchSpace) error {
	if s.WindowYears <= 0 {
		return fmt.Errorf("window_years must be positive, got %f", s.WindowYears)
	}
	if s.WindowStartUnix < 0 {
		return fmt.Errorf("window_start_unix cannot be negative, got %f", s.WindowStartUnix)
	}
	if s.LatitudeMin >= s.LatitudeMax {
		return fmt.Errorf("latitude_min (%f) must be below latitude_max (%f)", s.LatitudeMin, s.LatitudeMax)
	}
	if s.LaunchSpeedMin <= 0 || s.LaunchSpeedMin >= s.LaunchSpeedMax {
		return fmt.Errorf("launch speed range [%f, %f] must be positive and non-empty", s.LaunchSpeedMin, s.LaunchSpeedMax)
	}
	if s.VelocityScale <= 0 {
		return fmt.Errorf("velocity_scale must be positive, got %f", s.VelocityScale)
	}
	return nil
}
