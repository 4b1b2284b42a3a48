package config

import "math"

// Config is the search document: the solar system, the problem instance and
// the evolutionary algorithm settings. It is loaded once and passed by
// pointer into the engine, which never mutates it.
type Config struct {
	LogLevel    string        `yaml:"log_level"`
	SolarSystem []BodyConfig  `yaml:"solar_system"`
	Problem     ProblemConfig `yaml:"problem"`
	Algorithm   Algorithm     `yaml:"algorithm"`
	SearchSpace SearchSpace   `yaml:"search_space,omitempty"`
}

// BodyConfig describes one celestial body on a circular orbit around the origin
type BodyConfig struct {
	Name         string  `yaml:"name"`
	RadiusKm     float64 `yaml:"radius_km"`
	PeriodDays   float64 `yaml:"period_days"`    // 0 for a fixed body
	Mass         float64 `yaml:"mass"`           // in units of 10^21 kg
	AngleAtEpoch float64 `yaml:"angle_at_epoch"` // radians, 0 is "right" of the origin
}

// ProblemConfig holds the per-run problem instance
type ProblemConfig struct {
	RocketMass   float64 `yaml:"rocket_mass"`
	TargetPlanet string  `yaml:"target_planet"`
}

// Algorithm holds the evolutionary loop parameters and fitness weights
type Algorithm struct {
	PopulationSize   int     `yaml:"population_size"`
	Generations      int     `yaml:"generations"`
	FuelCoord        float64 `yaml:"fuel_coord"`
	WaitingTimeCoord float64 `yaml:"waiting_time_coord"`
	VicinityCoord    float64 `yaml:"vicinity_coord"`
	Seed             int64   `yaml:"seed"`    // 0 seeds from the clock
	Workers          int     `yaml:"workers"` // 0 uses GOMAXPROCS
}

// SearchSpace bounds the random initial population and the speed renormalization
type SearchSpace struct {
	WindowStartUnix float64  `yaml:"window_start_unix"` // 0 means process start
	WindowYears     float64  `yaml:"window_years"`
	LatitudeMin     float64  `yaml:"latitude_min"`
	LatitudeMax     float64  `yaml:"latitude_max"`
	LaunchSpeedMin  float64  `yaml:"launch_speed_min"`
	LaunchSpeedMax  float64  `yaml:"launch_speed_max"`
	VelocityScale   float64  `yaml:"velocity_scale"`
	ReferenceOffset *float64 `yaml:"reference_offset,omitempty"` // defaults to window_start_unix
}

// Search space defaults
const (
	DefaultWindowYears    = 20
	DefaultLatitudeMin    = 0.00001
	DefaultLatitudeMax    = 2 * math.Pi
	DefaultLaunchSpeedMin = 12000 // m/s
	DefaultLaunchSpeedMax = 20000 // m/s
	// DefaultVelocityScale is an empirical multiplier on Earth's orbital and
	// rotational velocity contributions at launch. It is a tuning constant.
	DefaultVelocityScale = 6.28
)

// EarthName is the body every search launches from
const EarthName = "Earth"

// Window returns the launch time range [start, end) in epoch seconds
func (s SearchSpace) Window() (start, end float64) {
	return s.WindowStartUnix, s.WindowStartUnix + s.WindowYears*365*24*60*60
}

// Offset returns the reference subtracted from launch time in the waiting-time term
func (s SearchSpace) Offset() float64 {
	if s.ReferenceOffset != nil {
		return *s.ReferenceOffset
	}
	return s.WindowStartUnix
}
