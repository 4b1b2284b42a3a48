// Package body models celestial bodies on fixed circular orbits around the origin.
package body

import (
	"math"

	"github.com/GoSim-25-26J-441/launch-search/pkg/config"
	"github.com/GoSim-25-26J-441/launch-search/pkg/utils"
)

// Mass unit used by the search document
const massUnitKg = 1e21

// Body is an immutable celestial body in SI units
type Body struct {
	Name         string
	Radius       float64 // m, distance from the origin
	Period       float64 // s, 0 for a fixed body
	Mass         float64 // kg
	PhaseAtEpoch float64 // rad at t = 0
}

// FromConfig converts one configured body into SI units
func FromConfig(bc config.BodyConfig) Body {
	return Body{
		Name:         bc.Name,
		Radius:       bc.RadiusKm * 1000,
		Period:       utils.DaysToSeconds(bc.PeriodDays),
		Mass:         bc.Mass * massUnitKg,
		PhaseAtEpoch: bc.AngleAtEpoch,
	}
}

// FromConfigs converts the configured solar system, preserving order
func FromConfigs(bcs []config.BodyConfig) []Body {
	bodies := make([]Body, len(bcs))
	for i, bc := range bcs {
		bodies[i] = FromConfig(bc)
	}
	return bodies
}

// Find returns the index of the body with the given name
func Find(bodies []Body, name string) (int, bool) {
	for i, b := range bodies {
		if b.Name == name {
			return i, true
		}
	}
	return -1, false
}

// LocationAt returns the body position at time t (epoch seconds, t >= 0).
// A body with a zero period stays at the origin.
func (b Body) LocationAt(t float64) (x, y float64) {
	if b.Period == 0 {
		return 0, 0
	}
	t = math.Mod(t, b.Period)
	angle := 2*math.Pi*(t/b.Period) + b.PhaseAtEpoch
	return b.Radius * math.Cos(angle), b.Radius * math.Sin(angle)
}

// OrbitalSpeed is the mean tangential speed radius/period, without the 2π
// factor; callers scale it. Fixed bodies have zero speed.
func (b Body) OrbitalSpeed() float64 {
	if b.Period == 0 {
		return 0
	}
	return b.Radius / b.Period
}
