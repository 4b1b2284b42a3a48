// Package trajectory integrates a rocket launched from Earth through the
// combined gravity of every configured body and scores the approach to a
// destination body.
package trajectory

import (
	"fmt"
	"math"

	"github.com/GoSim-25-26J-441/launch-search/internal/body"
	"github.com/GoSim-25-26J-441/launch-search/pkg/config"
	"github.com/GoSim-25-26J-441/launch-search/pkg/models"
	"github.com/GoSim-25-26J-441/launch-search/pkg/utils"
)

const (
	// G is the gravitational constant in m^3 / (kg s^2)
	G = 6.67408e-11
	// StepSeconds is the fixed integration step
	StepSeconds = utils.SecondsPerDay
	// HorizonYears is the simulated time after launch
	HorizonYears = 20

	// Forces from bodies closer than this are skipped; a daily step cannot
	// resolve them.
	exclusionRadius = 10_000_000 // m
	earthRadius     = 6371 * 1000
	// halfTurn is the rough π the launch geometry has always been tuned with
	halfTurn = 3.14
)

// horizonSteps is the number of steps in the horizon. The integration loop
// runs one extra step because its bound is inclusive.
const horizonSteps = HorizonYears * utils.SecondsPerYear / StepSeconds

// Problem is the static problem instance of one search
type Problem struct {
	RocketMass  float64
	Destination int // index into the body list
}

// Params holds the fitness weights and launch tuning of one search
type Params struct {
	FuelWeight      float64
	WaitWeight      float64
	VicinityWeight  float64
	ReferenceOffset float64 // subtracted from launch time in the waiting term
	VelocityScale   float64 // empirical multiplier on Earth's velocity contributions
}

// ParamsFromConfig extracts the simulation parameters from a search document
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		FuelWeight:      cfg.Algorithm.FuelCoord,
		WaitWeight:      cfg.Algorithm.WaitingTimeCoord,
		VicinityWeight:  cfg.Algorithm.VicinityCoord,
		ReferenceOffset: cfg.SearchSpace.Offset(),
		VelocityScale:   cfg.SearchSpace.VelocityScale,
	}
}

// Result is the outcome of one simulated launch
type Result struct {
	// Reached is false when the rocket never got closer to the destination
	// than it was at launch; LandingTime and ClosestApproach are then zero.
	Reached         bool
	LandingTime     float64
	ClosestApproach float64
	Fitness         models.Fitness
	// Trace is set only when tracing was requested and the approach was reached
	Trace *Trace
}

// Apply copies the result into the candidate
func (r Result) Apply(c *models.Candidate) {
	c.LandingTime = r.LandingTime
	c.ClosestApproach = r.ClosestApproach
	c.Fitness = r.Fitness
	c.Evaluated = true
}

// Simulator scores genomes against one immutable solar system. It holds no
// mutable state and is safe for concurrent use.
type Simulator struct {
	bodies      []body.Body
	earth       body.Body
	destination body.Body
	problem     Problem
	params      Params
}

// NewSimulator creates a simulator launching from bodies[earth]
func NewSimulator(bodies []body.Body, earth int, problem Problem, params Params) (*Simulator, error) {
	if earth < 0 || earth >= len(bodies) {
		return nil, fmt.Errorf("earth index %d out of range [0, %d)", earth, len(bodies))
	}
	if problem.Destination < 0 || problem.Destination >= len(bodies) {
		return nil, fmt.Errorf("destination index %d out of range [0, %d)", problem.Destination, len(bodies))
	}
	return &Simulator{
		bodies:      append([]body.Body(nil), bodies...),
		earth:       bodies[earth],
		destination: bodies[problem.Destination],
		problem:     problem,
		params:      params,
	}, nil
}

// Bodies returns a copy of the simulated bodies
func (s *Simulator) Bodies() []body.Body {
	return append([]body.Body(nil), s.bodies...)
}

// Evaluate simulates the candidate's genome and stores the result on it
func (s *Simulator) Evaluate(c *models.Candidate) {
	s.Simulate(c.Genome, false).Apply(c)
}

// Simulate integrates one launch over the fixed horizon
func (s *Simulator) Simulate(g models.Genome, traceRequested bool) Result {
	t := g.LaunchTime
	px, py := s.earth.LocationAt(t)
	vx, vy := s.launchVelocity(g, px, py)

	destX, destY := s.destination.LocationAt(t)
	launchDistance := distance(px, py, destX, destY)

	var tracks [][]Point
	var rocket []Point
	if traceRequested {
		tracks = make([][]Point, len(s.bodies))
		rocket = make([]Point, 0, horizonSteps+1)
	}

	var (
		reached     bool
		closest     float64
		landingTime float64
		landingStep int
	)

	for step := 1; step <= horizonSteps+1; step++ {
		t += StepSeconds

		var ax, ay float64
		for i, b := range s.bodies {
			bx, by := b.LocationAt(t)
			if traceRequested {
				tracks[i] = append(tracks[i], Point{X: bx, Y: by})
			}
			d := distance(bx, by, px, py)
			if d < exclusionRadius {
				continue
			}
			fx, fy := gravity(G*b.Mass/(d*d), px-bx, py-by)
			ax += fx
			ay += fy
		}

		vx += ax * StepSeconds
		vy += ay * StepSeconds
		px += vx * StepSeconds
		py += vy * StepSeconds

		destX, destY = s.destination.LocationAt(t)
		d := distance(destX, destY, px, py)
		if d < launchDistance && (!reached || d < closest) {
			reached = true
			closest = d
			landingTime = t
			landingStep = step
		}
		if traceRequested {
			rocket = append(rocket, Point{X: px, Y: py})
		}
	}

	if !reached {
		return Result{Fitness: models.FailedFitness()}
	}

	res := Result{
		Reached:         true,
		LandingTime:     landingTime,
		ClosestApproach: closest,
		Fitness:         s.fitness(g, closest),
	}
	if traceRequested {
		res.Trace = newTrace(g.LaunchTime, landingTime, s.bodies, tracks, rocket, landingStep)
	}
	return res
}

// launchVelocity sums Earth's orbital velocity, the surface rotation at the
// launch latitude and the launch speed itself.
func (s *Simulator) launchVelocity(g models.Genome, px, py float64) (vx, vy float64) {
	scale := s.params.VelocityScale
	orbital := s.earth.OrbitalSpeed()
	rotation := float64(earthRadius) / utils.SecondsPerDay

	orbitalAngle := math.Atan(py / px)
	if px < 0 {
		orbitalAngle += halfTurn
	}

	vx += -scale * orbital * math.Sin(orbitalAngle)
	vy += scale * orbital * math.Cos(orbitalAngle)

	vx += -scale * rotation * math.Sin(g.Latitude)
	vy += scale * rotation * math.Cos(g.Latitude)

	vx += g.LaunchSpeed * -math.Sin(g.Latitude-halfTurn/2)
	vy += g.LaunchSpeed * math.Cos(g.Latitude-halfTurn/2)
	return vx, vy
}

// gravity splits an acceleration magnitude into components pointing from the
// rocket towards the body. The sign of each component follows the sign of the
// matching position difference; cos(atan(r)) yields its magnitude. An exactly
// zero difference counts as positive.
func gravity(force, diffX, diffY float64) (fx, fy float64) {
	if diffX < 0 {
		fx = force * math.Cos(math.Atan(diffY/diffX))
	} else {
		fx = -force * math.Cos(math.Atan(diffY/diffX))
	}
	if diffY < 0 {
		fy = force * math.Cos(math.Atan(diffX/diffY))
	} else {
		fy = -force * math.Cos(math.Atan(diffX/diffY))
	}
	return fx, fy
}

func (s *Simulator) fitness(g models.Genome, closest float64) models.Fitness {
	p := s.params
	return models.FitnessOf(p.FuelWeight*s.problem.RocketMass*g.LaunchSpeed +
		p.WaitWeight*(g.LaunchTime-p.ReferenceOffset) +
		p.VicinityWeight*closest)
}

func distance(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return math.Sqrt(dx*dx + dy*dy)
}
