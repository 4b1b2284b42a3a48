// Package evolution runs the generational search for launch parameters:
// sample a random population, simulate every candidate, keep the better half,
// breed and mutate a new population, and repeat.
package evolution

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/GoSim-25-26J-441/launch-search/internal/body"
	"github.com/GoSim-25-26J-441/launch-search/internal/metrics"
	"github.com/GoSim-25-26J-441/launch-search/internal/trajectory"
	"github.com/GoSim-25-26J-441/launch-search/pkg/config"
	"github.com/GoSim-25-26J-441/launch-search/pkg/logger"
	"github.com/GoSim-25-26J-441/launch-search/pkg/models"
	"github.com/GoSim-25-26J-441/launch-search/pkg/utils"
)

// ProgressReporter receives the statistics of every evaluated generation
type ProgressReporter func(models.GenerationStats)

// Option configures an Engine
type Option func(*Engine)

// WithRandSource replaces the seed-derived random source
func WithRandSource(rng *utils.RandSource) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithWorkers bounds the number of concurrent simulations. Non-positive
// values keep the configured worker count.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithProgressReporter registers a callback invoked after each generation
func WithProgressReporter(fn ProgressReporter) Option {
	return func(e *Engine) {
		e.reporter = fn
	}
}

// WithMetrics records evaluation and generation metrics on c
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Engine) {
		e.metrics = c
	}
}

// Engine runs one search. The configuration and simulator are immutable
// once built; all randomness comes from a single source used only on the
// goroutine calling Run.
type Engine struct {
	cfg      *config.Config
	sim      *trajectory.Simulator
	rng      *utils.RandSource
	workers  int
	reporter ProgressReporter
	metrics  *metrics.Collector

	mu         sync.RWMutex
	generation int
}

// NewEngine validates cfg and resolves the launching and destination bodies.
// The engine keeps its own copy of cfg with defaults applied.
func NewEngine(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, &ConfigError{Reason: fmt.Errorf("configuration is required")}
	}
	cfg = cfg.Clone()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{Reason: err}
	}

	bodies := body.FromConfigs(cfg.SolarSystem)
	earth, ok := body.Find(bodies, config.EarthName)
	if !ok {
		return nil, &ConfigError{Reason: ErrEarthMissing}
	}
	dest, ok := body.Find(bodies, cfg.Problem.TargetPlanet)
	if !ok {
		return nil, &ConfigError{Reason: fmt.Errorf("%w: %q", ErrUnknownDestination, cfg.Problem.TargetPlanet)}
	}

	sim, err := trajectory.NewSimulator(bodies, earth, trajectory.Problem{
		RocketMass:  cfg.Problem.RocketMass,
		Destination: dest,
	}, trajectory.ParamsFromConfig(cfg))
	if err != nil {
		return nil, &ConfigError{Reason: err}
	}

	e := &Engine{
		cfg:     cfg,
		sim:     sim,
		workers: cfg.Algorithm.Workers,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = utils.NewRandSource(cfg.Algorithm.Seed)
	}
	if e.workers <= 0 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	return e, nil
}

// Config returns the engine's configuration with defaults applied
func (e *Engine) Config() *config.Config {
	return e.cfg.Clone()
}

// Seed returns the seed of the engine's random source
func (e *Engine) Seed() int64 {
	return e.rng.Seed()
}

// Generation returns the number of generations evaluated so far
func (e *Engine) Generation() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.generation
}

// Run executes the full search and returns one snapshot per generation.
// Cancellation is honoured between generations; the snapshots completed so
// far are returned together with the context error.
func (e *Engine) Run(ctx context.Context) (models.History, error) {
	alg := e.cfg.Algorithm
	space := e.cfg.SearchSpace
	history := make(models.History, 0, alg.Generations)

	logger.Info("search started",
		"population_size", alg.PopulationSize,
		"generations", alg.Generations,
		"destination", e.cfg.Problem.TargetPlanet,
		"seed", e.rng.Seed(),
		"workers", e.workers)

	population := e.initialPopulation()
	for gen := 0; gen < alg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return history, fmt.Errorf("search interrupted after %d generations: %w", gen, err)
		}
		if gen > 0 {
			survivors := Select(population, alg.PopulationSize/2)
			population = Crossover(survivors, alg.PopulationSize, e.rng)
			for i := range population {
				population[i].LaunchSpeed = RenormalizeSpeed(population[i].LaunchSpeed,
					space.LaunchSpeedMin, space.LaunchSpeedMax, e.rng)
			}
		}

		e.evaluate(population)

		snap := models.NewSnapshot(gen, population)
		history = append(history, snap)
		e.finishGeneration(snap)
	}

	if best, ok := history[len(history)-1].Best(); ok {
		logger.Info("search completed", "generations", len(history), "best_fitness", best.Fitness.String())
	}
	return history, nil
}

// PrepareTrace re-simulates g with tracing enabled. A positive frameCount
// downsamples the trace to at most that many frames.
func (e *Engine) PrepareTrace(g models.Genome, frameCount int) (*trajectory.Trace, error) {
	res := e.sim.Simulate(g, true)
	if !res.Reached {
		return nil, ErrNoApproach
	}
	res.Trace.Downsample(frameCount)
	return res.Trace, nil
}

// Evaluate simulates a single genome
func (e *Engine) Evaluate(g models.Genome) models.Candidate {
	c := models.Candidate{Genome: g}
	e.sim.Evaluate(&c)
	return c
}

// initialPopulation samples launch time, latitude and launch speed uniformly,
// in that order for each candidate
func (e *Engine) initialPopulation() []models.Candidate {
	space := e.cfg.SearchSpace
	start, end := space.Window()

	population := make([]models.Candidate, e.cfg.Algorithm.PopulationSize)
	for i := range population {
		population[i].LaunchTime = e.rng.UniformFloat64(start, end)
		population[i].Latitude = e.rng.UniformFloat64(space.LatitudeMin, space.LatitudeMax)
		population[i].LaunchSpeed = e.rng.UniformFloat64(space.LaunchSpeedMin, space.LaunchSpeedMax)
	}
	return population
}

func (e *Engine) finishGeneration(snap models.Snapshot) {
	e.mu.Lock()
	e.generation = snap.Generation + 1
	e.mu.Unlock()

	stats := snap.Stats()
	logger.Debug("generation evaluated",
		"generation", stats.Generation,
		"mean_fitness", stats.MeanFitness.String(),
		"best_fitness", stats.BestFitness.String(),
		"failed", stats.Failed)

	if e.metrics != nil {
		e.metrics.RecordGeneration(stats)
	}
	if e.reporter != nil {
		e.reporter(stats)
	}
}
