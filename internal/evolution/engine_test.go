package evolution

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/GoSim-25-26J-441/launch-search/internal/metrics"
	"github.com/GoSim-25-26J-441/launch-search/pkg/config"
	"github.com/GoSim-25-26J-441/launch-search/pkg/models"
	"github.com/GoSim-25-26J-441/launch-search/pkg/utils"
)

// threeBodyConfig is a central star, Earth and Mars on circular orbits
func threeBodyConfig(seed int64) *config.Config {
	return &config.Config{
		LogLevel: "info",
		SolarSystem: []config.BodyConfig{
			{Name: "Sun", Mass: 1989000000},
			{Name: "Earth", RadiusKm: 149598023, PeriodDays: 365.256, Mass: 5972.37, AngleAtEpoch: 1.75},
			{Name: "Mars", RadiusKm: 227939200, PeriodDays: 686.971, Mass: 641.71, AngleAtEpoch: 6.20},
		},
		Problem: config.ProblemConfig{RocketMass: 1000, TargetPlanet: "Mars"},
		Algorithm: config.Algorithm{
			PopulationSize:   10,
			Generations:      3,
			FuelCoord:        1e-6,
			WaitingTimeCoord: 1e-7,
			VicinityCoord:    1e-6,
			Seed:             seed,
			Workers:          2,
		},
		SearchSpace: config.SearchSpace{WindowStartUnix: 1700000000},
	}
}

func TestNewEngineConfigErrors(t *testing.T) {
	missingEarth := threeBodyConfig(1)
	missingEarth.SolarSystem = missingEarth.SolarSystem[:1]
	missingEarth.Problem.TargetPlanet = "Sun"

	unknownDest := threeBodyConfig(1)
	unknownDest.Problem.TargetPlanet = "Pluto"

	tinyPopulation := threeBodyConfig(1)
	tinyPopulation.Algorithm.PopulationSize = 1

	tests := []struct {
		name   string
		cfg    *config.Config
		reason error
	}{
		{"nil config", nil, nil},
		{"missing earth", missingEarth, ErrEarthMissing},
		{"unknown destination", unknownDest, ErrUnknownDestination},
		{"invalid algorithm", tinyPopulation, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(tt.cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %T: %v", err, err)
			}
			if tt.reason != nil && !errors.Is(err, tt.reason) {
				t.Errorf("expected %v, got %v", tt.reason, err)
			}
		})
	}
}

func TestNewEngineDoesNotMutateConfig(t *testing.T) {
	cfg := threeBodyConfig(1)
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if cfg.SearchSpace.VelocityScale != 0 {
		t.Error("caller's config was modified")
	}
	if e.Config().SearchSpace.VelocityScale != config.DefaultVelocityScale {
		t.Error("engine config should carry defaults")
	}
	if e.Seed() != 1 {
		t.Errorf("expected seed 1, got %d", e.Seed())
	}
}

func TestRunShape(t *testing.T) {
	e, err := NewEngine(threeBodyConfig(42))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	history, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(history))
	}
	for i, snap := range history {
		if snap.Generation != i {
			t.Errorf("snapshot %d has generation %d", i, snap.Generation)
		}
		if len(snap.Candidates) != 10 {
			t.Errorf("snapshot %d has %d candidates", i, len(snap.Candidates))
		}
		for _, c := range snap.Candidates {
			if !c.Evaluated {
				t.Errorf("snapshot %d holds an unevaluated candidate", i)
			}
			if c.LaunchSpeed < 12000 || c.LaunchSpeed > 20000 {
				t.Errorf("snapshot %d: launch speed %f outside range", i, c.LaunchSpeed)
			}
		}
	}
	if e.Generation() != 3 {
		t.Errorf("expected 3 generations, got %d", e.Generation())
	}
}

func TestRunDeterministic(t *testing.T) {
	run := func(seed int64, workers int) models.History {
		t.Helper()
		e, err := NewEngine(threeBodyConfig(seed), WithWorkers(workers))
		if err != nil {
			t.Fatalf("NewEngine: %v", err)
		}
		h, err := e.Run(context.Background())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return h
	}

	a := run(42, 1)
	b := run(42, 4)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different histories")
	}
	if !reflect.DeepEqual(a.Stats(), b.Stats()) {
		t.Error("same seed produced different mean fitness sequences")
	}

	c := run(43, 1)
	if reflect.DeepEqual(a[0].Candidates, c[0].Candidates) {
		t.Error("different seeds produced the same initial population")
	}
}

func TestRunInitialPopulationWithinRanges(t *testing.T) {
	cfg := threeBodyConfig(7)
	cfg.Algorithm.Generations = 1
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	h, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	start, end := e.Config().SearchSpace.Window()
	for _, c := range h[0].Candidates {
		if c.LaunchTime < start || c.LaunchTime >= end {
			t.Errorf("launch time %f outside window", c.LaunchTime)
		}
		if c.Latitude < config.DefaultLatitudeMin || c.Latitude >= config.DefaultLatitudeMax {
			t.Errorf("latitude %f outside range", c.Latitude)
		}
	}
}

func TestRunReportsProgressAndMetrics(t *testing.T) {
	collector := metrics.NewCollector()
	var reported []models.GenerationStats

	e, err := NewEngine(threeBodyConfig(5),
		WithMetrics(collector),
		WithProgressReporter(func(s models.GenerationStats) {
			reported = append(reported, s)
		}))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	h, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(reported) != 3 {
		t.Fatalf("expected 3 progress reports, got %d", len(reported))
	}
	if !reflect.DeepEqual(reported, h.Stats()) {
		t.Error("progress reports differ from history statistics")
	}

	families, err := collector.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	counts := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() != nil {
				counts[mf.GetName()] += m.GetCounter().GetValue()
			}
		}
	}
	if counts["launchsearch_evaluations_total"] != 30 {
		t.Errorf("expected 30 evaluations, got %f", counts["launchsearch_evaluations_total"])
	}
	if counts["launchsearch_generations_total"] != 3 {
		t.Errorf("expected 3 generations, got %f", counts["launchsearch_generations_total"])
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	e, err := NewEngine(threeBodyConfig(1))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h, err := e.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(h) != 0 {
		t.Errorf("expected no snapshots, got %d", len(h))
	}
}

func TestRunWithInjectedRandSource(t *testing.T) {
	a, _ := NewEngine(threeBodyConfig(0), WithRandSource(utils.NewRandSource(99)))
	b, _ := NewEngine(threeBodyConfig(99))

	ha, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	hb, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(ha, hb) {
		t.Error("injected source with seed 99 should match configured seed 99")
	}
}

func TestEvaluateIsPure(t *testing.T) {
	e, err := NewEngine(threeBodyConfig(1))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	g := models.Genome{LaunchTime: 1.75e9, Latitude: 2.1, LaunchSpeed: 15000}

	a := e.Evaluate(g)
	b := e.Evaluate(g)
	if a != b {
		t.Errorf("repeated evaluation differs: %+v vs %+v", a, b)
	}
}

// lineConfig launches from an almost static Earth 1e6 km above a massless
// destination at the origin, with negligible Earth velocity contributions.
func lineConfig() *config.Config {
	return &config.Config{
		LogLevel: "info",
		SolarSystem: []config.BodyConfig{
			{Name: "Sun"},
			{Name: "Earth", RadiusKm: 1e6, PeriodDays: 1e12 / 86400, AngleAtEpoch: math.Pi / 2},
		},
		Problem: config.ProblemConfig{RocketMass: 1, TargetPlanet: "Sun"},
		Algorithm: config.Algorithm{
			PopulationSize: 2, Generations: 1,
			FuelCoord: 1, WaitingTimeCoord: 1, VicinityCoord: 1,
			Seed: 1,
		},
		SearchSpace: config.SearchSpace{WindowStartUnix: 1, VelocityScale: 1e-12},
	}
}

func TestPrepareTrace(t *testing.T) {
	e, err := NewEngine(lineConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	inward := models.Genome{LaunchTime: 0, Latitude: math.Pi + 1.57, LaunchSpeed: 1000}
	full, err := e.PrepareTrace(inward, 0)
	if err != nil {
		t.Fatalf("PrepareTrace: %v", err)
	}
	if full.Frames() != 12 {
		t.Fatalf("expected 12 frames, got %d", full.Frames())
	}

	sampled, err := e.PrepareTrace(inward, 4)
	if err != nil {
		t.Fatalf("PrepareTrace: %v", err)
	}
	if sampled.Frames() != 4 {
		t.Fatalf("expected 4 frames, got %d", sampled.Frames())
	}
	if sampled.Rocket[3] != full.Rocket[11] {
		t.Errorf("downsampled trace should end at landing: %+v vs %+v", sampled.Rocket[3], full.Rocket[11])
	}
	if sampled.LandingTime != full.LandingTime {
		t.Errorf("landing time changed by downsampling")
	}
}

func TestPrepareTraceNoApproach(t *testing.T) {
	e, err := NewEngine(lineConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	outward := models.Genome{LaunchTime: 0, Latitude: 1.57, LaunchSpeed: 1000}
	if _, err := e.PrepareTrace(outward, 100); !errors.Is(err, ErrNoApproach) {
		t.Errorf("expected ErrNoApproach, got %v", err)
	}
	if c := e.Evaluate(outward); !c.Fitness.Failed || c.LandingTime != 0 {
		t.Errorf("expected failed candidate, got %+v", c)
	}
}
