// Package metrics exposes search progress as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/GoSim-25-26J-441/launch-search/pkg/models"
)

// Search statuses used as the status label of launchsearch_searches_total
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Collector holds the search metrics on a private registry, so several
// collectors can coexist in one process (tests, multiple daemons).
type Collector struct {
	registry *prometheus.Registry

	generations        prometheus.Counter
	evaluations        prometheus.Counter
	failedTrajectories prometheus.Counter
	evaluationDuration prometheus.Histogram
	bestFitness        prometheus.Gauge
	searches           *prometheus.CounterVec
}

// NewCollector creates and registers the search metrics
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "launchsearch_generations_total",
			Help: "Total number of evaluated generations",
		}),
		evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "launchsearch_evaluations_total",
			Help: "Total number of simulated candidates",
		}),
		failedTrajectories: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "launchsearch_failed_trajectories_total",
			Help: "Candidates that never approached their destination",
		}),
		evaluationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "launchsearch_evaluation_duration_seconds",
			Help:    "Time spent simulating one candidate",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		bestFitness: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "launchsearch_best_fitness",
			Help: "Best finite fitness of the most recent generation",
		}),
		searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launchsearch_searches_total",
				Help: "Finished searches by final status",
			},
			[]string{"status"},
		),
	}

	c.registry.MustRegister(
		c.generations,
		c.evaluations,
		c.failedTrajectories,
		c.evaluationDuration,
		c.bestFitness,
		c.searches,
	)
	return c
}

// Registry returns the registry holding the collector's metrics
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordEvaluation observes one simulated candidate
func (c *Collector) RecordEvaluation(duration time.Duration, failed bool) {
	c.evaluations.Inc()
	c.evaluationDuration.Observe(duration.Seconds())
	if failed {
		c.failedTrajectories.Inc()
	}
}

// RecordGeneration counts a finished generation and tracks its best fitness.
// A generation where every candidate failed leaves the gauge untouched.
func (c *Collector) RecordGeneration(stats models.GenerationStats) {
	c.generations.Inc()
	if !stats.BestFitness.Failed {
		c.bestFitness.Set(stats.BestFitness.Value)
	}
}

// RecordSearch counts a finished search by its final status
func (c *Collector) RecordSearch(status string) {
	c.searches.WithLabelValues(status).Inc()
}
