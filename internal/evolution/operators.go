package evolution

import (
	"math"
	"sort"

	"github.com/GoSim-25-26J-441/launch-search/pkg/models"
	"github.com/GoSim-25-26J-441/launch-search/pkg/utils"
)

const (
	// selectionBucket coarsens fitness before ranking; candidates within one
	// bucket keep their relative order.
	selectionBucket = 10000
	// mutationAmplitude is the total width of the relative jitter, ±5%
	mutationAmplitude = 0.1
)

// SelectionKey returns the coarse ranking key of a fitness. Failed fitness
// ranks after every finite key.
func SelectionKey(f models.Fitness) float64 {
	if f.Failed {
		return math.Inf(1)
	}
	return math.Trunc(f.Value / selectionBucket)
}

// Select returns a fresh slice with the keep best candidates by SelectionKey.
// The sort is stable, so ties stay in population order.
func Select(population []models.Candidate, keep int) []models.Candidate {
	ranked := append([]models.Candidate(nil), population...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return SelectionKey(ranked[i].Fitness) < SelectionKey(ranked[j].Fitness)
	})
	if keep > len(ranked) {
		keep = len(ranked)
	}
	survivors := make([]models.Candidate, keep)
	copy(survivors, ranked[:keep])
	return survivors
}

// Mate averages two genomes field by field
func Mate(a, b models.Genome) models.Genome {
	return models.Genome{
		LaunchTime:  (a.LaunchTime + b.LaunchTime) / 2,
		Latitude:    (a.Latitude + b.Latitude) / 2,
		LaunchSpeed: (a.LaunchSpeed + b.LaunchSpeed) / 2,
	}
}

// Crossover builds a new generation of size unevaluated children. The
// survivors are shuffled and both parents of every child are drawn with
// replacement from the first half of the shuffled pool; each child is
// mutated as soon as it is bred. The survivors slice is not modified.
func Crossover(survivors []models.Candidate, size int, rng *utils.RandSource) []models.Candidate {
	if len(survivors) == 0 {
		return nil
	}
	pool := append([]models.Candidate(nil), survivors...)
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	mates := max(1, len(pool)/2)
	next := make([]models.Candidate, size)
	for i := range next {
		first := pool[rng.Intn(mates)]
		second := pool[rng.Intn(mates)]
		next[i] = models.Candidate{Genome: Mutate(Mate(first.Genome, second.Genome), rng)}
	}
	return next
}

// Mutate scales launch time, latitude and launch speed, in that order, by
// independent factors in [0.95, 1.05)
func Mutate(g models.Genome, rng *utils.RandSource) models.Genome {
	g.LaunchTime *= 1 + mutationAmplitude*(rng.Float64()-0.5)
	g.Latitude *= 1 + mutationAmplitude*(rng.Float64()-0.5)
	g.LaunchSpeed *= 1 + mutationAmplitude*(rng.Float64()-0.5)
	return g
}

// RenormalizeSpeed pulls an out-of-range speed back into [lo, hi] by
// repeatedly subtracting (or adding) a fresh random fraction of the range
// width. This is not a clamp; the result is not uniformly distributed.
func RenormalizeSpeed(speed, lo, hi float64, rng *utils.RandSource) float64 {
	width := hi - lo
	for speed > hi {
		speed -= width * rng.Float64()
	}
	for speed < lo {
		speed += width * rng.Float64()
	}
	return speed
}
