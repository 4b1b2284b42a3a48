package models

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/GoSim-25-26J-441/launch-search/pkg/utils"
)

// Genome holds the three free launch parameters of a candidate
type Genome struct {
	LaunchTime  float64 `json:"launch_time"`  // epoch seconds
	Latitude    float64 `json:"latitude"`     // radians on the launching body
	LaunchSpeed float64 `json:"launch_speed"` // m/s relative to the launching body
}

// Fitness is a lower-is-better score. A failed fitness marks a trajectory
// that never came closer to the destination than at launch; it orders
// strictly after every finite fitness and equal to other failed ones.
type Fitness struct {
	Value  float64
	Failed bool
}

// FitnessOf wraps a finite score
func FitnessOf(v float64) Fitness {
	return Fitness{Value: v}
}

// FailedFitness returns the reserved "never improved" fitness
func FailedFitness() Fitness {
	return Fitness{Failed: true}
}

// Compare returns -1, 0 or +1 when f is better than, equal to or worse than o
func (f Fitness) Compare(o Fitness) int {
	switch {
	case f.Failed && o.Failed:
		return 0
	case f.Failed:
		return 1
	case o.Failed:
		return -1
	case f.Value < o.Value:
		return -1
	case f.Value > o.Value:
		return 1
	default:
		return 0
	}
}

// Less reports whether f is strictly better than o
func (f Fitness) Less(o Fitness) bool {
	return f.Compare(o) < 0
}

// Float returns the score, or +Inf for a failed fitness
func (f Fitness) Float() float64 {
	if f.Failed {
		return math.Inf(1)
	}
	return f.Value
}

func (f Fitness) String() string {
	if f.Failed {
		return "failed"
	}
	return fmt.Sprintf("%g", f.Value)
}

// MarshalJSON encodes a failed fitness as null
func (f Fitness) MarshalJSON() ([]byte, error) {
	if f.Failed {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// UnmarshalJSON decodes null as a failed fitness
func (f *Fitness) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = FailedFitness()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid fitness: %w", err)
	}
	*f = FitnessOf(v)
	return nil
}

// Candidate is one genome plus its simulation results. It holds no
// references, so copying the struct copies the candidate.
type Candidate struct {
	Genome
	// LandingTime and ClosestApproach are meaningful only when Evaluated
	// is set and Fitness is not failed.
	LandingTime     float64 `json:"landing_time"`
	ClosestApproach float64 `json:"closest_approach"`
	Fitness         Fitness `json:"fitness"`
	Evaluated       bool    `json:"evaluated"`
}

// Reached reports whether the candidate was evaluated and found an approach
func (c Candidate) Reached() bool {
	return c.Evaluated && !c.Fitness.Failed
}

func (c Candidate) String() string {
	if !c.Reached() {
		return fmt.Sprintf("launch_time:%s, latitude:%g, launch_speed:%g, fitness:%s",
			utils.FormatEpoch(c.LaunchTime), c.Latitude, c.LaunchSpeed, c.Fitness)
	}
	return fmt.Sprintf("launch_time:%s, landing_time:%s, latitude:%g, launch_speed:%g, fitness:%s, closest_approach:%g",
		utils.FormatEpoch(c.LaunchTime), utils.FormatEpoch(c.LandingTime),
		c.Latitude, c.LaunchSpeed, c.Fitness, c.ClosestApproach)
}

// Snapshot is an independent copy of a population after one generation
type Snapshot struct {
	Generation int         `json:"generation"`
	Candidates []Candidate `json:"candidates"`
}

// NewSnapshot copies population into a new snapshot
func NewSnapshot(generation int, population []Candidate) Snapshot {
	return Snapshot{
		Generation: generation,
		Candidates: append([]Candidate(nil), population...),
	}
}

// Best returns the candidate with the lowest fitness; ties keep the earliest
func (s Snapshot) Best() (Candidate, bool) {
	if len(s.Candidates) == 0 {
		return Candidate{}, false
	}
	best := s.Candidates[0]
	for _, c := range s.Candidates[1:] {
		if c.Fitness.Less(best.Fitness) {
			best = c
		}
	}
	return best, true
}

// GenerationStats summarizes one snapshot for reporting
type GenerationStats struct {
	Generation int `json:"generation"`
	// MeanFitness averages the successful candidates; it is failed when none succeeded.
	MeanFitness Fitness `json:"mean_fitness"`
	BestFitness Fitness `json:"best_fitness"`
	Size        int     `json:"size"`
	Failed      int     `json:"failed"`
}

// Stats computes the mean and best fitness of the snapshot
func (s Snapshot) Stats() GenerationStats {
	st := GenerationStats{
		Generation:  s.Generation,
		MeanFitness: FailedFitness(),
		BestFitness: FailedFitness(),
		Size:        len(s.Candidates),
	}

	values := make([]float64, 0, len(s.Candidates))
	for _, c := range s.Candidates {
		if c.Fitness.Failed {
			st.Failed++
			continue
		}
		values = append(values, c.Fitness.Value)
	}
	if len(values) > 0 {
		st.MeanFitness = FitnessOf(stat.Mean(values, nil))
	}
	if best, ok := s.Best(); ok {
		st.BestFitness = best.Fitness
	}
	return st
}

// History is the ordered sequence of snapshots, one per generation
type History []Snapshot

// Stats returns per-generation statistics in order
func (h History) Stats() []GenerationStats {
	out := make([]GenerationStats, len(h))
	for i, s := range h {
		out[i] = s.Stats()
	}
	return out
}

// Final returns the last snapshot
func (h History) Final() (Snapshot, bool) {
	if len(h) == 0 {
		return Snapshot{}, false
	}
	return h[len(h)-1], true
}
