// Package report persists search results: the mean fitness per generation,
// the best candidate, traced trajectories and a fitness chart.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/GoSim-25-26J-441/launch-search/internal/trajectory"
	"github.com/GoSim-25-26J-441/launch-search/pkg/models"
)

// WriteMeanFitness writes one "<generation> <mean fitness>" line per
// generation. A generation without successful candidates is written as +Inf.
func WriteMeanFitness(w io.Writer, stats []models.GenerationStats) error {
	bw := bufio.NewWriter(w)
	for _, s := range stats {
		mean := strconv.FormatFloat(s.MeanFitness.Float(), 'g', -1, 64)
		if _, err := fmt.Fprintf(bw, "%d %s\n", s.Generation, mean); err != nil {
			return fmt.Errorf("failed to write mean fitness: %w", err)
		}
	}
	return bw.Flush()
}

// ReadMeanFitness parses the output of WriteMeanFitness. Only Generation and
// MeanFitness are set on the returned stats; BestFitness is failed.
func ReadMeanFitness(r io.Reader) ([]models.GenerationStats, error) {
	var stats []models.GenerationStats
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected \"<generation> <mean>\", got %q", line, text)
		}
		gen, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid generation: %w", line, err)
		}
		mean, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid mean fitness: %w", line, err)
		}

		s := models.GenerationStats{
			Generation:  gen,
			MeanFitness: models.FitnessOf(mean),
			BestFitness: models.FailedFitness(),
		}
		if math.IsInf(mean, 1) {
			s.MeanFitness = models.FailedFitness()
		}
		stats = append(stats, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read mean fitness: %w", err)
	}
	return stats, nil
}

// WriteBest writes the candidate as a JSON object
func WriteBest(w io.Writer, c models.Candidate) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to write best candidate: %w", err)
	}
	return nil
}

// ReadBest reads the genome of a candidate written by WriteBest. All three
// genome fields are required; any result fields are ignored.
func ReadBest(r io.Reader) (models.Genome, error) {
	var doc struct {
		LaunchTime  *float64 `json:"launch_time"`
		Latitude    *float64 `json:"latitude"`
		LaunchSpeed *float64 `json:"launch_speed"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return models.Genome{}, fmt.Errorf("failed to decode best candidate: %w", err)
	}
	if doc.LaunchTime == nil || doc.Latitude == nil || doc.LaunchSpeed == nil {
		return models.Genome{}, fmt.Errorf("best candidate needs launch_time, latitude and launch_speed")
	}
	return models.Genome{
		LaunchTime:  *doc.LaunchTime,
		Latitude:    *doc.Latitude,
		LaunchSpeed: *doc.LaunchSpeed,
	}, nil
}

// WriteTrace writes the trace as compact JSON for external renderers
func WriteTrace(w io.Writer, tr *trajectory.Trace) error {
	if tr == nil {
		return fmt.Errorf("trace is required")
	}
	if err := json.NewEncoder(w).Encode(tr); err != nil {
		return fmt.Errorf("failed to write trace: %w", err)
	}
	return nil
}
