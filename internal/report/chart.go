package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/GoSim-25-26J-441/launch-search/pkg/models"
)

// FitnessChart builds a bar chart of the mean fitness per generation with the
// best fitness drawn as a line. Generations without a finite value are drawn
// as empty bars and left out of the line.
func FitnessChart(stats []models.GenerationStats) (*plot.Plot, error) {
	if len(stats) == 0 {
		return nil, fmt.Errorf("no generations to chart")
	}

	p := plot.New()
	p.Title.Text = "Fitness per generation"
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Fitness"

	means := make(plotter.Values, len(stats))
	best := make(plotter.XYs, 0, len(stats))
	for i, s := range stats {
		if !s.MeanFitness.Failed {
			means[i] = s.MeanFitness.Value
		}
		if !s.BestFitness.Failed {
			best = append(best, plotter.XY{X: float64(i), Y: s.BestFitness.Value})
		}
	}

	bars, err := plotter.NewBarChart(means, vg.Points(12))
	if err != nil {
		return nil, fmt.Errorf("failed to build mean fitness bars: %w", err)
	}
	p.Add(bars)
	p.Legend.Add("mean", bars)

	if len(best) > 0 {
		line, err := plotter.NewLine(best)
		if err != nil {
			return nil, fmt.Errorf("failed to build best fitness line: %w", err)
		}
		p.Add(line)
		p.Legend.Add("best", line)
	}
	p.Legend.Top = true
	return p, nil
}

// WriteFitnessChart renders FitnessChart to path; the format follows the
// file extension (png, svg, pdf).
func WriteFitnessChart(path string, stats []models.GenerationStats) error {
	p, err := FitnessChart(stats)
	if err != nil {
		return err
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save chart %s: %w", path, err)
	}
	return nil
}
