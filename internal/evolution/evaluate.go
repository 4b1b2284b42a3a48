package evolution

import (
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/GoSim-25-26J-441/launch-search/pkg/models"
)

// evaluate simulates every candidate on a bounded pool of goroutines. Each
// task writes only its own element, so the result order never depends on
// scheduling.
func (e *Engine) evaluate(population []models.Candidate) {
	p := pool.New().WithMaxGoroutines(e.workers)
	for i := range population {
		c := &population[i]
		p.Go(func() {
			start := time.Now()
			e.sim.Evaluate(c)
			if e.metrics != nil {
				e.metrics.RecordEvaluation(time.Since(start), c.Fitness.Failed)
			}
		})
	}
	p.Wait()
}
