package searchd

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/GoSim-25-26J-441/launch-search/internal/evolution"
	"github.com/GoSim-25-26J-441/launch-search/internal/metrics"
	"github.com/GoSim-25-26J-441/launch-search/pkg/logger"
	"github.com/GoSim-25-26J-441/launch-search/pkg/models"
)

// SearchExecutor runs searches asynchronously and handles per-search cancellation.
type SearchExecutor struct {
	store    *SearchStore
	metrics  *metrics.Collector
	notifier *Notifier

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	done    map[string]chan struct{}
}

// NewSearchExecutor creates an executor. A nil collector disables metrics
// and a nil notifier disables callbacks.
func NewSearchExecutor(store *SearchStore, collector *metrics.Collector, notifier *Notifier) *SearchExecutor {
	return &SearchExecutor{
		store:    store,
		metrics:  collector,
		notifier: notifier,
		cancels:  make(map[string]context.CancelFunc),
		done:     make(map[string]chan struct{}),
	}
}

// Start begins executing a search asynchronously and returns the running
// record. Starting a running search is a no-op.
func (e *SearchExecutor) Start(id string) (SearchRecord, error) {
	if id == "" {
		return SearchRecord{}, ErrSearchIDMissing
	}

	rec, ok := e.store.Get(id)
	if !ok {
		return SearchRecord{}, fmt.Errorf("%w: %s", ErrSearchNotFound, id)
	}
	if rec.Status == StatusRunning {
		return rec, nil
	}
	if rec.Status.Terminal() {
		return SearchRecord{}, fmt.Errorf("%w: %s", ErrSearchTerminal, id)
	}

	updated, swapped, err := e.store.CompareAndSetStatus(id, StatusPending, StatusRunning, "")
	if err != nil {
		return SearchRecord{}, err
	}
	if !swapped {
		// lost a race with another Start or Stop
		if updated.Status.Terminal() {
			return SearchRecord{}, fmt.Errorf("%w: %s", ErrSearchTerminal, id)
		}
		return updated, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	e.mu.Lock()
	e.cancels[id] = cancel
	e.done[id] = done
	e.mu.Unlock()

	go e.runSearch(ctx, id, done)
	return updated, nil
}

// Stop cancels a pending or running search and marks it cancelled
func (e *SearchExecutor) Stop(id string) (SearchRecord, error) {
	if id == "" {
		return SearchRecord{}, ErrSearchIDMissing
	}

	rec, ok := e.store.Get(id)
	if !ok {
		return SearchRecord{}, fmt.Errorf("%w: %s", ErrSearchNotFound, id)
	}
	if rec.Status.Terminal() {
		return rec, nil
	}

	e.mu.Lock()
	cancel, ok := e.cancels[id]
	e.mu.Unlock()
	if ok {
		cancel()
	}

	updated, swapped, err := e.store.CompareAndSetStatus(id, rec.Status, StatusCancelled, "")
	if err != nil {
		return SearchRecord{}, err
	}
	if swapped {
		logger.Info("search cancelled", "search_id", id)
		if e.metrics != nil {
			e.metrics.RecordSearch(metrics.StatusCancelled)
		}
		e.notify(updated)
	}
	return updated, nil
}

// Wait blocks until the search started by Start has finished or ctx is done.
// Searches that were never started return immediately.
func (e *SearchExecutor) Wait(ctx context.Context, id string) error {
	e.mu.Lock()
	done, ok := e.done[id]
	e.mu.Unlock()
	if !ok {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *SearchExecutor) cleanup(id string) {
	e.mu.Lock()
	if cancel, ok := e.cancels[id]; ok {
		cancel()
		delete(e.cancels, id)
	}
	e.mu.Unlock()
}

func (e *SearchExecutor) runSearch(ctx context.Context, id string, done chan struct{}) {
	defer close(done)
	defer e.cleanup(id)

	cfg, ok := e.store.Config(id)
	if !ok {
		logger.Error("search not found", "search_id", id)
		return
	}

	opts := []evolution.Option{
		evolution.WithProgressReporter(func(stats models.GenerationStats) {
			if err := e.store.AppendStats(id, stats); err != nil {
				logger.Error("failed to append generation stats", "search_id", id, "error", err)
			}
		}),
	}
	if e.metrics != nil {
		opts = append(opts, evolution.WithMetrics(e.metrics))
	}

	eng, err := evolution.NewEngine(cfg, opts...)
	if err != nil {
		e.fail(id, fmt.Sprintf("invalid search config: %v", err))
		return
	}

	logger.Info("starting search", "search_id", id,
		"population_size", cfg.Algorithm.PopulationSize,
		"generations", cfg.Algorithm.Generations)
	history, err := eng.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("search interrupted", "search_id", id, "generations", len(history))
			return
		}
		e.fail(id, err.Error())
		return
	}

	final, _ := history.Final()
	if best, ok := final.Best(); ok {
		if err := e.store.SetResult(id, best, eng.Seed()); err != nil {
			logger.Error("failed to store result", "search_id", id, "error", err)
		}
	}

	rec, swapped, err := e.store.CompareAndSetStatus(id, StatusRunning, StatusCompleted, "")
	if err != nil {
		logger.Error("failed to set completed status", "search_id", id, "error", err)
		return
	}
	if swapped {
		logger.Info("search completed", "search_id", id, "generations", len(history))
		if e.metrics != nil {
			e.metrics.RecordSearch(metrics.StatusCompleted)
		}
		e.notify(rec)
	}
}

func (e *SearchExecutor) fail(id, msg string) {
	logger.Error("search failed", "search_id", id, "error", msg)
	rec, swapped, err := e.store.CompareAndSetStatus(id, StatusRunning, StatusFailed, msg)
	if err != nil {
		logger.Error("failed to set failed status", "search_id", id, "error", err)
		return
	}
	if swapped {
		if e.metrics != nil {
			e.metrics.RecordSearch(metrics.StatusFailed)
		}
		e.notify(rec)
	}
}

func (e *SearchExecutor) notify(rec SearchRecord) {
	if e.notifier != nil && rec.CallbackURL != "" {
		e.notifier.Notify(rec.CallbackURL, rec)
	}
}
