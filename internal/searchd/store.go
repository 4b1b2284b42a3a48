package searchd

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/launch-search/internal/evolution"
	"github.com/GoSim-25-26J-441/launch-search/pkg/config"
	"github.com/GoSim-25-26J-441/launch-search/pkg/models"
	"github.com/GoSim-25-26J-441/launch-search/pkg/utils"
)

// Status is the lifecycle state of a search
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transitions are possible
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

var (
	ErrSearchNotFound  = errors.New("search not found")
	ErrSearchExists    = errors.New("search already exists")
	ErrSearchTerminal  = errors.New("search is terminal")
	ErrSearchIDMissing = errors.New("search id is required")
	ErrInvalidConfig   = errors.New("invalid search config")
)

// SearchInput is what a client submits to create a search
type SearchInput struct {
	ConfigYAML  string `json:"config_yaml"`
	CallbackURL string `json:"callback_url,omitempty"`
}

// SearchRecord is the externally visible state of one search. Records
// returned by the store are copies.
type SearchRecord struct {
	ID              string                   `json:"id"`
	Status          Status                   `json:"status"`
	CreatedAtUnixMs int64                    `json:"created_at_unix_ms"`
	StartedAtUnixMs int64                    `json:"started_at_unix_ms,omitempty"`
	EndedAtUnixMs   int64                    `json:"ended_at_unix_ms,omitempty"`
	Error           string                   `json:"error,omitempty"`
	Seed            int64                    `json:"seed,omitempty"`
	Stats           []models.GenerationStats `json:"stats"`
	Best            *models.Candidate        `json:"best,omitempty"`
	ConfigYAML      string                   `json:"config_yaml"`
	CallbackURL     string                   `json:"callback_url,omitempty"`
}

type searchEntry struct {
	record SearchRecord
	cfg    *config.Config
}

// SearchStore keeps searches in memory in creation order
type SearchStore struct {
	mu       sync.RWMutex
	searches map[string]*searchEntry
	order    []string
}

func NewSearchStore() *SearchStore {
	return &SearchStore{
		searches: make(map[string]*searchEntry),
	}
}

func nowUnixMs() int64 {
	return time.Now().UTC().UnixMilli()
}

// Create validates the search document and stores a pending search. An
// empty id is replaced by a generated one.
func (s *SearchStore) Create(id string, input SearchInput) (SearchRecord, error) {
	cfg, err := config.ParseConfigYAMLString(input.ConfigYAML)
	if err != nil {
		return SearchRecord{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := evolution.NewEngine(cfg); err != nil {
		return SearchRecord{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = utils.GenerateSearchID()
	}
	if _, exists := s.searches[id]; exists {
		return SearchRecord{}, fmt.Errorf("%w: %s", ErrSearchExists, id)
	}

	entry := &searchEntry{
		record: SearchRecord{
			ID:              id,
			Status:          StatusPending,
			CreatedAtUnixMs: nowUnixMs(),
			Stats:           []models.GenerationStats{},
			ConfigYAML:      input.ConfigYAML,
			CallbackURL:     input.CallbackURL,
		},
		cfg: cfg,
	}
	s.searches[id] = entry
	s.order = append(s.order, id)
	return entry.copy(), nil
}

func (e *searchEntry) copy() SearchRecord {
	rec := e.record
	rec.Stats = append([]models.GenerationStats{}, e.record.Stats...)
	if e.record.Best != nil {
		best := *e.record.Best
		rec.Best = &best
	}
	return rec
}

// Get returns a copy of the search record
func (s *SearchStore) Get(id string) (SearchRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.searches[id]
	if !ok {
		return SearchRecord{}, false
	}
	return entry.copy(), true
}

// Config returns the validated configuration of a search
func (s *SearchStore) Config(id string) (*config.Config, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.searches[id]
	if !ok {
		return nil, false
	}
	return entry.cfg.Clone(), true
}

// List returns up to limit searches, oldest first, skipping offset records.
// An empty status matches every search.
func (s *SearchStore) List(limit, offset int, status Status) []SearchRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	out := make([]SearchRecord, 0, min(limit, len(s.order)))
	skipped := 0
	for _, id := range s.order {
		entry := s.searches[id]
		if status != "" && entry.record.Status != status {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, entry.copy())
		if len(out) >= limit {
			break
		}
	}
	return out
}

// SetStatus moves a search to status and stamps the matching timestamp
func (s *SearchStore) SetStatus(id string, status Status, errMsg string) (SearchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.searches[id]
	if !ok {
		return SearchRecord{}, fmt.Errorf("%w: %s", ErrSearchNotFound, id)
	}
	entry.setStatus(status, errMsg)
	return entry.copy(), nil
}

// CompareAndSetStatus moves a search to status to only if it is currently in
// status from. The returned record reflects the state after the call.
func (s *SearchStore) CompareAndSetStatus(id string, from, to Status, errMsg string) (SearchRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.searches[id]
	if !ok {
		return SearchRecord{}, false, fmt.Errorf("%w: %s", ErrSearchNotFound, id)
	}
	if entry.record.Status != from {
		return entry.copy(), false, nil
	}
	entry.setStatus(to, errMsg)
	return entry.copy(), true, nil
}

func (e *searchEntry) setStatus(status Status, errMsg string) {
	rec := &e.record
	rec.Status = status
	if errMsg != "" {
		rec.Error = errMsg
	}
	switch {
	case status == StatusRunning:
		if rec.StartedAtUnixMs == 0 {
			rec.StartedAtUnixMs = nowUnixMs()
		}
	case status.Terminal():
		rec.EndedAtUnixMs = nowUnixMs()
	}
}

// AppendStats records the statistics of one finished generation
func (s *SearchStore) AppendStats(id string, stats models.GenerationStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.searches[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSearchNotFound, id)
	}
	entry.record.Stats = append(entry.record.Stats, stats)
	return nil
}

// SetResult stores the best candidate of the final generation and the seed
// the search ran with
func (s *SearchStore) SetResult(id string, best models.Candidate, seed int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.searches[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSearchNotFound, id)
	}
	entry.record.Best = &best
	entry.record.Seed = seed
	return nil
}
