package searchd

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/launch-search/internal/metrics"
	"github.com/GoSim-25-26J-441/launch-search/pkg/logger"
)

// HTTPServer exposes the search API over JSON/HTTP
type HTTPServer struct {
	mux      *http.ServeMux
	store    *SearchStore
	Executor *SearchExecutor
	limiter  *IPRateLimiter

	// StreamInterval is how often /stream polls the store
	StreamInterval time.Duration
}

// HTTPOption configures an HTTPServer
type HTTPOption func(*HTTPServer)

// WithRateLimiter applies per-client rate limiting to every route
func WithRateLimiter(l *IPRateLimiter) HTTPOption {
	return func(s *HTTPServer) {
		s.limiter = l
	}
}

// WithMetricsHandler serves the collector on /metrics
func WithMetricsHandler(c *metrics.Collector) HTTPOption {
	return func(s *HTTPServer) {
		if c != nil {
			s.mux.Handle("/metrics", c.Handler())
		}
	}
}

func NewHTTPServer(store *SearchStore, executor *SearchExecutor, opts ...HTTPOption) *HTTPServer {
	s := &HTTPServer{
		mux:            http.NewServeMux(),
		store:          store,
		Executor:       executor,
		StreamInterval: 500 * time.Millisecond,
	}

	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/v1/searches", s.handleSearches)
	s.mux.HandleFunc("/v1/searches/", s.handleSearchByID)

	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPServer) Handler() http.Handler {
	if s.limiter != nil {
		return s.limiter.Middleware(s.mux)
	}
	return s.mux
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleSearches handles /v1/searches
func (s *HTTPServer) handleSearches(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSearch(w, r)
	case http.MethodGet:
		s.handleListSearches(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleSearchByID handles /v1/searches/{id} and its actions:
// {id}:start, {id}:stop, {id}/stats and {id}/stream
func (s *HTTPServer) handleSearchByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/searches/")
	if path == "" {
		writeError(w, http.StatusBadRequest, "search ID is required")
		return
	}

	route := func(suffix, method string, h func(http.ResponseWriter, *http.Request, string)) bool {
		if !strings.HasSuffix(path, suffix) {
			return false
		}
		if r.Method != method {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return true
		}
		h(w, r, strings.TrimSuffix(path, suffix))
		return true
	}

	switch {
	case route(":start", http.MethodPost, s.handleStartSearch):
	case route(":stop", http.MethodPost, s.handleStopSearch):
	case route("/stats", http.MethodGet, s.handleGetStats):
	case route("/stream", http.MethodGet, s.handleStream):
	case strings.Contains(path, "/"):
		writeError(w, http.StatusNotFound, "not found")
	case r.Method == http.MethodGet:
		s.handleGetSearch(w, r, path)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleCreateSearch handles POST /v1/searches
func (s *HTTPServer) handleCreateSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id,omitempty"`
		SearchInput
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.ConfigYAML == "" {
		writeError(w, http.StatusBadRequest, "config_yaml is required")
		return
	}

	rec, err := s.store.Create(req.ID, req.SearchInput)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	logger.Info("search created (HTTP)", "search_id", rec.ID)
	writeJSON(w, http.StatusCreated, map[string]any{"search": rec})
}

// handleListSearches handles GET /v1/searches?limit=&offset=&status=
func (s *HTTPServer) handleListSearches(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 50
	if parsed, err := strconv.Atoi(q.Get("limit")); err == nil && parsed > 0 {
		limit = min(parsed, 1000)
	}
	offset := 0
	if parsed, err := strconv.Atoi(q.Get("offset")); err == nil && parsed >= 0 {
		offset = parsed
	}

	searches := s.store.List(limit, offset, Status(q.Get("status")))
	writeJSON(w, http.StatusOK, map[string]any{
		"searches": searches,
		"limit":    limit,
		"offset":   offset,
	})
}

func (s *HTTPServer) handleGetSearch(w http.ResponseWriter, _ *http.Request, id string) {
	rec, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "search not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"search": rec})
}

func (s *HTTPServer) handleStartSearch(w http.ResponseWriter, _ *http.Request, id string) {
	rec, err := s.Executor.Start(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	logger.Info("search started (HTTP)", "search_id", id)
	writeJSON(w, http.StatusOK, map[string]any{"search": rec})
}

func (s *HTTPServer) handleStopSearch(w http.ResponseWriter, _ *http.Request, id string) {
	rec, err := s.Executor.Stop(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"search": rec})
}

// handleGetStats handles GET /v1/searches/{id}/stats
func (s *HTTPServer) handleGetStats(w http.ResponseWriter, _ *http.Request, id string) {
	rec, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "search not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"search_id": rec.ID,
		"status":    rec.Status,
		"stats":     rec.Stats,
		"best":      rec.Best,
	})
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSearchNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSearchExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrSearchTerminal):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrSearchIDMissing):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"error": message,
	})
}
