package searchd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/launch-search/pkg/utils"
)

func fastBackoff() utils.BackoffStrategy {
	return utils.NewExponentialBackoff(time.Millisecond, 5*time.Millisecond, 2, nil)
}

func TestNotifierRetriesUntilSuccess(t *testing.T) {
	var attempts int32
	paths := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		paths <- r.URL.Path
		var p NotificationPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.Search.ID != "s-1" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNotifier(3, fastBackoff())
	err := n.Send(context.Background(), srv.URL+"/hooks/{search_id}", SearchRecord{ID: "s-1", Status: StatusCompleted})
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
	if got := <-paths; got != "/hooks/s-1" {
		t.Errorf("expected templated path, got %s", got)
	}
}

func TestNotifierGivesUp(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewNotifier(2, fastBackoff())
	if err := n.Send(context.Background(), srv.URL, SearchRecord{ID: "s-2"}); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestNotifierHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewNotifier(5, utils.NewExponentialBackoff(time.Hour, time.Hour, 2, nil))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := n.Send(ctx, srv.URL, SearchRecord{ID: "s-3"}); err == nil {
		t.Fatal("expected context error")
	}
}

func TestNotifyWithoutURLIsNoop(t *testing.T) {
	NewNotifier(0, nil).Notify("", SearchRecord{ID: "s-4"})
}
