package searchd

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/GoSim-25-26J-441/launch-search/pkg/logger"
	"github.com/GoSim-25-26J-441/launch-search/pkg/models"
)

// Stream event types
const (
	EventStatus     = "status"
	EventGeneration = "generation"
	EventComplete   = "complete"
)

// StreamEvent is one websocket message of /v1/searches/{id}/stream
type StreamEvent struct {
	Type   string                  `json:"type"`
	Status Status                  `json:"status,omitempty"`
	Stats  *models.GenerationStats `json:"stats,omitempty"`
	Search *SearchRecord           `json:"search,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const streamWriteTimeout = 5 * time.Second

// handleStream upgrades to a websocket and pushes status changes and one
// event per finished generation until the search is terminal or the client
// goes away.
func (s *HTTPServer) handleStream(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := s.store.Get(id); !ok {
		writeError(w, http.StatusNotFound, "search not found")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "search_id", id, "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		// Clients only send control frames; a read error means they left.
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(ev StreamEvent) bool {
		conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := conn.WriteJSON(ev); err != nil {
			logger.Debug("stream write failed", "search_id", id, "error", err)
			return false
		}
		return true
	}

	var lastStatus Status
	sent := 0
	ticker := time.NewTicker(s.StreamInterval)
	defer ticker.Stop()

	for {
		rec, ok := s.store.Get(id)
		if !ok {
			return
		}

		for ; sent < len(rec.Stats); sent++ {
			if !send(StreamEvent{Type: EventGeneration, Stats: &rec.Stats[sent]}) {
				return
			}
		}
		if rec.Status != lastStatus {
			if !send(StreamEvent{Type: EventStatus, Status: rec.Status}) {
				return
			}
			lastStatus = rec.Status
		}
		if rec.Status.Terminal() {
			send(StreamEvent{Type: EventComplete, Status: rec.Status, Search: &rec})
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "search finished"),
				time.Now().Add(streamWriteTimeout))
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
