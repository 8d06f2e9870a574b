package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/alexholyk/sentiment-monitor/internal/domain/providers"
	"github.com/alexholyk/sentiment-monitor/internal/infrastructure/observability"
)

// SSEHandler streams monitor refresh hints to dashboard clients. Hints tell
// a client that the log grew; the client re-fetches the report itself, so a
// missed hint only delays the next poll.
type SSEHandler struct {
	eventBus providers.EventBus
	clients  atomic.Int64
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(eventBus providers.EventBus) *SSEHandler {
	return &SSEHandler{eventBus: eventBus}
}

// GetClientCount returns the number of connected stream clients.
func (h *SSEHandler) GetClientCount() int64 {
	return h.clients.Load()
}

// StreamMonitorUpdates handles GET /api/stream/monitor
func (h *SSEHandler) StreamMonitorUpdates(w http.ResponseWriter, r *http.Request) {
	if h.eventBus == nil {
		respondWithError(w, http.StatusServiceUnavailable, "streaming is not configured")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	eventChan, err := h.eventBus.Subscribe(r.Context(), providers.EventChannelMonitorUpdates)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("failed to subscribe to monitor updates")
		respondWithError(w, http.StatusInternalServerError, "failed to subscribe")
		return
	}

	h.clients.Add(1)
	defer h.clients.Add(-1)

	h.sendEvent(w, "connected", map[string]interface{}{
		"timestamp": time.Now().UTC(),
	})
	flusher.Flush()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now().UTC(),
			})
			flusher.Flush()
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			h.sendEvent(w, event.EventType, event)
			flusher.Flush()
		}
	}
}

func (h *SSEHandler) sendEvent(w http.ResponseWriter, eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, data)
}
