package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/underfoot/underfoot/internal/domain/providers"
)

// SSEHandler streams completed-search events to connected clients
type SSEHandler struct {
	eventBus providers.EventBus
}

func NewSSEHandler(eventBus providers.EventBus) *SSEHandler {
	return &SSEHandler{eventBus: eventBus}
}

// StreamSearchEvents handles GET /stream/searches
func (h *SSEHandler) StreamSearchEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, errorCodeInternal, "streaming not supported", uuid.New().String())
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, err := h.eventBus.Subscribe(r.Context(), providers.EventChannelSearchCompleted)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to subscribe to search events")
		respondWithError(w, http.StatusInternalServerError, errorCodeInternal, "subscription failed", uuid.New().String())
		return
	}
	defer h.eventBus.Unsubscribe(r.Context(), providers.EventChannelSearchCompleted)

	sendEvent(w, "connected", map[string]any{"timestamp": time.Now().UTC()})
	flusher.Flush()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			sendEvent(w, "heartbeat", map[string]any{"timestamp": time.Now().UTC()})
			flusher.Flush()
		case event, open := <-events:
			if !open {
				return
			}
			if event == nil {
				continue
			}
			sendEvent(w, "search_completed", event)
			flusher.Flush()
		}
	}
}

func sendEvent(w http.ResponseWriter, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, data)
}
