package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/sse"
)

const streamKeepalive = 30 * time.Second

type StreamHandler interface {
	Stream(w http.ResponseWriter, r *http.Request)
}

type streamHandlerImpl struct {
	hub       *sse.Hub
	keepalive time.Duration
}

func NewStreamHandler(hub *sse.Hub) StreamHandler {
	return &streamHandlerImpl{hub: hub, keepalive: streamKeepalive}
}

// accessTokenFromQuery lets EventSource clients, which cannot set headers, pass ?token=.
func accessTokenFromQuery(r *http.Request) string {
	return r.URL.Query().Get("token")
}

// Stream pushes session updates for the caller and, for managers, their agents.
func (h *streamHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, unsubscribe := h.hub.Subscribe(actor.ID)
	defer unsubscribe()

	writeEvent(w, "connected", map[string]string{"status": "connected", "user_id": actor.ID})
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(w, event.Name, event.Data); err != nil {
				slog.Warn("Dropping stream event", "event", event.Name, "error", err)
				continue
			}
			flusher.Flush()

		case <-keepalive.C:
			writeEvent(w, "ping", map[string]int64{"timestamp": time.Now().Unix()})
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload)
	return err
}
