package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ms-tours/internal/logger"
)

const defaultHeartbeat = 30 * time.Second

type connectedFrame struct {
	Status string `json:"status"`
	Entity string `json:"entity"`
}

// Handler streams activity events to the dashboard.
type Handler struct {
	Emitter   *ActivityEmitter
	Logger    *logger.Logger
	Heartbeat time.Duration
}

func NewHandler(emitter *ActivityEmitter, log *logger.Logger) *Handler {
	return &Handler{Emitter: emitter, Logger: log, Heartbeat: defaultHeartbeat}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/activity/stream", h.StreamActivity)
}

func setupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

// StreamActivity serves GET /activity/stream?entity=
func (h *Handler) StreamActivity(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// streams outlive the server write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	entity := r.URL.Query().Get("entity")
	ctx := r.Context()
	events := h.Emitter.Subscribe(ctx, entity)

	setupSSEHeaders(w)
	hello, _ := json.Marshal(connectedFrame{Status: "connected", Entity: entity})
	fmt.Fprintf(w, "event: connected\ndata: %s\n\n", hello)
	flusher.Flush()
	h.Logger.Info("SSE", fmt.Sprintf("Client connected to activity stream (entity=%q)", entity))

	heartbeat := time.NewTicker(h.Heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			jsonData, err := json.Marshal(event)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize activity event: %v", err))
				continue
			}
			fmt.Fprintf(w, "id: %s\nevent: activity\ndata: %s\n\n", event.ID, jsonData)
			flusher.Flush()

		case <-heartbeat.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()

		case <-ctx.Done():
			h.Logger.Debug("SSE", "Client disconnected from activity stream")
			return
		}
	}
}
