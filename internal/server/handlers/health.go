package handlers

import (
	"net/http"
	"time"

	"github.com/agentstation/attendmerge/internal/server/response"
)

// HandleHealth handles GET /health (liveness probe).
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "attendmerge-api",
		"version": "v1",
	})
}

// HandleReady handles GET /api/v1/ready. The server holds no state, so it is
// ready as soon as it is serving.
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":         "ready",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	})
}
