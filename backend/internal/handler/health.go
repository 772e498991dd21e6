package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/medina-starter/accounts/shared/api"
)

// Health is a liveness probe endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}

// Ready is a readiness probe endpoint.
// Returns 503 Service Unavailable if the store cannot be reached.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.health.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, api.HealthResponse{Status: "database unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}
