package handler

import (
	"net/http"

	"github.com/livemedia/linkgate/internal/infra/buildinfo"
)

// handleHealth reports process liveness.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: buildinfo.Version,
	})
}

// handleReady reports whether the storage backend is reachable.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Ready != nil {
		if err := h.cfg.Ready(r.Context()); err != nil {
			h.cfg.Logger.Warn("readiness check failed", "error", err)
			h.writeJSON(w, http.StatusServiceUnavailable, readyResponse{
				Status: "unavailable",
				Error:  err.Error(),
			})
			return
		}
	}
	h.writeJSON(w, http.StatusOK, readyResponse{Status: "ready"})
}
