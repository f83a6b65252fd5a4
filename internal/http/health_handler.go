package http

import (
	"log/slog"
	"net/http"

	"github.com/tuanvumaihuynh/warehouse/internal/storage/db"
)

type healthHandler struct {
	checker db.HealthChecker
	logger  *slog.Logger
}

func (h *healthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	healthy, err := h.checker.IsHealthy(r.Context())
	if err != nil || !healthy {
		h.logger.WarnContext(r.Context(), "health check failed", slog.Any("error", err))
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
