package handler

import (
	"net/http"
	"time"

	"github.com/Temutjin2k/carpool-admin/pkg/logger"
	wrap "github.com/Temutjin2k/carpool-admin/pkg/logger/wrapper"
)

type Health struct {
	service string
	started time.Time
	l       logger.Logger
}

func NewHealth(service string, l logger.Logger) *Health {
	return &Health{
		service: service,
		started: time.Now(),
		l:       l,
	}
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Liveness of the admin service. The CarPool backend is not contacted.
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /health [get]
func (h *Health) HealthCheck(w http.ResponseWriter, r *http.Request) {
	env := envelope{
		"status":  "available",
		"service": h.service,
		"uptime":  time.Since(h.started).Truncate(time.Second).String(),
	}

	if err := writeJSON(w, http.StatusOK, env, nil); err != nil {
		h.l.Error(wrap.WithAction(r.Context(), "health_check"), "failed to write health response", err)
	}
}
