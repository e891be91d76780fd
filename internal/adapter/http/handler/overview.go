package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/carpool-admin/internal/domain/models"
	"github.com/Temutjin2k/carpool-admin/pkg/logger"
	wrap "github.com/Temutjin2k/carpool-admin/pkg/logger/wrapper"
)

type DashboardService interface {
	Overview(ctx context.Context) (*models.DashboardOverview, error)
}

type Overview struct {
	s DashboardService
	l logger.Logger
}

func NewOverview(s DashboardService, l logger.Logger) *Overview {
	return &Overview{
		s: s,
		l: l,
	}
}

// GetOverview godoc
// @Summary      Dashboard overview
// @Description  Ride, user and payment counters with the most recent rides
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  models.DashboardOverview
// @Failure      502  {object}  map[string]string
// @Router       /admin/overview [get]
func (h *Overview) GetOverview(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_get_overview")

	overview, err := h.s.Overview(ctx)
	if err != nil {
		code := GetCode(err)
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to build dashboard overview", err)
		errorResponse(w, code, errorMessage(code, err))
		return
	}

	if err := writeJSON(w, http.StatusOK, overview, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}
