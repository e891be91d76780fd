package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Temutjin2k/carpool-admin/internal/domain/models"
	"github.com/Temutjin2k/carpool-admin/internal/domain/types"
	"github.com/Temutjin2k/carpool-admin/pkg/logger"
	wrap "github.com/Temutjin2k/carpool-admin/pkg/logger/wrapper"
	"github.com/Temutjin2k/carpool-admin/pkg/validator"
)

type PaymentService interface {
	Load(ctx context.Context) (*models.PaymentOverview, error)
	Snapshot() (*models.PaymentOverview, error)
	DriverGroup(ctx context.Context, driverID string) (*models.DriverPaymentGroup, error)
	Monthly(ctx context.Context, year int) (models.MonthlyRevenue, []string, error)
	MarkDriverPaid(ctx context.Context, driverID string) (models.ReconcileResult, error)
}

type Payment struct {
	s PaymentService
	l logger.Logger
}

func NewPayment(s PaymentService, l logger.Logger) *Payment {
	return &Payment{
		s: s,
		l: l,
	}
}

// GetPayments godoc
// @Summary      Payment overview
// @Description  Reloads every payment from the backend and returns them grouped by driver with the monthly revenue
// @Tags         Payments
// @Produce      json
// @Success      200  {object}  models.PaymentOverview
// @Failure      502  {object}  map[string]string
// @Router       /admin/payments [get]
func (h *Payment) GetPayments(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_get_payments")

	overview, err := h.s.Load(ctx)
	if errors.Is(err, types.ErrStaleLoad) {
		// a concurrent load won, serve what it applied
		overview, err = h.s.Snapshot()
	}
	if err != nil {
		h.fail(ctx, w, "failed to load payments", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, overview, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// GetMonthly godoc
// @Summary      Monthly revenue
// @Description  Twelve monthly buckets of payment amounts. Without year every year is summed into the same buckets.
// @Tags         Payments
// @Produce      json
// @Param        year  query  int  false  "calendar year"
// @Success      200  {object}  map[string]any
// @Failure      422  {object}  map[string]any
// @Router       /admin/payments/monthly [get]
func (h *Payment) GetMonthly(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_get_monthly_revenue")

	v := validator.New()
	year := readInt(r.URL.Query(), "year", 0, v)
	v.Check(year == 0 || (year >= 1970 && year <= 9999), "year", "must be between 1970 and 9999")

	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	monthly, skipped, err := h.s.Monthly(ctx, year)
	if err != nil {
		h.fail(ctx, w, "failed to bucket payments", err)
		return
	}
	if skipped == nil {
		skipped = []string{}
	}

	env := envelope{
		"monthly": monthly,
		"total":   monthly.Total(),
		"skipped": skipped,
	}
	if year != 0 {
		env["year"] = year
	}

	if err := writeJSON(w, http.StatusOK, env, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// GetDriverPayments godoc
// @Summary      Driver payments
// @Description  One driver's payment group from the current snapshot
// @Tags         Payments
// @Produce      json
// @Param        driver_id  path  string  true  "driver id"
// @Success      200  {object}  models.DriverPaymentGroup
// @Failure      404  {object}  map[string]string
// @Router       /admin/payments/drivers/{driver_id} [get]
func (h *Payment) GetDriverPayments(w http.ResponseWriter, r *http.Request) {
	driverID := r.PathValue("driver_id")
	ctx := wrap.WithAction(wrap.WithDriverID(r.Context(), driverID), "admin_get_driver_payments")

	group, err := h.s.DriverGroup(ctx, driverID)
	if err != nil {
		h.fail(ctx, w, "failed to get driver payments", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, group, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// MarkDriverPaid godoc
// @Summary      Mark a driver's payments as paid
// @Description  Updates every pending payment of the driver one by one and reloads the overview. A failure stops the run; updates already applied are kept and listed in the response.
// @Tags         Payments
// @Produce      json
// @Param        driver_id  path  string  true  "driver id"
// @Success      200  {object}  models.ReconcileResult
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]any
// @Router       /admin/payments/drivers/{driver_id}/mark-paid [post]
func (h *Payment) MarkDriverPaid(w http.ResponseWriter, r *http.Request) {
	driverID := r.PathValue("driver_id")
	ctx := wrap.WithAction(wrap.WithDriverID(r.Context(), driverID), "admin_mark_driver_paid")

	start := time.Now()
	result, err := h.s.MarkDriverPaid(ctx, driverID)
	if err != nil {
		code := GetCode(err)
		if code >= http.StatusInternalServerError {
			h.l.Error(wrap.ErrorCtx(ctx, err), "failed to mark driver payments as paid", err)
		} else {
			h.l.Warn(ctx, "mark driver payments as paid rejected", "error", err.Error())
		}

		env := envelope{"error": errorMessage(code, err)}
		if errors.Is(err, types.ErrReconcileFailed) {
			env["error"] = "not every payment could be marked as paid"
			env["result"] = result
		}
		if err := writeJSON(w, code, env, nil); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	h.l.Info(ctx, "driver payments marked as paid", "updated", len(result.Updated), "duration", time.Since(start).String())

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (h *Payment) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	code := GetCode(err)
	if code >= http.StatusInternalServerError {
		h.l.Error(wrap.ErrorCtx(ctx, err), msg, err)
	} else {
		h.l.Debug(ctx, msg, "error", err.Error())
	}
	errorResponse(w, code, errorMessage(code, err))
}
