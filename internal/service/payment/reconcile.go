package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/Temutjin2k/carpool-admin/internal/domain/models"
	"github.com/Temutjin2k/carpool-admin/internal/domain/types"
	"github.com/Temutjin2k/carpool-admin/pkg/logger"
	wrap "github.com/Temutjin2k/carpool-admin/pkg/logger/wrapper"
	"github.com/Temutjin2k/carpool-admin/pkg/metrics"
)

// Reconciler marks a driver's pending payments as paid, one driver at a time.
type Reconciler struct {
	updater PaymentUpdater
	l       logger.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewReconciler(updater PaymentUpdater, l logger.Logger) *Reconciler {
	return &Reconciler{
		updater:  updater,
		l:        l,
		inFlight: make(map[string]struct{}),
	}
}

// InFlight reports whether a reconciliation for driverID is running.
func (r *Reconciler) InFlight(driverID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.inFlight[driverID]
	return ok
}

func (r *Reconciler) acquire(driverID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.inFlight[driverID]; ok {
		return false
	}
	r.inFlight[driverID] = struct{}{}
	return true
}

func (r *Reconciler) release(driverID string) {
	r.mu.Lock()
	delete(r.inFlight, driverID)
	r.mu.Unlock()
}

// MarkDriverPaid sends an update with isPaid=true for every unpaid payment, in
// order, stopping at the first failure. Updates already applied stay applied and
// the partial result is returned alongside ErrReconcileFailed. A call for a driver
// that is already being reconciled returns ErrReconcileInProgress at once.
func (r *Reconciler) MarkDriverPaid(ctx context.Context, driverID string, payments []models.Payment) (models.ReconcileResult, error) {
	const op = "Reconciler.MarkDriverPaid"
	ctx = wrap.WithAction(wrap.WithDriverID(ctx, driverID), types.ActionReconcile)

	result := models.ReconcileResult{DriverID: driverID, Updated: []string{}}

	if driverID == "" {
		return result, wrap.Error(ctx, fmt.Errorf("%s: %w", op, types.ErrEmptyDriverID))
	}

	if !r.acquire(driverID) {
		metrics.RecordReconciliation("rejected", 0)
		return result, wrap.Error(ctx, fmt.Errorf("%s: %w", op, types.ErrReconcileInProgress))
	}
	defer r.release(driverID)

	unpaid := make([]models.Payment, 0, len(payments))
	for _, p := range payments {
		if p.IsPaid {
			result.AlreadyPaid++
			continue
		}
		unpaid = append(unpaid, p)
	}
	result.Requested = len(unpaid)

	for _, p := range unpaid {
		if err := r.update(ctx, p); err != nil {
			result.FailedID = p.ID
			metrics.RecordReconciliation("failed", len(result.Updated))

			ctx = wrap.WithAction(wrap.ErrorCtx(ctx, err), types.ActionReconcileFailed)
			r.l.Error(ctx, "payment update failed, stopping reconciliation", err,
				"payment_id", p.ID,
				"updated", len(result.Updated),
				"requested", result.Requested,
			)
			return result, wrap.Error(ctx, fmt.Errorf("%s: payment %s: %w: %w", op, p.ID, types.ErrReconcileFailed, err))
		}
		result.Updated = append(result.Updated, p.ID)
	}

	metrics.RecordReconciliation("success", len(result.Updated))
	r.l.Info(ctx, "driver payments marked as paid", "updated", len(result.Updated))

	return result, nil
}

func (r *Reconciler) update(ctx context.Context, p models.Payment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := p.UpdateBody(true)
	if err != nil {
		return fmt.Errorf("encode payment: %w", err)
	}
	return r.updater.UpdatePayment(ctx, p.ID, body)
}
