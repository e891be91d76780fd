package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Temutjin2k/carpool-admin/internal/domain/models"
	"github.com/Temutjin2k/carpool-admin/internal/domain/types"
	"github.com/Temutjin2k/carpool-admin/pkg/logger"
	wrap "github.com/Temutjin2k/carpool-admin/pkg/logger/wrapper"
	"github.com/Temutjin2k/carpool-admin/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentService owns the payment view: the latest snapshot, the load generation
// and the reconciler with its in-flight set. Snapshots are rebuilt from scratch on
// every load.
type PaymentService struct {
	backend    Backend
	resolver   *Resolver
	reconciler *Reconciler
	publisher  EventPublisher
	loc        *time.Location
	l          logger.Logger

	generation atomic.Uint64

	mu       sync.RWMutex
	snapshot *models.PaymentOverview
	applied  uint64
	closed   bool
}

type Option func(*PaymentService)

// WithPublisher publishes an event after every successful reconciliation.
func WithPublisher(p EventPublisher) Option {
	return func(s *PaymentService) {
		s.publisher = p
	}
}

// WithCalendar sets the location used for monthly bucketing.
func WithCalendar(loc *time.Location) Option {
	return func(s *PaymentService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithResolverConcurrency bounds the number of concurrent driver lookups.
func WithResolverConcurrency(n int) Option {
	return func(s *PaymentService) {
		s.resolver.limit = n
	}
}

func NewPaymentService(backend Backend, l logger.Logger, opts ...Option) *PaymentService {
	s := &PaymentService{
		backend:    backend,
		resolver:   NewResolver(backend, 0, l),
		reconciler: NewReconciler(backend, l),
		loc:        time.UTC,
		l:          l,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches all payments, resolves their drivers and rebuilds the snapshot.
// A load finishing after a newer load was applied, or after Close, is discarded
// with ErrStaleLoad. A newer load that failed does not invalidate older ones.
func (s *PaymentService) Load(ctx context.Context) (*models.PaymentOverview, error) {
	const op = "PaymentService.Load"
	ctx = wrap.WithAction(ctx, types.ActionPaymentsLoad)

	gen := s.generation.Add(1)

	resp, err := s.backend.ListPayments(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	drivers := s.resolver.Resolve(ctx, resp.Payments)
	groups, unresolved := GroupByDriver(resp.Payments, drivers)
	monthly, undated := BucketByMonth(resp.Payments, WithLocation(s.loc))

	overview := &models.PaymentOverview{
		Groups:     groups,
		Monthly:    monthly,
		Unresolved: unresolved,
		Undated:    undated,
		Count:      resp.Count,
		PaidCount:  resp.Paid,
		NotPaid:    resp.NotPaid,
		Generation: gen,
		LoadedAt:   time.Now().UTC(),
		Payments:   resp.Payments,
	}
	if overview.Undated == nil {
		overview.Undated = []string{}
	}

	s.mu.Lock()
	if s.closed || gen < s.applied {
		s.mu.Unlock()
		metrics.StaleLoadsDiscarded.Inc()
		s.l.Debug(ctx, "discarding superseded payment load", "generation", gen)
		return nil, fmt.Errorf("%s: %w", op, types.ErrStaleLoad)
	}
	s.snapshot = overview
	s.applied = gen
	s.mu.Unlock()

	s.report(ctx, overview)

	return overview, nil
}

func (s *PaymentService) report(ctx context.Context, o *models.PaymentOverview) {
	pending := decimal.Zero
	for _, g := range o.Groups.All() {
		pending = pending.Add(g.PendingAmount)
	}
	metrics.PaymentsLoaded.Set(float64(len(o.Payments)))
	metrics.PendingAmount.Set(pending.InexactFloat64())

	if len(o.Undated) > 0 {
		s.l.Debug(wrap.WithAction(ctx, types.ActionPaymentSkipped), "payments left out of monthly revenue", "payment_ids", o.Undated)
	}
	if o.Unresolved > 0 {
		s.l.Warn(ctx, "payments without a driver reference", "count", o.Unresolved)
	}
	s.l.Info(ctx, "payments loaded",
		"payments", len(o.Payments),
		"drivers", o.Groups.Len(),
		"generation", o.Generation,
	)
}

// Snapshot returns the last applied snapshot.
func (s *PaymentService) Snapshot() (*models.PaymentOverview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, types.ErrNoSnapshot
	}
	return s.snapshot, nil
}

// current returns the snapshot, loading one first when none exists.
func (s *PaymentService) current(ctx context.Context) (*models.PaymentOverview, error) {
	snap, err := s.Snapshot()
	if err == nil {
		return snap, nil
	}
	snap, err = s.Load(ctx)
	if errors.Is(err, types.ErrStaleLoad) {
		// a newer load has already been applied
		return s.Snapshot()
	}
	return snap, err
}

// DriverGroup returns one driver's group from the current snapshot.
func (s *PaymentService) DriverGroup(ctx context.Context, driverID string) (*models.DriverPaymentGroup, error) {
	const op = "PaymentService.DriverGroup"

	snap, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	g, ok := snap.Groups.Get(driverID)
	if !ok {
		return nil, wrap.Error(wrap.WithDriverID(ctx, driverID), fmt.Errorf("%s: %w", op, types.ErrDriverNotFound))
	}
	return g, nil
}

// Monthly buckets the current snapshot's payments; year 0 keeps every year.
func (s *PaymentService) Monthly(ctx context.Context, year int) (models.MonthlyRevenue, []string, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return models.MonthlyRevenue{}, nil, err
	}

	opts := []BucketOption{WithLocation(s.loc)}
	if year != 0 {
		opts = append(opts, WithYear(year))
	}
	monthly, skipped := BucketByMonth(snap.Payments, opts...)
	return monthly, skipped, nil
}

// MarkDriverPaid reconciles the driver's group from the current snapshot. After a
// complete run an event is published and the snapshot is reloaded from the backend;
// a failed run leaves the snapshot as it was.
func (s *PaymentService) MarkDriverPaid(ctx context.Context, driverID string) (models.ReconcileResult, error) {
	ctx = wrap.WithDriverID(ctx, driverID)

	group, err := s.DriverGroup(ctx, driverID)
	if err != nil {
		return models.ReconcileResult{DriverID: driverID, Updated: []string{}}, err
	}

	result, err := s.reconciler.MarkDriverPaid(ctx, driverID, group.Payments)
	if err != nil {
		return result, err
	}

	if len(result.Updated) > 0 {
		s.publish(ctx, group, result)
	}

	if _, err := s.Load(ctx); err != nil && !errors.Is(err, types.ErrStaleLoad) {
		s.l.Error(wrap.ErrorCtx(ctx, err), "failed to reload payments after reconciliation", err)
	}

	return result, nil
}

func (s *PaymentService) publish(ctx context.Context, group *models.DriverPaymentGroup, result models.ReconcileResult) {
	if s.publisher == nil {
		return
	}

	updated := make(map[string]struct{}, len(result.Updated))
	for _, id := range result.Updated {
		updated[id] = struct{}{}
	}
	amount := decimal.Zero
	for _, p := range group.Unpaid() {
		if _, ok := updated[p.ID]; ok {
			amount = amount.Add(p.Amount.Decimal())
		}
	}

	event := models.PaymentReconciledEvent{
		EventID:    uuid.NewString(),
		DriverID:   result.DriverID,
		PaymentIDs: result.Updated,
		Amount:     amount.String(),
		Timestamp:  time.Now().UTC(),
	}

	if err := s.publisher.PublishPaymentReconciled(ctx, event); err != nil {
		s.l.Error(wrap.ErrorCtx(ctx, err), "failed to publish reconciliation event", err)
		return
	}
	s.l.Debug(wrap.WithAction(ctx, types.ActionReconcilePublished), "reconciliation event published", "event_id", event.EventID)
}

// InFlight reports whether driverID is currently being reconciled.
func (s *PaymentService) InFlight(driverID string) bool {
	return s.reconciler.InFlight(driverID)
}

// Close invalidates every load still running. Their results are discarded.
func (s *PaymentService) Close() {
	s.mu.Lock()
	s.closed = true
	s.generation.Add(1)
	s.mu.Unlock()
}
