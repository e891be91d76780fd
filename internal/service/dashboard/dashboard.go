package dashboard

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/carpool-admin/internal/domain/models"
	"github.com/Temutjin2k/carpool-admin/internal/domain/types"
	"github.com/Temutjin2k/carpool-admin/pkg/logger"
	wrap "github.com/Temutjin2k/carpool-admin/pkg/logger/wrapper"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const recentRidesLimit = 4

type DashboardService struct {
	backend Backend
	l       logger.Logger
}

func NewDashboardService(backend Backend, l logger.Logger) *DashboardService {
	return &DashboardService{
		backend: backend,
		l:       l,
	}
}

// Overview fetches rides, users and payments concurrently and summarizes them.
// Any failed fetch fails the whole overview.
func (s *DashboardService) Overview(ctx context.Context) (*models.DashboardOverview, error) {
	const op = "DashboardService.Overview"
	ctx = wrap.WithAction(ctx, types.ActionDashboardOverview)

	var (
		rides    *models.RidesResponse
		users    *models.UsersSummary
		payments *models.PaymentsResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		rides, err = s.backend.ListRides(gctx)
		return err
	})
	g.Go(func() (err error) {
		users, err = s.backend.ListUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		payments, err = s.backend.ListPayments(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	overview := &models.DashboardOverview{
		Rides:       RideStats(rides.Rides),
		Users:       UserStats(users),
		Payments:    PaymentStats(payments),
		RecentRides: RecentRides(rides.Rides, recentRidesLimit),
	}

	s.l.Debug(ctx, "dashboard overview built",
		"rides", overview.Rides.Total,
		"users", overview.Users.Total,
		"payments", overview.Payments.Total,
	)

	return overview, nil
}

// RideStats counts rides by status. Revenue is the passengers' fares of completed rides.
func RideStats(rides []models.Ride) models.RideStats {
	stats := models.RideStats{Total: len(rides), Revenue: decimal.Zero}
	for _, r := range rides {
		switch {
		case r.Status == types.RideCompleted:
			stats.Completed++
			stats.Revenue = stats.Revenue.Add(r.Fare())
		case r.IsActive():
			stats.Active++
		case r.Status == types.RideCancelled:
			stats.Cancelled++
		}
	}
	return stats
}

func UserStats(u *models.UsersSummary) models.UserStats {
	return models.UserStats{
		Total:            u.Count,
		Drivers:          u.Drivers,
		Passengers:       u.Passengers,
		PendingApprovals: u.PendingApprovals(),
	}
}

// PaymentStats takes counts from the backend counters and sums amounts from the records.
func PaymentStats(p *models.PaymentsResponse) models.PaymentStats {
	stats := models.PaymentStats{
		Total:         p.Count,
		Paid:          p.Paid,
		Pending:       p.NotPaid,
		AmountPaid:    decimal.Zero,
		AmountPending: decimal.Zero,
	}
	for _, pay := range p.Payments {
		if pay.IsPaid {
			stats.AmountPaid = stats.AmountPaid.Add(pay.Amount.Decimal())
		} else {
			stats.AmountPending = stats.AmountPending.Add(pay.Amount.Decimal())
		}
	}
	return stats
}

// RecentRides summarizes the first n rides in backend order.
func RecentRides(rides []models.Ride, n int) []models.RecentRide {
	if len(rides) < n {
		n = len(rides)
	}
	out := make([]models.RecentRide, 0, n)
	for _, r := range rides[:n] {
		rr := models.RecentRide{
			ID:         r.ID,
			DriverID:   r.DriverID,
			From:       r.StartLocation,
			To:         r.EndLocation,
			Status:     statusLabel(r.Status),
			Passengers: len(r.Passengers),
			Fare:       r.Fare(),
			Date:       r.Date,
		}
		if r.Status == types.RideCancelled {
			rr.CancelReason = r.CancelReason
			if rr.CancelReason == "" {
				rr.CancelReason = "No reason provided"
			}
		}
		out = append(out, rr)
	}
	return out
}

func statusLabel(s types.RideStatus) string {
	switch s {
	case types.RideCompleted:
		return "Completed"
	case types.RideActive:
		return "Active"
	case types.RideStarted:
		return "In Progress"
	case types.RideCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}
