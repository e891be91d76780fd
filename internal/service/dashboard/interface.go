package dashboard

import (
	"context"

	"github.com/Temutjin2k/carpool-admin/internal/domain/models"
)

type Backend interface {
	ListRides(ctx context.Context) (*models.RidesResponse, error)
	ListUsers(ctx context.Context) (*models.UsersSummary, error)
	ListPayments(ctx context.Context) (*models.PaymentsResponse, error)
}
