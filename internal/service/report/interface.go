package report

import (
	"context"

	"github.com/Temutjin2k/carpool-admin/internal/domain/models"
)

type Backend interface {
	AdminReport(ctx context.Context) (*models.AdminReport, error)
}

type PaymentLoader interface {
	Load(ctx context.Context) (*models.PaymentOverview, error)
}
