package payment

import (
	"context"

	"github.com/Temutjin2k/carpool-admin/internal/domain/models"
)

type DriverLookup interface {
	GetDriver(ctx context.Context, id string) (*models.Driver, error)
}

type PaymentUpdater interface {
	UpdatePayment(ctx context.Context, id string, body []byte) error
}

type Backend interface {
	DriverLookup
	PaymentUpdater
	ListPayments(ctx context.Context) (*models.PaymentsResponse, error)
}

type EventPublisher interface {
	PublishPaymentReconciled(ctx context.Context, event models.PaymentReconciledEvent) error
}
