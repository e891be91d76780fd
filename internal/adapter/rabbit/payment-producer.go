package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Temutjin2k/carpool-admin/internal/domain/models"
	"github.com/Temutjin2k/carpool-admin/internal/domain/types"
	wrap "github.com/Temutjin2k/carpool-admin/pkg/logger/wrapper"
	"github.com/Temutjin2k/carpool-admin/pkg/metrics"
)

const serviceName = "carpool-admin"

// Publisher is the broker side used by the producers, implemented by pkg/rabbit.
type Publisher interface {
	Publish(ctx context.Context, exchange, key string, body []byte) error
}

type PaymentProducer struct {
	client   Publisher
	exchange string
	attempts int
	backoff  time.Duration
}

func NewPaymentProducer(client Publisher, exchange string) *PaymentProducer {
	if exchange == "" {
		exchange = types.AdminExchange
	}
	return &PaymentProducer{
		client:   client,
		exchange: exchange,
		attempts: 3,
		backoff:  200 * time.Millisecond,
	}
}

// PublishPaymentReconciled publishes to payment.reconciled.{driver_id}.
func (p *PaymentProducer) PublishPaymentReconciled(ctx context.Context, event models.PaymentReconciledEvent) (err error) {
	const op = "PaymentProducer.PublishPaymentReconciled"
	ctx = wrap.WithDriverID(ctx, event.DriverID)

	defer func() {
		metrics.RecordRabbitMQPublish(serviceName, p.exchange, err)
	}()

	body, err := json.Marshal(event)
	if err != nil {
		ctx = wrap.WithAction(ctx, "marshal_payment_reconciled")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to marshal message: %w", op, err))
	}

	key := fmt.Sprintf("%s.%s", types.RoutingPaymentReconciled, event.DriverID)

	if err := retry(ctx, p.attempts, p.backoff, func() error {
		return p.client.Publish(ctx, p.exchange, key, body)
	}); err != nil {
		ctx = wrap.WithAction(ctx, "publish_message")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to publish with context: %w", op, err))
	}

	return nil
}
