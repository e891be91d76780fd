package payment

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/Temutjin2k/carpool-admin/internal/domain/models"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func decodePayments(t *testing.T, body string) []models.Payment {
	t.Helper()
	var out []models.Payment
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out
}

// fakeBackend is an in-memory CarPool backend.
type fakeBackend struct {
	mu sync.Mutex

	payments  []models.Payment
	listErr   error
	listCalls int
	listHook  func(call int)

	drivers    map[string]*models.Driver
	lookups    map[string]int
	lookupHook func(id string) error

	updates    []string
	bodies     map[string][]byte
	failUpdate map[string]error
	updateHook func(id string)
}

func newFakeBackend(payments []models.Payment) *fakeBackend {
	return &fakeBackend{
		payments:   append([]models.Payment(nil), payments...),
		drivers:    map[string]*models.Driver{},
		lookups:    map[string]int{},
		bodies:     map[string][]byte{},
		failUpdate: map[string]error{},
	}
}

func (f *fakeBackend) ListPayments(ctx context.Context) (*models.PaymentsResponse, error) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	hook := f.listHook
	f.mu.Unlock()

	if hook != nil {
		hook(call)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}

	out := &models.PaymentsResponse{Payments: append([]models.Payment(nil), f.payments...), Count: len(f.payments)}
	for _, p := range f.payments {
		if p.IsPaid {
			out.Paid++
		} else {
			out.NotPaid++
		}
	}
	return out, nil
}

func (f *fakeBackend) GetDriver(ctx context.Context, id string) (*models.Driver, error) {
	f.mu.Lock()
	f.lookups[id]++
	hook := f.lookupHook
	f.mu.Unlock()

	if hook != nil {
		if err := hook(id); err != nil {
			return nil, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.drivers[id]
	if !ok {
		return nil, errBoom
	}
	return d, nil
}

func (f *fakeBackend) UpdatePayment(ctx context.Context, id string, body []byte) error {
	f.mu.Lock()
	hook := f.updateHook
	f.mu.Unlock()

	if hook != nil {
		hook(id)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, id)
	if err := f.failUpdate[id]; err != nil {
		return err
	}
	f.bodies[id] = body

	for i, p := range f.payments {
		if p.ID == id {
			var updated models.Payment
			if err := json.Unmarshal(body, &updated); err != nil {
				return err
			}
			f.payments[i] = updated
		}
	}
	return nil
}

func (f *fakeBackend) updateCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.updates...)
}

func (f *fakeBackend) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.PaymentReconciledEvent
	err    error
}

func (p *fakePublisher) PublishPaymentReconciled(ctx context.Context, e models.PaymentReconciledEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}
