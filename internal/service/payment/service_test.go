package payment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Temutjin2k/carpool-admin/internal/domain/models"
	"github.com/Temutjin2k/carpool-admin/internal/domain/types"
	"github.com/Temutjin2k/carpool-admin/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const servicePayments = `[
	{"id":"p1","amount":"100","driverRef":"d1","isPaid":false,"createdAt":"[1700000000,0.5]"},
	{"id":"p2","amount":"50","driverRef":"d1","isPaid":true,"createdAt":"2024-11-02"},
	{"id":"p3","amount":"30","driver":{"id":"d2","firstName":"Alex"},"isPaid":false,"createdAt":[1704067200]},
	{"id":"p4","amount":"5","isPaid":false}
]`

func newTestService(t *testing.T, opts ...Option) (*PaymentService, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend(decodePayments(t, servicePayments))
	backend.drivers["d1"] = &models.Driver{ID: "d1", FirstName: "Noah", LastName: "Fedel"}
	return NewPaymentService(backend, logger.Nop(), opts...), backend
}

func TestPaymentService_Load(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Snapshot()
	assert.ErrorIs(t, err, types.ErrNoSnapshot)

	o, err := svc.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, o.Groups.Len())
	assert.Equal(t, 1, o.Unresolved)
	assert.Equal(t, []string{"p4"}, o.Undated)
	assert.Equal(t, 4, o.Count)

	d1, ok := o.Groups.Get("d1")
	require.True(t, ok)
	assert.Equal(t, "Noah Fedel", d1.Driver.FullName())
	assert.True(t, dec("100").Equal(d1.PendingAmount))

	d2, ok := o.Groups.Get("d2")
	require.True(t, ok)
	assert.Equal(t, "Alex", d2.Driver.FirstName)

	assert.True(t, dec("150").Equal(o.Monthly[time.November-1]))
	assert.True(t, dec("30").Equal(o.Monthly[time.January-1]))

	snap, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Same(t, o, snap)
}

func TestPaymentService_LoadError(t *testing.T) {
	svc, backend := newTestService(t)
	backend.listErr = types.ErrBackendUnavailable

	_, err := svc.Load(context.Background())
	assert.ErrorIs(t, err, types.ErrBackendUnavailable)

	_, err = svc.Snapshot()
	assert.ErrorIs(t, err, types.ErrNoSnapshot)
}

func TestPaymentService_StaleLoadDiscarded(t *testing.T) {
	svc, backend := newTestService(t)

	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	backend.listHook = func(call int) {
		if call == 1 {
			close(firstStarted)
			<-releaseFirst
		}
	}

	type loadResult struct {
		o   *models.PaymentOverview
		err error
	}
	first := make(chan loadResult, 1)
	go func() {
		o, err := svc.Load(context.Background())
		first <- loadResult{o, err}
	}()
	<-firstStarted

	second, err := svc.Load(context.Background())
	require.NoError(t, err)

	close(releaseFirst)
	res := <-first
	assert.ErrorIs(t, res.err, types.ErrStaleLoad)
	assert.Nil(t, res.o)

	snap, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Same(t, second, snap)
}

func TestPaymentService_FailedNewerLoadKeepsOlderResult(t *testing.T) {
	svc, backend := newTestService(t)

	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	backend.listHook = func(call int) {
		if call == 1 {
			close(firstStarted)
			<-releaseFirst
		}
	}

	type loadResult struct {
		o   *models.PaymentOverview
		err error
	}
	first := make(chan loadResult, 1)
	go func() {
		o, err := svc.Load(context.Background())
		first <- loadResult{o, err}
	}()
	<-firstStarted

	backend.mu.Lock()
	backend.listErr = types.ErrBackendUnavailable
	backend.mu.Unlock()

	_, err := svc.Load(context.Background())
	require.ErrorIs(t, err, types.ErrBackendUnavailable)

	backend.mu.Lock()
	backend.listErr = nil
	backend.mu.Unlock()

	close(releaseFirst)
	res := <-first
	require.NoError(t, res.err)

	snap, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Same(t, res.o, snap)
}

func TestPaymentService_CloseDiscardsInFlightLoad(t *testing.T) {
	svc, backend := newTestService(t)

	started := make(chan struct{})
	release := make(chan struct{})
	backend.listHook = func(int) {
		close(started)
		<-release
	}

	done := make(chan error, 1)
	go func() {
		_, err := svc.Load(context.Background())
		done <- err
	}()
	<-started

	svc.Close()
	close(release)

	assert.ErrorIs(t, <-done, types.ErrStaleLoad)
	_, err := svc.Snapshot()
	assert.ErrorIs(t, err, types.ErrNoSnapshot)
}

func TestPaymentService_DriverGroup(t *testing.T) {
	svc, backend := newTestService(t)

	// loads on first use
	g, err := svc.DriverGroup(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, 2, g.TotalCount)
	assert.Equal(t, 1, backend.listCount())

	_, err = svc.DriverGroup(context.Background(), "nobody")
	assert.ErrorIs(t, err, types.ErrDriverNotFound)
	assert.Equal(t, 1, backend.listCount())
}

func TestPaymentService_Monthly(t *testing.T) {
	svc, _ := newTestService(t)

	all, skipped, err := svc.Monthly(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"p4"}, skipped)
	assert.True(t, dec("150").Equal(all[time.November-1]))

	y2024, _, err := svc.Monthly(context.Background(), 2024)
	require.NoError(t, err)
	assert.True(t, dec("50").Equal(y2024[time.November-1]))
	assert.True(t, dec("30").Equal(y2024[time.January-1]))
}

func TestPaymentService_MarkDriverPaidReloadsAndPublishes(t *testing.T) {
	pub := &fakePublisher{}
	svc, backend := newTestService(t, WithPublisher(pub))

	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	res, err := svc.MarkDriverPaid(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, res.Updated)
	assert.Equal(t, []string{"p1"}, backend.updateCalls())

	// full reload instead of a local patch
	assert.Equal(t, 2, backend.listCount())
	snap, err := svc.Snapshot()
	require.NoError(t, err)
	g, ok := snap.Groups.Get("d1")
	require.True(t, ok)
	assert.Equal(t, 0, g.PendingCount)
	assert.True(t, dec("150").Equal(g.PaidAmount))

	require.Len(t, pub.events, 1)
	assert.Equal(t, "d1", pub.events[0].DriverID)
	assert.Equal(t, []string{"p1"}, pub.events[0].PaymentIDs)
	assert.Equal(t, "100", pub.events[0].Amount)
	assert.NotEmpty(t, pub.events[0].EventID)
}

func TestPaymentService_MarkDriverPaidFailure(t *testing.T) {
	pub := &fakePublisher{}
	svc, backend := newTestService(t, WithPublisher(pub))
	backend.failUpdate["p1"] = errBoom

	before, err := svc.Load(context.Background())
	require.NoError(t, err)

	res, err := svc.MarkDriverPaid(context.Background(), "d1")
	assert.ErrorIs(t, err, types.ErrReconcileFailed)
	assert.Equal(t, "p1", res.FailedID)

	assert.Equal(t, 1, backend.listCount())
	assert.Empty(t, pub.events)

	snap, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Same(t, before, snap)
}

func TestPaymentService_PublishFailureIsNotSurfaced(t *testing.T) {
	pub := &fakePublisher{err: errBoom}
	svc, _ := newTestService(t, WithPublisher(pub))

	_, err := svc.MarkDriverPaid(context.Background(), "d1")
	assert.NoError(t, err)
}

func TestPaymentService_ConcurrentMarkSameDriver(t *testing.T) {
	svc, backend := newTestService(t)
	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	backend.updateHook = func(string) {
		once.Do(func() { close(entered) })
		<-release
	}

	done := make(chan error, 1)
	go func() {
		_, err := svc.MarkDriverPaid(context.Background(), "d1")
		done <- err
	}()
	<-entered

	assert.True(t, svc.InFlight("d1"))
	_, err = svc.MarkDriverPaid(context.Background(), "d1")
	assert.ErrorIs(t, err, types.ErrReconcileInProgress)

	close(release)
	assert.NoError(t, <-done)
	assert.Equal(t, []string{"p1"}, backend.updateCalls())
}
