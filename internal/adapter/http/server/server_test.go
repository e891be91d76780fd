package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Temutjin2k/carpool-admin/config"
	"github.com/Temutjin2k/carpool-admin/internal/domain/models"
	"github.com/Temutjin2k/carpool-admin/internal/domain/types"
	"github.com/Temutjin2k/carpool-admin/internal/service/report"
	"github.com/Temutjin2k/carpool-admin/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPayments struct{}

func (stubPayments) Load(ctx context.Context) (*models.PaymentOverview, error) {
	return &models.PaymentOverview{Groups: models.NewDriverGroups()}, nil
}

func (stubPayments) Snapshot() (*models.PaymentOverview, error) {
	return nil, types.ErrNoSnapshot
}

func (stubPayments) DriverGroup(ctx context.Context, driverID string) (*models.DriverPaymentGroup, error) {
	return nil, types.ErrNotFound
}

func (stubPayments) Monthly(ctx context.Context, year int) (models.MonthlyRevenue, []string, error) {
	return models.MonthlyRevenue{}, nil, nil
}

func (stubPayments) MarkDriverPaid(ctx context.Context, driverID string) (models.ReconcileResult, error) {
	return models.ReconcileResult{DriverID: driverID}, nil
}

type stubDashboard struct{}

func (stubDashboard) Overview(ctx context.Context) (*models.DashboardOverview, error) {
	return &models.DashboardOverview{}, nil
}

type stubReports struct{}

func (stubReports) ExportRides(ctx context.Context, w io.Writer, f report.RideFilter, format types.ReportFormat) (int, error) {
	return 0, nil
}

func (stubReports) ExportPayments(ctx context.Context, w io.Writer, format types.ReportFormat) (int, error) {
	return 0, nil
}

func newTestAPI(t *testing.T) *API {
	t.Helper()
	api, err := New(config.ServerConfig{Host: "127.0.0.1", Port: "0"}, stubPayments{}, stubDashboard{}, stubReports{}, logger.Nop())
	require.NoError(t, err)
	return api
}

func TestNew_RequiresServices(t *testing.T) {
	_, err := New(config.ServerConfig{}, nil, stubDashboard{}, stubReports{}, logger.Nop())
	assert.Error(t, err)
}

func TestRoutes(t *testing.T) {
	h := newTestAPI(t).Handler()

	tests := []struct {
		method string
		target string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/admin/overview", http.StatusOK},
		{http.MethodGet, "/admin/payments", http.StatusOK},
		{http.MethodGet, "/admin/payments/monthly", http.StatusOK},
		{http.MethodGet, "/admin/payments/drivers/d1", http.StatusNotFound},
		{http.MethodPost, "/admin/payments/drivers/d1/mark-paid", http.StatusOK},
		{http.MethodGet, "/admin/payments/drivers/d1/mark-paid", http.StatusMethodNotAllowed},
		{http.MethodGet, "/admin/reports/rides", http.StatusOK},
		{http.MethodGet, "/admin/reports/payments?format=xlsx", http.StatusOK},
		{http.MethodGet, "/admin/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}
