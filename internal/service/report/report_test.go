package report

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/Temutjin2k/carpool-admin/internal/domain/models"
	"github.com/Temutjin2k/carpool-admin/internal/domain/types"
	"github.com/Temutjin2k/carpool-admin/pkg/logger"
	"github.com/Temutjin2k/carpool-admin/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var reportRides = []models.ReportRide{
	{From: "Colombo", To: "Kandy", Driver: "Noah Fedel", Date: "2024-01-15"},
	{From: "Galle", To: "Matara, South", Driver: "Alex Carter", Date: "2024-02-03T10:00:00Z"},
	{From: "Kandy", To: "Colombo", Driver: "noah fedel", Date: "2024-02-20"},
	{From: "Jaffna", To: "Colombo", Driver: "Isaac Reuben", Date: "someday"},
}

type fakeBackend struct {
	err error
}

func (f fakeBackend) AdminReport(ctx context.Context) (*models.AdminReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.AdminReport{Rides: reportRides, TotalRides: len(reportRides)}, nil
}

type fakeLoader struct {
	overview *models.PaymentOverview
}

func (f fakeLoader) Load(ctx context.Context) (*models.PaymentOverview, error) {
	return f.overview, nil
}

func froms(rides []models.ReportRide) []string {
	out := make([]string, 0, len(rides))
	for _, r := range rides {
		out = append(out, r.From)
	}
	return out
}

func TestRideFilter_Apply(t *testing.T) {
	tests := []struct {
		name   string
		filter RideFilter
		want   []string
	}{
		{name: "no filter", filter: RideFilter{}, want: []string{"Colombo", "Galle", "Kandy", "Jaffna"}},
		{name: "all months", filter: RideFilter{Month: "All"}, want: []string{"Colombo", "Galle", "Kandy", "Jaffna"}},
		{name: "february", filter: RideFilter{Month: "February"}, want: []string{"Galle", "Kandy"}},
		{name: "driver case insensitive", filter: RideFilter{Driver: "NOAH"}, want: []string{"Colombo", "Kandy"}},
		{name: "date range inclusive", filter: RideFilter{From: "2024-01-15", To: "2024-02-03"}, want: []string{"Colombo", "Galle"}},
		{name: "from only", filter: RideFilter{From: "2024-02-04"}, want: []string{"Kandy"}},
		{name: "combined", filter: RideFilter{Month: "February", Driver: "noah"}, want: []string{"Kandy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.filter
			v := validator.New()
			f.Validate(v)
			require.True(t, v.Valid(), v.Errors)

			assert.Equal(t, tt.want, froms(f.Apply(reportRides, nil)))
		})
	}
}

func TestRideFilter_Validate(t *testing.T) {
	f := RideFilter{Month: "Febuary", From: "2024-03-01", To: "yesterday"}
	v := validator.New()
	f.Validate(v)

	assert.Contains(t, v.Errors, "month")
	assert.Contains(t, v.Errors, "to")
	assert.NotContains(t, v.Errors, "from")

	f = RideFilter{From: "2024-03-01", To: "2024-02-01"}
	v = validator.New()
	f.Validate(v)
	assert.Contains(t, v.Errors, "to")
}

func TestReportService_ExportRidesCSV(t *testing.T) {
	svc := NewReportService(fakeBackend{}, nil, nil, logger.Nop())

	var buf bytes.Buffer
	n, err := svc.ExportRides(context.Background(), &buf, RideFilter{Month: "February"}, types.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	want := "From,To,Driver,Date\n" +
		"Galle,\"Matara, South\",Alex Carter,2024-02-03T10:00:00Z\n" +
		"Kandy,Colombo,noah fedel,2024-02-20\n"
	assert.Equal(t, want, buf.String())
}

func TestReportService_ExportRidesXLSX(t *testing.T) {
	svc := NewReportService(fakeBackend{}, nil, nil, logger.Nop())

	var buf bytes.Buffer
	n, err := svc.ExportRides(context.Background(), &buf, RideFilter{}, types.FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Rides")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"From", "To", "Driver", "Date"}, rows[0])
	assert.Equal(t, []string{"Colombo", "Kandy", "Noah Fedel", "2024-01-15"}, rows[1])
}

func TestReportService_InvalidFormat(t *testing.T) {
	svc := NewReportService(fakeBackend{}, nil, nil, logger.Nop())

	_, err := svc.ExportRides(context.Background(), &bytes.Buffer{}, RideFilter{}, "pdf")
	assert.ErrorIs(t, err, types.ErrInvalidReportFormat)

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, types.ErrInvalidReportFormat)

	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, types.FormatCSV, f)
}

func TestReportService_BackendError(t *testing.T) {
	boom := errors.New("down")
	svc := NewReportService(fakeBackend{err: boom}, nil, nil, logger.Nop())

	_, err := svc.ExportRides(context.Background(), &bytes.Buffer{}, RideFilter{}, types.FormatCSV)
	assert.ErrorIs(t, err, boom)
}

func TestReportService_ExportPaymentsCSV(t *testing.T) {
	groups := models.NewDriverGroups()
	known := groups.Ensure("d1", &models.Driver{
		ID: "d1", FirstName: "Noah", LastName: "Fedel", Email: "noah@carpool.lk",
		VehicleInfo: &models.VehicleInfo{Brand: "Toyota", Model: "Aqua", RegistrationNumber: "ABC-1234"},
	})
	known.Add(models.Payment{ID: "p1", Amount: "100", IsPaid: true})
	known.Add(models.Payment{ID: "p2", Amount: "20.5"})
	groups.Ensure("d2", nil).Add(models.Payment{ID: "p3", Amount: "7"})

	svc := NewReportService(nil, fakeLoader{&models.PaymentOverview{Groups: groups}}, nil, logger.Nop())

	var buf bytes.Buffer
	n, err := svc.ExportPayments(context.Background(), &buf, types.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	want := "Driver ID,Driver,Email,Vehicle,Paid,Pending,Total,Paid Count,Pending Count\n" +
		"d1,Noah Fedel,noah@carpool.lk,Toyota Aqua ABC-1234,100.00,20.50,120.50,1,1\n" +
		"d2,Unknown,,,0.00,7.00,7.00,0,1\n"
	assert.Equal(t, want, buf.String())
	assert.True(t, decimal.RequireFromString("120.5").Equal(known.TotalAmount))
}
