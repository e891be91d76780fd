package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Temutjin2k/carpool-admin/internal/domain/models"
	"github.com/Temutjin2k/carpool-admin/internal/domain/types"
	"github.com/Temutjin2k/carpool-admin/pkg/logger"
	wrap "github.com/Temutjin2k/carpool-admin/pkg/logger/wrapper"
)

var (
	rideHeaders    = []string{"From", "To", "Driver", "Date"}
	paymentHeaders = []string{"Driver ID", "Driver", "Email", "Vehicle", "Paid", "Pending", "Total", "Paid Count", "Pending Count"}
)

type ReportService struct {
	backend  Backend
	payments PaymentLoader
	loc      *time.Location
	l        logger.Logger
}

func NewReportService(backend Backend, payments PaymentLoader, loc *time.Location, l logger.Logger) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{
		backend:  backend,
		payments: payments,
		loc:      loc,
		l:        l,
	}
}

// Rides returns the filtered rides and the backend's total ride count.
// The filter must have been validated.
func (s *ReportService) Rides(ctx context.Context, f RideFilter) ([]models.ReportRide, int, error) {
	const op = "ReportService.Rides"

	rep, err := s.backend.AdminReport(ctx)
	if err != nil {
		return nil, 0, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return f.Apply(rep.Rides, s.loc), rep.TotalRides, nil
}

// ExportRides writes the filtered rides report and returns the number of rows.
func (s *ReportService) ExportRides(ctx context.Context, w io.Writer, f RideFilter, format types.ReportFormat) (int, error) {
	const op = "ReportService.ExportRides"
	ctx = wrap.WithAction(ctx, types.ActionReportExport)

	if err := checkFormat(format); err != nil {
		return 0, err
	}

	rides, _, err := s.Rides(ctx, f)
	if err != nil {
		return 0, err
	}

	t := &table{
		sheet:   "Rides",
		headers: rideHeaders,
		widths:  []float64{30, 30, 25, 20},
		rows:    make([][]any, 0, len(rides)),
	}
	for _, r := range rides {
		t.rows = append(t.rows, []any{r.From, r.To, r.Driver, r.Date})
	}

	if err := t.write(w, format); err != nil {
		return 0, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	s.l.Info(ctx, "rides report exported", "format", string(format), "rows", len(rides))
	return len(rides), nil
}

// PaymentRows builds one report row per driver group of a fresh payment load.
func (s *ReportService) PaymentRows(ctx context.Context) ([]models.PaymentReportRow, error) {
	const op = "ReportService.PaymentRows"

	overview, err := s.payments.Load(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	rows := make([]models.PaymentReportRow, 0, overview.Groups.Len())
	for _, g := range overview.Groups.All() {
		row := models.PaymentReportRow{
			DriverID:     g.DriverID,
			Driver:       "Unknown",
			Paid:         g.PaidAmount.StringFixed(2),
			Pending:      g.PendingAmount.StringFixed(2),
			Total:        g.TotalAmount.StringFixed(2),
			PaidCount:    g.PaidCount,
			PendingCount: g.PendingCount,
		}
		if g.Driver != nil {
			row.Driver = g.Driver.FullName()
			row.Email = g.Driver.Email
			row.Vehicle = g.Driver.Vehicle()
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ExportPayments writes the per-driver payments report and returns the number of rows.
func (s *ReportService) ExportPayments(ctx context.Context, w io.Writer, format types.ReportFormat) (int, error) {
	const op = "ReportService.ExportPayments"
	ctx = wrap.WithAction(ctx, types.ActionReportExport)

	if err := checkFormat(format); err != nil {
		return 0, err
	}

	rows, err := s.PaymentRows(ctx)
	if err != nil {
		return 0, err
	}

	t := &table{
		sheet:   "Payments",
		headers: paymentHeaders,
		widths:  []float64{26, 25, 28, 28, 12, 12, 12, 12, 14},
		rows:    make([][]any, 0, len(rows)),
	}
	for _, r := range rows {
		t.rows = append(t.rows, []any{r.DriverID, r.Driver, r.Email, r.Vehicle, r.Paid, r.Pending, r.Total, r.PaidCount, r.PendingCount})
	}

	if err := t.write(w, format); err != nil {
		return 0, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	s.l.Info(ctx, "payments report exported", "format", string(format), "rows", len(rows))
	return len(rows), nil
}

// ParseFormat maps a user supplied format name, csv when empty.
func ParseFormat(s string) (types.ReportFormat, error) {
	if s == "" {
		return types.FormatCSV, nil
	}
	f := types.ReportFormat(s)
	if err := checkFormat(f); err != nil {
		return "", err
	}
	return f, nil
}

func checkFormat(f types.ReportFormat) error {
	switch f {
	case types.FormatCSV, types.FormatXLSX:
		return nil
	default:
		return fmt.Errorf("%w: %q", types.ErrInvalidReportFormat, f)
	}
}
