package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Temutjin2k/carpool-admin/internal/domain/types"
	"github.com/Temutjin2k/carpool-admin/internal/service/report"
	"github.com/Temutjin2k/carpool-admin/pkg/logger"
	wrap "github.com/Temutjin2k/carpool-admin/pkg/logger/wrapper"
	"github.com/Temutjin2k/carpool-admin/pkg/validator"
)

type ReportService interface {
	ExportRides(ctx context.Context, w io.Writer, f report.RideFilter, format types.ReportFormat) (int, error)
	ExportPayments(ctx context.Context, w io.Writer, format types.ReportFormat) (int, error)
}

type Report struct {
	s ReportService
	l logger.Logger
}

func NewReport(s ReportService, l logger.Logger) *Report {
	return &Report{
		s: s,
		l: l,
	}
}

// ExportRides godoc
// @Summary      Rides report
// @Description  Downloads the rides report as CSV or XLSX
// @Tags         Reports
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format  query  string  false  "csv or xlsx"  Enums(csv, xlsx)
// @Param        month   query  string  false  "All or an English month name"
// @Param        driver  query  string  false  "case-insensitive driver name fragment"
// @Param        from    query  string  false  "lower date bound"
// @Param        to      query  string  false  "upper date bound, a bare date includes the whole day"
// @Success      200
// @Failure      422  {object}  map[string]any
// @Failure      502  {object}  map[string]string
// @Router       /admin/reports/rides [get]
func (h *Report) ExportRides(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_export_rides")
	qs := r.URL.Query()

	v := validator.New()
	format := readFormat(qs.Get("format"), v)

	f := report.RideFilter{
		Month:  readString(qs, "month", ""),
		Driver: readString(qs, "driver", ""),
		From:   readString(qs, "from", ""),
		To:     readString(qs, "to", ""),
	}
	if f.Validate(v); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	var buf bytes.Buffer
	rows, err := h.s.ExportRides(ctx, &buf, f, format)
	if err != nil {
		h.fail(ctx, w, "failed to export rides report", err)
		return
	}

	h.attach(ctx, w, "rides", format, rows, &buf)
}

// ExportPayments godoc
// @Summary      Payments report
// @Description  Downloads the per-driver payments report as CSV or XLSX
// @Tags         Reports
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format  query  string  false  "csv or xlsx"  Enums(csv, xlsx)
// @Success      200
// @Failure      422  {object}  map[string]any
// @Failure      502  {object}  map[string]string
// @Router       /admin/reports/payments [get]
func (h *Report) ExportPayments(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_export_payments")

	v := validator.New()
	format := readFormat(r.URL.Query().Get("format"), v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	var buf bytes.Buffer
	rows, err := h.s.ExportPayments(ctx, &buf, format)
	if err != nil {
		h.fail(ctx, w, "failed to export payments report", err)
		return
	}

	h.attach(ctx, w, "payments", format, rows, &buf)
}

func readFormat(raw string, v *validator.Validator) types.ReportFormat {
	format, err := report.ParseFormat(raw)
	if err != nil {
		v.AddError("format", "must be csv or xlsx")
	}
	return format
}

func (h *Report) attach(ctx context.Context, w http.ResponseWriter, name string, format types.ReportFormat, rows int, buf *bytes.Buffer) {
	filename := fmt.Sprintf("%s-%s.%s", name, time.Now().UTC().Format("2006-01-02"), format)

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.Header().Set("X-Report-Rows", fmt.Sprint(rows))
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		h.l.Error(ctx, "failed to write report", err)
	}
}

func (h *Report) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	code := GetCode(err)
	if code >= http.StatusInternalServerError {
		h.l.Error(wrap.ErrorCtx(ctx, err), msg, err)
	}
	errorResponse(w, code, errorMessage(code, err))
}
