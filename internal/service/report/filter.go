package report

import (
	"strings"
	"time"

	"github.com/Temutjin2k/carpool-admin/internal/domain/models"
	"github.com/Temutjin2k/carpool-admin/internal/service/payment"
	"github.com/Temutjin2k/carpool-admin/pkg/validator"
)

const allMonths = "All"

var permittedMonths = []string{
	allMonths,
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// RideFilter narrows the rides report. Zero values match everything.
type RideFilter struct {
	Month  string
	Driver string
	From   string
	To     string

	from, to time.Time
}

// Validate checks the filter and prepares the date bounds.
func (f *RideFilter) Validate(v *validator.Validator) {
	if f.Month != "" {
		v.Check(validator.PermittedValue(f.Month, permittedMonths...), "month", "must be All or an English month name")
	}

	if f.From != "" {
		t, ok := payment.ParseDate(f.From)
		v.Check(ok, "from", "must be a date, e.g. 2024-01-31")
		f.from = t
	}
	if f.To != "" {
		t, ok := payment.ParseDate(f.To)
		v.Check(ok, "to", "must be a date, e.g. 2024-01-31")
		f.to = endOfDay(t, f.To)
	}
	if !f.from.IsZero() && !f.to.IsZero() {
		v.Check(!f.to.Before(f.from), "to", "must not be before from")
	}
}

// a bare date as upper bound covers the whole day
func endOfDay(t time.Time, raw string) time.Time {
	if len(strings.TrimSpace(raw)) == len("2006-01-02") {
		return t.Add(24*time.Hour - time.Nanosecond)
	}
	return t
}

// Apply returns the rides matching f, in input order. Rides whose date cannot be
// parsed never match a month or date bound.
func (f *RideFilter) Apply(rides []models.ReportRide, loc *time.Location) []models.ReportRide {
	driver := strings.ToLower(strings.TrimSpace(f.Driver))
	byMonth := f.Month != "" && f.Month != allMonths
	byDate := !f.from.IsZero() || !f.to.IsZero()

	out := make([]models.ReportRide, 0, len(rides))
	for _, r := range rides {
		if driver != "" && !strings.Contains(strings.ToLower(r.Driver), driver) {
			continue
		}

		if byMonth || byDate {
			date, ok := payment.ParseDate(r.Date)
			if !ok {
				continue
			}
			if byMonth && models.MonthName(date.In(loc).Month()) != f.Month {
				continue
			}
			if !f.from.IsZero() && date.Before(f.from) {
				continue
			}
			if !f.to.IsZero() && date.After(f.to) {
				continue
			}
		}

		out = append(out, r)
	}
	return out
}
