package payment

import (
	"time"

	"github.com/Temutjin2k/carpool-admin/internal/domain/models"
	"github.com/shopspring/decimal"
)

// GroupByDriver folds payments into per-driver groups ordered by first appearance.
// Payments without a driver id are left out and counted as unresolved. drivers maps
// a driver id to its resolved details, a missing entry leaves the group's driver nil.
func GroupByDriver(payments []models.Payment, drivers map[string]*models.Driver) (*models.DriverGroups, int) {
	groups := models.NewDriverGroups()
	unresolved := 0

	for _, p := range payments {
		if p.DriverRef.IsZero() {
			unresolved++
			continue
		}
		id := p.DriverRef.ID
		groups.Ensure(id, drivers[id]).Add(p)
	}
	return groups, unresolved
}

type bucketOptions struct {
	year int
	loc  *time.Location
}

type BucketOption func(*bucketOptions)

// WithYear keeps only payments dated in year y.
func WithYear(y int) BucketOption {
	return func(o *bucketOptions) {
		o.year = y
	}
}

// WithLocation sets the calendar used to pick the month. UTC by default.
func WithLocation(loc *time.Location) BucketOption {
	return func(o *bucketOptions) {
		if loc != nil {
			o.loc = loc
		}
	}
}

// BucketByMonth sums payment amounts per calendar month. Without WithYear every
// year lands in the same twelve buckets. The ids of payments whose date could not
// be decoded are returned as skipped.
func BucketByMonth(payments []models.Payment, opts ...BucketOption) (models.MonthlyRevenue, []string) {
	o := bucketOptions{loc: time.UTC}
	for _, opt := range opts {
		opt(&o)
	}

	var out models.MonthlyRevenue
	for i := range out {
		out[i] = decimal.Zero
	}

	var skipped []string
	for _, p := range payments {
		t, ok := ExtractDate(p.CreatedAt)
		if !ok {
			skipped = append(skipped, p.ID)
			continue
		}

		t = t.In(o.loc)
		if o.year != 0 && t.Year() != o.year {
			continue
		}

		m := t.Month() - 1
		out[m] = out[m].Add(p.Amount.Decimal())
	}
	return out, skipped
}
