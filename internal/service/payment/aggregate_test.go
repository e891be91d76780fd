package payment

import (
	"testing"
	"time"

	"github.com/Temutjin2k/carpool-admin/internal/domain/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestGroupByDriver_Example(t *testing.T) {
	payments := decodePayments(t, `[
		{"id":"p1","amount":"100","driverRef":"d1","isPaid":false},
		{"id":"p2","amount":"50","driverRef":"d1","isPaid":true}
	]`)
	drivers := map[string]*models.Driver{"d1": {ID: "d1", FirstName: "Noah"}}

	groups, unresolved := GroupByDriver(payments, drivers)
	require.Equal(t, 1, groups.Len())
	assert.Zero(t, unresolved)

	g, ok := groups.Get("d1")
	require.True(t, ok)
	assert.Equal(t, "Noah", g.Driver.FirstName)
	assert.True(t, dec("150").Equal(g.TotalAmount))
	assert.True(t, dec("50").Equal(g.PaidAmount))
	assert.True(t, dec("100").Equal(g.PendingAmount))
	assert.Equal(t, 2, g.TotalCount)
	assert.Equal(t, 1, g.PaidCount)
	assert.Equal(t, 1, g.PendingCount)
	assert.Equal(t, []string{"p1", "p2"}, ids(g.Payments))
}

func TestGroupByDriver_UnparseableAmountStillGrouped(t *testing.T) {
	payments := decodePayments(t, `[{"id":"p1","amount":"abc","driverRef":"d1","isPaid":false}]`)

	groups, _ := GroupByDriver(payments, nil)
	g, ok := groups.Get("d1")
	require.True(t, ok)
	assert.Nil(t, g.Driver)
	assert.True(t, g.TotalAmount.IsZero())
	assert.True(t, g.PendingAmount.IsZero())
	assert.Equal(t, 1, g.PendingCount)
	assert.Len(t, g.Payments, 1)
}

func TestGroupByDriver_MalformedRecordsAreUnresolved(t *testing.T) {
	payments := decodePayments(t, `[
		{"id":"p1","amount":"10","driverRef":"d1","isPaid":false,"createdAt":"2024-03-01"},
		{"id":"p2","amount":"20","driver":{"id":7},"isPaid":false,"createdAt":"2024-03-02"},
		{"id":"p3","amount":"1e2000000000","driverRef":true,"createdAt":"2024-03-03"},
		{"id":"p4","amount":"1e2000000000","driverRef":"d1","isPaid":true,"createdAt":"2024-03-04"}
	]`)

	groups, unresolved := GroupByDriver(payments, nil)
	assert.Equal(t, 1, unresolved)
	require.Equal(t, 2, groups.Len())

	g, ok := groups.Get("7")
	require.True(t, ok)
	assert.True(t, dec("20").Equal(g.PendingAmount))

	g, ok = groups.Get("d1")
	require.True(t, ok)
	assert.True(t, dec("10").Equal(g.TotalAmount))
	assert.Equal(t, 2, g.TotalCount)

	monthly, skipped := BucketByMonth(payments)
	assert.Empty(t, skipped)
	assert.True(t, dec("30").Equal(monthly[time.March-1]))
}

func TestGroupByDriver_Invariants(t *testing.T) {
	payments := decodePayments(t, `[
		{"id":"p1","amount":"10.25","driverRef":"d1","isPaid":false},
		{"id":"p2","amount":"5","driver":{"_id":"d2","firstName":"Alex"},"isPaid":true},
		{"id":"p3","amount":"x","driverId":"d1","isPaid":true},
		{"id":"p4","amount":"7.5"},
		{"id":"p5","amount":"-3","driverRef":"d3"},
		{"id":"p6","amount":"2","driverRef":"d2","isPaid":false},
		{"id":"p7","amount":"1e1","userId":"d1","isPaid":false}
	]`)

	groups, unresolved := GroupByDriver(payments, nil)
	assert.Equal(t, 1, unresolved)
	assert.Equal(t, []string{"d1", "d2", "d3"}, groupIDs(groups))

	expected := decimal.Zero
	grouped := 0
	for _, p := range payments {
		if p.DriverRef.ID != "" {
			expected = expected.Add(p.Amount.Decimal())
			grouped++
		}
	}

	total := decimal.Zero
	count := 0
	for _, g := range groups.All() {
		assert.True(t, g.TotalAmount.Equal(g.PaidAmount.Add(g.PendingAmount)))
		assert.False(t, g.PaidAmount.IsNegative())
		assert.False(t, g.PendingAmount.IsNegative())
		assert.Equal(t, g.TotalCount, g.PaidCount+g.PendingCount)
		assert.Equal(t, g.TotalCount, len(g.Payments))

		total = total.Add(g.PaidAmount.Add(g.PendingAmount))
		count += g.TotalCount
	}
	assert.True(t, expected.Equal(total), "expected %s got %s", expected, total)
	assert.Equal(t, grouped, count)
	assert.True(t, dec("27.25").Equal(total))
}

func TestGroupByDriver_Idempotent(t *testing.T) {
	payments := decodePayments(t, `[
		{"id":"p1","amount":"1","driverRef":"b"},
		{"id":"p2","amount":"2","driverRef":"a"},
		{"id":"p3","amount":"3","driverRef":"b","isPaid":true}
	]`)

	first, u1 := GroupByDriver(payments, nil)
	second, u2 := GroupByDriver(payments, nil)
	assert.Equal(t, first, second)
	assert.Equal(t, u1, u2)
	assert.Equal(t, []string{"b", "a"}, groupIDs(first))
}

func TestBucketByMonth(t *testing.T) {
	payments := decodePayments(t, `[
		{"id":"p1","amount":"100","driverRef":"d1","createdAt":"[1700000000,0.5]"},
		{"id":"p2","amount":"50","driverRef":"d1","createdAt":"2024-11-02T00:00:00Z"},
		{"id":"p3","amount":"20","createdAt":[{"seconds":1704067200}]},
		{"id":"p4","amount":"5","createdAt":[1709251200]},
		{"id":"p5","amount":"7","createdAt":["2023-03-10"]},
		{"id":"p6","amount":"999","createdAt":"whenever"},
		{"id":"p7","amount":"abc","createdAt":"2024-06-01"},
		{"id":"p8","amount":"3"}
	]`)

	monthly, skipped := BucketByMonth(payments)

	require.Len(t, monthly, 12)
	assert.True(t, dec("150").Equal(monthly[time.November-1]), "november %s", monthly[time.November-1])
	assert.True(t, dec("20").Equal(monthly[time.January-1]))
	assert.True(t, dec("12").Equal(monthly[time.March-1]))
	assert.True(t, monthly[time.June-1].IsZero())
	assert.Equal(t, []string{"p6", "p8"}, skipped)

	dated := decimal.Zero
	for _, p := range payments {
		if _, ok := ExtractDate(p.CreatedAt); ok {
			dated = dated.Add(p.Amount.Decimal())
		}
	}
	assert.True(t, dated.Equal(monthly.Total()))
}

func TestBucketByMonth_Empty(t *testing.T) {
	monthly, skipped := BucketByMonth(nil)
	for _, m := range monthly {
		assert.True(t, m.IsZero())
	}
	assert.Empty(t, skipped)
}

func TestBucketByMonth_Year(t *testing.T) {
	payments := decodePayments(t, `[
		{"id":"p1","amount":"100","createdAt":"2023-11-14T00:00:00Z"},
		{"id":"p2","amount":"50","createdAt":"2024-11-02T00:00:00Z"}
	]`)

	all, _ := BucketByMonth(payments)
	assert.True(t, dec("150").Equal(all[time.November-1]))

	only2024, _ := BucketByMonth(payments, WithYear(2024))
	assert.True(t, dec("50").Equal(only2024[time.November-1]))
	assert.True(t, dec("50").Equal(only2024.Total()))
}

func TestBucketByMonth_Location(t *testing.T) {
	payments := decodePayments(t, `[{"id":"p1","amount":"10","createdAt":"2024-01-31T20:00:00Z"}]`)

	utc, _ := BucketByMonth(payments)
	assert.True(t, dec("10").Equal(utc[time.January-1]))

	colombo := time.FixedZone("IST", 5*3600+1800)
	local, _ := BucketByMonth(payments, WithLocation(colombo))
	assert.True(t, dec("10").Equal(local[time.February-1]))
}

func ids(ps []models.Payment) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func groupIDs(g *models.DriverGroups) []string {
	out := make([]string, 0, g.Len())
	for _, grp := range g.All() {
		out = append(out, grp.DriverID)
	}
	return out
}
