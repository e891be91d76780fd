package models

import (
	"bytes"
	"encoding/json"
	"maps"
	"time"

	"github.com/shopspring/decimal"
)

// Wire keys that may carry the driver reference, in priority order.
var driverRefKeys = []string{"driverRef", "driver", "driverId", "userId"}

// Payment is a single payment record from the backend.
//
// The backend object is kept verbatim so an update can resend every field it
// does not touch.
type Payment struct {
	ID        string
	Amount    Amount
	DriverRef DriverRef
	CreatedAt json.RawMessage
	IsPaid    bool

	raw map[string]json.RawMessage
}

// UnmarshalJSON never fails on a malformed record: anything that is not an
// object decodes to an empty payment, and a driver reference that cannot be read
// leaves the payment unresolved.
func (p *Payment) UnmarshalJSON(b []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		*p = Payment{}
		return nil
	}

	var out Payment
	out.raw = m
	out.ID = firstID(m, "id", "_id")

	if v, ok := m["amount"]; ok {
		// Amount only fails on a broken string literal, which reads as zero
		_ = json.Unmarshal(v, &out.Amount)
	}

	for _, k := range driverRefKeys {
		v, ok := m[k]
		if !ok || isNull(v) {
			continue
		}
		if err := json.Unmarshal(v, &out.DriverRef); err != nil {
			out.DriverRef = DriverRef{}
		}
		break
	}

	if v, ok := m["createdAt"]; ok && !isNull(v) {
		out.CreatedAt = v
	}

	if v, ok := m["isPaid"]; ok && !isNull(v) {
		// a malformed flag reads as unpaid
		_ = json.Unmarshal(v, &out.IsPaid)
	}

	*p = out
	return nil
}

func (p Payment) MarshalJSON() ([]byte, error) {
	created := p.CreatedAt
	if len(created) == 0 {
		created = json.RawMessage("null")
	}
	return json.Marshal(struct {
		ID        string          `json:"id"`
		Amount    decimal.Decimal `json:"amount"`
		DriverID  string          `json:"driverId"`
		CreatedAt json.RawMessage `json:"createdAt"`
		IsPaid    bool            `json:"isPaid"`
	}{
		ID:        p.ID,
		Amount:    p.Amount.Decimal(),
		DriverID:  p.DriverRef.ID,
		CreatedAt: created,
		IsPaid:    p.IsPaid,
	})
}

// UpdateBody is the full record as received with isPaid replaced.
func (p Payment) UpdateBody(paid bool) ([]byte, error) {
	flag, err := json.Marshal(paid)
	if err != nil {
		return nil, err
	}

	body := make(map[string]json.RawMessage, len(p.raw)+1)
	if p.raw != nil {
		maps.Copy(body, p.raw)
	} else {
		body["id"], _ = json.Marshal(p.ID)
		body["amount"], _ = json.Marshal(string(p.Amount))
		body["driverRef"], _ = json.Marshal(p.DriverRef)
		if len(p.CreatedAt) > 0 {
			body["createdAt"] = p.CreatedAt
		}
	}
	body["isPaid"] = flag

	return json.Marshal(body)
}

func isNull(b json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}

// PaymentsResponse is the body of GET /api/payments.
type PaymentsResponse struct {
	Payments []Payment `json:"payment"`
	Count    int       `json:"count"`
	Paid     int       `json:"payeed"`
	NotPaid  int       `json:"notpayeed"`
}

// DriverPaymentGroup aggregates one driver's payments.
type DriverPaymentGroup struct {
	DriverID      string          `json:"driverId"`
	Driver        *Driver         `json:"driver"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	PendingAmount decimal.Decimal `json:"pendingAmount"`
	TotalCount    int             `json:"totalCount"`
	PaidCount     int             `json:"paidCount"`
	PendingCount  int             `json:"pendingCount"`
	Payments      []Payment       `json:"payments"`
}

// Add folds p into the group.
func (g *DriverPaymentGroup) Add(p Payment) {
	amount := p.Amount.Decimal()

	g.TotalAmount = g.TotalAmount.Add(amount)
	g.TotalCount++
	if p.IsPaid {
		g.PaidAmount = g.PaidAmount.Add(amount)
		g.PaidCount++
	} else {
		g.PendingAmount = g.PendingAmount.Add(amount)
		g.PendingCount++
	}
	g.Payments = append(g.Payments, p)
}

// Unpaid returns the pending payments in group order.
func (g *DriverPaymentGroup) Unpaid() []Payment {
	out := make([]Payment, 0, g.PendingCount)
	for _, p := range g.Payments {
		if !p.IsPaid {
			out = append(out, p)
		}
	}
	return out
}

// DriverGroups keeps groups in order of first appearance with lookup by driver id.
type DriverGroups struct {
	order []*DriverPaymentGroup
	index map[string]*DriverPaymentGroup
}

func NewDriverGroups() *DriverGroups {
	return &DriverGroups{index: make(map[string]*DriverPaymentGroup)}
}

// Ensure returns the group for id, creating it at the end when missing.
func (g *DriverGroups) Ensure(id string, driver *Driver) *DriverPaymentGroup {
	if grp, ok := g.index[id]; ok {
		return grp
	}
	grp := &DriverPaymentGroup{
		DriverID:      id,
		Driver:        driver,
		TotalAmount:   decimal.Zero,
		PaidAmount:    decimal.Zero,
		PendingAmount: decimal.Zero,
		Payments:      []Payment{},
	}
	g.index[id] = grp
	g.order = append(g.order, grp)
	return grp
}

func (g *DriverGroups) Get(id string) (*DriverPaymentGroup, bool) {
	if g == nil {
		return nil, false
	}
	grp, ok := g.index[id]
	return grp, ok
}

func (g *DriverGroups) All() []*DriverPaymentGroup {
	if g == nil {
		return nil
	}
	return g.order
}

func (g *DriverGroups) Len() int {
	if g == nil {
		return 0
	}
	return len(g.order)
}

func (g *DriverGroups) MarshalJSON() ([]byte, error) {
	all := g.All()
	if all == nil {
		all = []*DriverPaymentGroup{}
	}
	return json.Marshal(all)
}

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthlyRevenue holds amounts per calendar month, January first.
type MonthlyRevenue [12]decimal.Decimal

func (m MonthlyRevenue) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range m {
		sum = sum.Add(v)
	}
	return sum
}

func (m MonthlyRevenue) MarshalJSON() ([]byte, error) {
	type bucket struct {
		Month  string          `json:"month"`
		Amount decimal.Decimal `json:"amount"`
	}
	out := make([]bucket, 12)
	for i := range m {
		out[i] = bucket{Month: monthNames[i], Amount: m[i]}
	}
	return json.Marshal(out)
}

// MonthName returns the English name of month m (1..12).
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// PaymentOverview is one consistent snapshot of the payment view.
type PaymentOverview struct {
	Groups     *DriverGroups  `json:"groups"`
	Monthly    MonthlyRevenue `json:"monthly"`
	Unresolved int            `json:"unresolved"`
	Undated    []string       `json:"undated"`
	Count      int            `json:"count"`
	PaidCount  int            `json:"paidCount"`
	NotPaid    int            `json:"notPaidCount"`
	Generation uint64         `json:"generation"`
	LoadedAt   time.Time      `json:"loadedAt"`

	// Payments is the raw list the snapshot was built from.
	Payments []Payment `json:"-"`
}

// ReconcileResult reports how far a reconciliation got.
type ReconcileResult struct {
	DriverID    string   `json:"driverId"`
	Requested   int      `json:"requested"`
	Updated     []string `json:"updated"`
	FailedID    string   `json:"failedId,omitempty"`
	AlreadyPaid int      `json:"alreadyPaid"`
}

// Complete reports whether every pending payment was updated.
func (r ReconcileResult) Complete() bool {
	return r.FailedID == "" && len(r.Updated) == r.Requested
}

// PaymentReconciledEvent is published after a driver's payments were all marked paid.
type PaymentReconciledEvent struct {
	EventID    string    `json:"event_id"`
	DriverID   string    `json:"driver_id"`
	PaymentIDs []string  `json:"payment_ids"`
	Amount     string    `json:"amount"`
	Timestamp  time.Time `json:"timestamp"`
}
