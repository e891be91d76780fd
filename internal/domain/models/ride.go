package models

import (
	"encoding/json"

	"github.com/Temutjin2k/carpool-admin/internal/domain/types"
	"github.com/shopspring/decimal"
)

type Ride struct {
	ID            string           `json:"id"`
	DriverID      string           `json:"driverId"`
	StartLocation string           `json:"startLocation"`
	EndLocation   string           `json:"endLocation"`
	Status        types.RideStatus `json:"status"`
	Date          string           `json:"date"`
	CancelReason  string           `json:"cancelReason,omitempty"`
	Passengers    []RidePassenger  `json:"passengers"`
}

type RidePassenger struct {
	ID   string `json:"id,omitempty"`
	Cost Amount `json:"cost"`
}

// UnmarshalJSON accepts "rideId" or "_id" for the id and "reason" for the cancel reason.
func (r *Ride) UnmarshalJSON(b []byte) error {
	type plain Ride
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(b, &keys); err != nil {
		return err
	}
	if id := firstID(keys, "rideId"); id != "" {
		p.ID = id
	} else if p.ID == "" {
		p.ID = firstID(keys, "_id")
	}
	if p.CancelReason == "" {
		var reason string
		if v, ok := keys["reason"]; ok && json.Unmarshal(v, &reason) == nil {
			p.CancelReason = reason
		}
	}

	*r = Ride(p)
	return nil
}

// Fare is the sum of the passengers' costs.
func (r Ride) Fare() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range r.Passengers {
		sum = sum.Add(p.Cost.Decimal())
	}
	return sum
}

// IsActive reports a ride that has started but not finished.
func (r Ride) IsActive() bool {
	return r.Status == types.RideStarted || r.Status == types.RideActive
}

// RidesResponse is the body of GET /api/rides.
type RidesResponse struct {
	Rides []Ride `json:"rides"`
	Count int    `json:"count"`
}

type User struct {
	ID        string         `json:"id"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Email     string         `json:"email"`
	Role      types.UserRole `json:"role"`
	Status    string         `json:"status"`
}

// UsersSummary is the body of GET /api/users.
type UsersSummary struct {
	Users      []User `json:"users"`
	Count      int    `json:"count"`
	Drivers    int    `json:"drivers"`
	Passengers int    `json:"passengers"`
}

// PendingApprovals counts users waiting for approval.
func (u UsersSummary) PendingApprovals() int {
	n := 0
	for _, user := range u.Users {
		if user.Status == "pending" {
			n++
		}
	}
	return n
}
