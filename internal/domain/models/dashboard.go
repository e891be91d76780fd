package models

import "github.com/shopspring/decimal"

type DashboardOverview struct {
	Rides       RideStats    `json:"rides"`
	Users       UserStats    `json:"users"`
	Payments    PaymentStats `json:"payments"`
	RecentRides []RecentRide `json:"recentRides"`
}

type RideStats struct {
	Total     int             `json:"total"`
	Active    int             `json:"active"`
	Completed int             `json:"completed"`
	Cancelled int             `json:"cancelled"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type UserStats struct {
	Total            int `json:"total"`
	Drivers          int `json:"drivers"`
	Passengers       int `json:"passengers"`
	PendingApprovals int `json:"pendingApprovals"`
}

type PaymentStats struct {
	Total         int             `json:"total"`
	Paid          int             `json:"paid"`
	Pending       int             `json:"pending"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	AmountPending decimal.Decimal `json:"amountPending"`
}

type RecentRide struct {
	ID           string          `json:"id"`
	DriverID     string          `json:"driverId"`
	From         string          `json:"from"`
	To           string          `json:"to"`
	Status       string          `json:"status"`
	Passengers   int             `json:"passengers"`
	Fare         decimal.Decimal `json:"fare"`
	Date         string          `json:"date"`
	CancelReason string          `json:"cancelReason,omitempty"`
}
