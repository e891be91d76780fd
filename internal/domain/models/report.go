package models

// ReportRide is one row of the admin rides report.
type ReportRide struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Driver string `json:"driver"`
	Date   string `json:"date"`
}

// AdminReport is the body of GET /api/reports/admin.
type AdminReport struct {
	Rides      []ReportRide `json:"rides"`
	TotalRides int          `json:"totalRides"`
}

// PaymentReportRow is one driver line of the payments report.
type PaymentReportRow struct {
	DriverID     string
	Driver       string
	Email        string
	Vehicle      string
	Paid         string
	Pending      string
	Total        string
	PaidCount    int
	PendingCount int
}
