package types

// RideStatus is the lifecycle state of a ride as reported by the backend.
type RideStatus string

const (
	RideStarted   RideStatus = "start"
	RideActive    RideStatus = "active"
	RideCompleted RideStatus = "completed"
	RideCancelled RideStatus = "cancel"
)

// UserRole as stored by the backend.
type UserRole string

func (r UserRole) String() string {
	return string(r)
}

const (
	PassengerRole UserRole = "passenger"
	DriverRole    UserRole = "driver"
	AdminRole     UserRole = "admin"
)

// ReportFormat is an export encoding.
type ReportFormat string

const (
	FormatCSV  ReportFormat = "csv"
	FormatXLSX ReportFormat = "xlsx"
)

// ContentType returns the MIME type of the export.
func (f ReportFormat) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

// Routing keys and exchanges of published events
const (
	AdminExchange            = "admin_topic"
	RoutingPaymentReconciled = "payment.reconciled"
)
