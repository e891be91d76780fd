package types

const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"
	ActionRabbitReconnected       = "rabbitmq_reconnection_success"

	ActionExternalServiceFailed = "external_service_failed"

	ActionPaymentsLoad       = "payments_load"
	ActionDriverLookup       = "driver_lookup"
	ActionDriverLookupFailed = "driver_lookup_failed"
	ActionPaymentSkipped     = "payment_skipped"
	ActionReconcile          = "reconcile"
	ActionReconcileFailed    = "reconcile_failed"
	ActionReconcilePublished = "reconcile_published"
	ActionDashboardOverview  = "dashboard_overview"
	ActionReportExport       = "report_export"
)
