package server

import (
	"net/http"

	"github.com/Temutjin2k/carpool-admin/docs"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers) {
	// System Health
	mux.HandleFunc("GET /health", routes.health.HealthCheck)

	setupSwaggerRoutes(mux)
	setupMetricsRoute(mux)
	setupAdminRoutes(mux, routes)
}

// setupAdminRoutes setups routes for the admin dashboard
func setupAdminRoutes(mux *http.ServeMux, routes *handlers) {
	mux.HandleFunc("GET /admin/overview", routes.overview.GetOverview) // Dashboard counters and recent rides

	mux.HandleFunc("GET /admin/payments", routes.payment.GetPayments)                                   // Reload and group payments by driver
	mux.HandleFunc("GET /admin/payments/monthly", routes.payment.GetMonthly)                            // Monthly revenue buckets
	mux.HandleFunc("GET /admin/payments/drivers/{driver_id}", routes.payment.GetDriverPayments)         // One driver's group
	mux.HandleFunc("POST /admin/payments/drivers/{driver_id}/mark-paid", routes.payment.MarkDriverPaid) // Reconcile a driver's pending payments

	mux.HandleFunc("GET /admin/reports/rides", routes.report.ExportRides)       // Rides report download
	mux.HandleFunc("GET /admin/reports/payments", routes.report.ExportPayments) // Payments report download
}

// setupSwaggerRoutes configures Swagger UI endpoints
func setupSwaggerRoutes(mux *http.ServeMux) {
	swaggerURL := httpSwagger.InstanceName(docs.InstanceName)
	mux.HandleFunc("/swagger/", httpSwagger.Handler(swaggerURL))
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func setupMetricsRoute(mux *http.ServeMux) {
	mux.Handle("GET /metrics", promhttp.Handler())
}
