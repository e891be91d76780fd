package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Temutjin2k/carpool-admin/config"
	"github.com/Temutjin2k/carpool-admin/internal/adapter/http/handler"
	"github.com/Temutjin2k/carpool-admin/internal/adapter/http/middleware"
	"github.com/Temutjin2k/carpool-admin/pkg/logger"
	wrap "github.com/Temutjin2k/carpool-admin/pkg/logger/wrapper"
)

const serviceName = "carpool-admin"

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers // routes/handlers
	m      *middleware.Middleware

	addr            string
	shutdownTimeout time.Duration
	log             logger.Logger
}

type handlers struct {
	health   *handler.Health
	overview *handler.Overview
	payment  *handler.Payment
	report   *handler.Report
}

func New(
	cfg config.ServerConfig,
	paymentService handler.PaymentService,
	dashboardService handler.DashboardService,
	reportService handler.ReportService,
	logger logger.Logger,
) (*API, error) {
	if paymentService == nil || dashboardService == nil || reportService == nil {
		return nil, errors.New("payment, dashboard and report services are required")
	}

	handlers := &handlers{
		health:   handler.NewHealth(serviceName, logger),
		overview: handler.NewOverview(dashboardService, logger),
		payment:  handler.NewPayment(paymentService, logger),
		report:   handler.NewReport(reportService, logger),
	}

	api := &API{
		mux:             http.NewServeMux(),
		routes:          handlers,
		m:               middleware.NewMiddleware(logger),
		addr:            cfg.Addr(),
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}

	setupRoutes(api.mux, api.routes)

	api.server = &http.Server{
		Addr:              api.addr,
		Handler:           api.withMiddleware(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.GetSlogLogger().Handler(), slog.LevelWarn),
	}

	return api, nil
}

// Handler exposes the full middleware chain, used by tests.
func (a *API) Handler() http.Handler {
	return a.server.Handler
}

func (a *API) Stop(ctx context.Context) error {
	timeout := a.shutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	metrics := a.m.Metrics(serviceName, a.mux)
	return a.m.Recover(a.m.RequestID(a.m.Session(a.m.Logging(metrics(a.mux)))))
}
