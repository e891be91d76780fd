package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Temutjin2k/carpool-admin/config"
	"github.com/Temutjin2k/carpool-admin/internal/adapter/backend"
	"github.com/Temutjin2k/carpool-admin/internal/adapter/http/server"
	rabbitAdapter "github.com/Temutjin2k/carpool-admin/internal/adapter/rabbit"
	"github.com/Temutjin2k/carpool-admin/internal/service/dashboard"
	"github.com/Temutjin2k/carpool-admin/internal/service/payment"
	"github.com/Temutjin2k/carpool-admin/internal/service/report"
	"github.com/Temutjin2k/carpool-admin/pkg/logger"
	wrap "github.com/Temutjin2k/carpool-admin/pkg/logger/wrapper"
	"github.com/Temutjin2k/carpool-admin/pkg/rabbit"
)

// App wires the backend client, the services and their transports.
type App struct {
	payments  *payment.PaymentService
	dashboard *dashboard.DashboardService
	reports   *report.ReportService

	httpServer *server.API
	rabbit     *rabbit.RabbitMQ

	cfg config.Config
	log logger.Logger
}

// NewApplication
func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	ctx = wrap.WithAction(ctx, "app_init")

	loc, err := cfg.Report.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load report timezone: %w", err)
	}

	client := backend.New(cfg.Backend.URL, cfg.Backend.Timeout)

	app := &App{
		cfg: cfg,
		log: log,
	}

	opts := []payment.Option{
		payment.WithCalendar(loc),
		payment.WithResolverConcurrency(cfg.Resolver.Concurrency),
	}

	if cfg.RabbitMQ.Enabled {
		app.rabbit, err = rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		if err := app.rabbit.DeclareTopicExchange(ctx, cfg.RabbitMQ.Exchange); err != nil {
			app.close(ctx)
			return nil, err
		}
		opts = append(opts, payment.WithPublisher(rabbitAdapter.NewPaymentProducer(app.rabbit, cfg.RabbitMQ.Exchange)))
	} else {
		log.Info(ctx, "rabbitmq disabled, reconciliation events will not be published")
	}

	app.payments = payment.NewPaymentService(client, log, opts...)
	app.dashboard = dashboard.NewDashboardService(client, log)
	app.reports = report.NewReportService(client, app.payments, loc, log)

	app.httpServer, err = server.New(cfg.Server, app.payments, app.dashboard, app.reports, log)
	if err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("failed to create http server: %w", err)
	}

	return app, nil
}

func (a *App) Payments() *payment.PaymentService {
	return a.payments
}

func (a *App) Reports() *report.ReportService {
	return a.reports
}

// Run serves HTTP until SIGINT/SIGTERM or a server failure.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.httpServer.Run(ctx, errCh)
	defer func() {
		a.close(ctx)
		a.log.Info(ctx, "admin service closed")
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	a.log.Info(ctx, "admin service started")

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shuting down application", "signal", sig.String())
		return nil
	case <-ctx.Done():
		return nil
	}
}

// Close releases everything NewApplication opened. Used by one-shot commands.
func (a *App) Close(ctx context.Context) {
	a.close(ctx)
}

func (a *App) close(ctx context.Context) {
	ctx = wrap.WithAction(ctx, "app_close")

	if a.httpServer != nil {
		if err := a.httpServer.Stop(context.WithoutCancel(ctx)); err != nil {
			a.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
		}
	}

	// loads still running must not publish a snapshot after shutdown
	if a.payments != nil {
		a.payments.Close()
	}

	if a.rabbit != nil {
		timeout := a.cfg.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		if err := a.rabbit.Close(shutdownCtx); err != nil {
			a.log.Warn(ctx, "Failed to close rabbitmq connection", "error", err.Error())
		}
	}
}
