package main

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/carpool-admin/config"
	"github.com/Temutjin2k/carpool-admin/internal/app"
	"github.com/Temutjin2k/carpool-admin/pkg/logger"
	"github.com/spf13/cobra"
)

const serviceName = "carpool-admin"

var configPath string

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           serviceName,
		Short:         "CarPool admin dashboard service",
		Long:          `carpool-admin serves the admin dashboard API over the CarPool backend: payment reconciliation, monthly revenue, ride statistics and report exports.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config-path", "config.yaml", "Path to the config yaml file")

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(reportCmd())
	cmd.AddCommand(reconcileCmd())

	return cmd
}

// bootstrap loads the configuration and builds the application.
func bootstrap(ctx context.Context) (*app.App, *config.Config, logger.Logger, error) {
	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to configure application: %w", err)
	}

	log := logger.InitLogger(serviceName, cfg.Log.Level)

	application, err := app.NewApplication(ctx, *cfg, log)
	if err != nil {
		log.Error(ctx, "failed to init application", err)
		return nil, nil, nil, err
	}

	return application, cfg, log, nil
}
