package main

import (
	"github.com/Temutjin2k/carpool-admin/config"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the admin HTTP API",
		Long:  `Starts the admin HTTP API with health, metrics and swagger endpoints. Stops gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			application, cfg, log, err := bootstrap(ctx)
			if err != nil {
				return err
			}

			if printConfig, _ := cmd.Flags().GetBool("print-config"); printConfig {
				config.PrintConfig(cmd.OutOrStdout(), cfg)
			}

			if err := application.Run(ctx); err != nil {
				log.Error(ctx, "failed to run application", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().Bool("print-config", false, "Print the effective configuration before starting")

	return cmd
}
