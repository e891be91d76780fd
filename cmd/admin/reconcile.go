package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Temutjin2k/carpool-admin/internal/domain/types"
	"github.com/spf13/cobra"
)

func reconcileCmd() *cobra.Command {
	var driverID string

	cmd := &cobra.Command{
		Use:     "reconcile",
		Short:   "Mark every pending payment of a driver as paid",
		Long:    `Loads the payment overview, marks the driver's pending payments as paid one by one and prints the result. A failure stops the run and keeps the updates already applied.`,
		Example: `carpool-admin reconcile --driver 64f1c2a9e4b0a1b2c3d4e5f6`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if driverID == "" {
				return cmd.Help()
			}
			ctx := cmd.Context()

			application, _, _, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer application.Close(ctx)

			result, runErr := application.Payments().MarkDriverPaid(ctx, driverID)
			if runErr != nil && !errors.Is(runErr, types.ErrReconcileFailed) {
				return runErr
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}

			if runErr != nil {
				return fmt.Errorf("reconciliation stopped at payment %s: %w", result.FailedID, runErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&driverID, "driver", "", "Driver id to reconcile")

	return cmd
}
