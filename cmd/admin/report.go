package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Temutjin2k/carpool-admin/internal/service/report"
	"github.com/Temutjin2k/carpool-admin/pkg/validator"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export admin reports",
		Long:  `Exports reports from the CarPool backend as CSV or XLSX.`,
	}

	cmd.PersistentFlags().String("format", "csv", "Report format (csv, xlsx)")
	cmd.PersistentFlags().StringP("output", "o", "", "Output file, stdout when empty")

	cmd.AddCommand(reportRidesCmd())
	cmd.AddCommand(reportPaymentsCmd())

	return cmd
}

func reportRidesCmd() *cobra.Command {
	var f report.RideFilter

	cmd := &cobra.Command{
		Use:     "rides",
		Short:   "Export the rides report",
		Example: `carpool-admin report rides --format xlsx --month March --output rides.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := validator.New()
			if f.Validate(v); !v.Valid() {
				return fmt.Errorf("invalid filter: %v", v.Errors)
			}

			return runReport(cmd, func(ctx context.Context, s *report.ReportService, w io.Writer, format string) (int, error) {
				rf, err := report.ParseFormat(format)
				if err != nil {
					return 0, err
				}
				return s.ExportRides(ctx, w, f, rf)
			})
		},
	}

	cmd.Flags().StringVar(&f.Month, "month", "", "All or an English month name")
	cmd.Flags().StringVar(&f.Driver, "driver", "", "Driver name fragment, case-insensitive")
	cmd.Flags().StringVar(&f.From, "from", "", "Lower date bound")
	cmd.Flags().StringVar(&f.To, "to", "", "Upper date bound, a bare date includes the whole day")

	return cmd
}

func reportPaymentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "payments",
		Short:   "Export the per-driver payments report",
		Example: `carpool-admin report payments --format csv --output payments.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, func(ctx context.Context, s *report.ReportService, w io.Writer, format string) (int, error) {
				rf, err := report.ParseFormat(format)
				if err != nil {
					return 0, err
				}
				return s.ExportPayments(ctx, w, rf)
			})
		},
	}
}

type exportFunc func(ctx context.Context, s *report.ReportService, w io.Writer, format string) (int, error)

func runReport(cmd *cobra.Command, export exportFunc) (err error) {
	ctx := cmd.Context()
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	if _, err := report.ParseFormat(format); err != nil {
		return err
	}

	application, _, _, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer application.Close(ctx)

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		file, err := os.Create(output)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := file.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = file
	}

	rows, err := export(ctx, application.Reports(), w, format)
	if err != nil {
		return err
	}

	if output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d rows to %s\n", rows, output)
	}
	return nil
}
