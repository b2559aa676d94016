package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"billing-reconciliation/internal/export"
	"billing-reconciliation/internal/schedule"
)

func newRunCmd(opts func() appOptions) *cobra.Command {
	var (
		period   string
		outFile  string
		xlsxFile string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile one bill-through period and print the dashboard payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts())
			if err != nil {
				return err
			}
			defer a.Close()

			if period == "" {
				period = schedule.PreviousDay(time.Now())
			}
			result, err := a.uc.Reconcile(ctx, period)
			if err != nil {
				return fmt.Errorf("reconciliation failed: %w", err)
			}

			if err := writeOutput(outFile, func(w io.Writer) error {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(result.Run.Payload)
			}); err != nil {
				return fmt.Errorf("failed to write payload: %w", err)
			}

			if xlsxFile != "" {
				if err := writeOutput(xlsxFile, func(w io.Writer) error {
					return export.WriteWorkbook(w, result.Detail)
				}); err != nil {
					return fmt.Errorf("failed to write workbook: %w", err)
				}
				a.logger.Info("audit workbook written", "path", xlsxFile)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&period, "period", "p", "", "bill-through date, YYYY-MM-DD (default: yesterday)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "-", "payload output file, - for stdout")
	cmd.Flags().StringVar(&xlsxFile, "xlsx", "", "also write an audit workbook to this path")
	return cmd
}

// writeOutput runs write against stdout for "-" or a created file otherwise.
func writeOutput(path string, write func(io.Writer) error) error {
	if path == "-" || path == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
