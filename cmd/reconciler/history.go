package main

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts func() appOptions) *cobra.Command {
	var (
		limit int
		id    string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived runs, or print one with --id",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts())
			if err != nil {
				return err
			}
			defer a.Close()

			if a.history == nil {
				return errors.New("run history is disabled: set history.path")
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if id != "" {
				run, err := a.history.Get(ctx, id)
				if err != nil {
					return err
				}
				return enc.Encode(run)
			}
			runs, err := a.history.List(ctx, limit)
			if err != nil {
				return err
			}
			return enc.Encode(runs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to list")
	cmd.Flags().StringVar(&id, "id", "", "print the run with this id")
	return cmd
}
