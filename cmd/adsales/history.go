package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aouyang1/go-adsales/history"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		histPath string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded analysis runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("history") {
				a.cfg.HistoryPath = histPath
			}
			store, err := history.Open(cmd.Context(), a.cfg.HistoryPath)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tbl := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tbl, "ID\tCREATED\tDATASET\tSEED\tTRAIN\tTEST\tMSE\tRMSE\tR2")
			for _, r := range runs {
				fmt.Fprintf(tbl, "%s\t%s\t%s\t%d\t%d\t%d\t%.4f\t%.4f\t%.4f\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Dataset, r.Seed,
					r.TrainRows, r.TestRows, r.MSE, r.RMSE, r.R2)
			}
			return tbl.Flush()
		},
	}
	cmd.Flags().StringVar(&histPath, "history", "", "sqlite file holding the runs (overrides config)")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list, 0 for all")
	return cmd
}
