package commands

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/rpgo/glidepath/internal/output"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "history",
		Short:   "List runs recorded in the result store",
		Example: `  glidepath history --db results.db --limit 20`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Storage.DSN == "" {
				return fmt.Errorf("no result store configured: set storage.dsn, GLIDEPATH_DB or --db")
			}
			rec, err := a.recorder()
			if err != nil {
				return err
			}
			defer rec.Close()

			runs, err := rec.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(w, "No runs recorded")
				return nil
			}

			table := tablewriter.NewWriter(w)
			table.Header("Recorded", "Scenario", "Policy", "Period", "Months", "Final Balance", "Cash Flow", "Status")
			for _, r := range runs {
				if err := table.Append(
					r.RecordedAt.Format("2006-01-02 15:04"),
					r.Scenario,
					r.Policy,
					r.StartMonth+" - "+r.EndMonth,
					fmt.Sprintf("%d", r.Months),
					output.FormatCurrency(r.FinalBalance),
					output.FormatCurrency(r.CashFlowTotal),
					string(r.Termination),
				); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum runs to list, newest first (0 lists all)")
	return cmd
}
