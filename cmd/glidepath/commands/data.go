package commands

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/rpgo/glidepath/internal/output"
	"github.com/spf13/cobra"
)

func newDataCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Inspect the return data",
	}

	check := &cobra.Command{
		Use:   "check",
		Short: "Report coverage, statistics and quality issues of the monthly closes",
		Long: `Load the return data and report:
- first and last month and the number of closes
- mean, median, standard deviation, min and max of monthly percent changes
- missing months, non-positive closes and moves larger than 25%

Example:
  glidepath data check --data sp500.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			series, err := a.series()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			first, last := series.Coverage()
			stats := series.Statistics()

			fmt.Fprintf(w, "=== Return data: %s ===\n\n", series.Source)
			table := tablewriter.NewWriter(w)
			table.Header("Metric", "Value")
			rows := [][]string{
				{"Coverage", fmt.Sprintf("%s - %s", first, last)},
				{"Closes", fmt.Sprintf("%d", series.Len())},
				{"Monthly changes", fmt.Sprintf("%d", stats.Count)},
				{"Mean change", output.FormatPercentage(stats.Mean)},
				{"Median change", output.FormatPercentage(stats.Median)},
				{"Std deviation", output.FormatPercentage(stats.StdDev)},
				{"Worst month", output.FormatPercentage(stats.Min)},
				{"Best month", output.FormatPercentage(stats.Max)},
				{"Missing months", fmt.Sprintf("%d", len(stats.MissingMonths))},
			}
			for _, row := range rows {
				if err := table.Append(row); err != nil {
					return err
				}
			}
			if err := table.Render(); err != nil {
				return err
			}

			issues := series.ValidateDataQuality()
			if len(issues) == 0 {
				fmt.Fprintln(w, "\nNo data quality issues found")
				return nil
			}
			fmt.Fprintf(w, "\n%d data quality issue(s):\n", len(issues))
			for _, issue := range issues {
				fmt.Fprintf(w, "  - %s\n", issue)
			}
			return nil
		},
	}

	cmd.AddCommand(check)
	return cmd
}
