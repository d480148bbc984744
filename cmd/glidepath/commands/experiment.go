package commands

import (
	"fmt"
	"strings"

	"github.com/rpgo/glidepath/internal/domain"
	"github.com/rpgo/glidepath/internal/experiment"
	"github.com/rpgo/glidepath/internal/output"
	"github.com/spf13/cobra"
)

func newExperimentCmd(a *app) *cobra.Command {
	var (
		out     string
		workers int
		table   bool
	)

	cmd := &cobra.Command{
		Use:       "experiment accumulation|decumulation",
		Short:     "Sweep one variable at a time over rolling historical windows",
		ValidArgs: []string{string(domain.KindAccumulation), string(domain.KindDecumulation)},
		Long: `Run the parameter sweep for a policy. Each row varies one input from the
baseline (allocation, horizon, cash flow, annual increase, initial balance,
fixed yield, glide path end, special periods) and averages the results over
rolling windows. Results are written as tab-separated text.

Example:
  glidepath experiment accumulation --data sp500.csv --out invest.tsv
  glidepath experiment decumulation --data sp500.csv --workers 4 --table`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := domain.ScenarioKind(strings.ToLower(args[0]))
			params, err := experiment.Defaults(kind)
			if err != nil {
				return err
			}
			params = params.WithConfig(a.cfg.Experiments)

			runner, err := a.runner()
			if err != nil {
				return err
			}
			if workers == 0 {
				workers = a.cfg.Experiments.Workers
			}
			driver := experiment.NewDriver(runner, workers)
			driver.SetLogger(a.log)
			// per-trial scenario logs would drown the section progress
			runner.SetLogger(nil)

			report, err := driver.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			path, err := output.WriteExperimentFile(report, a.cfg.Experiments.OutputDir, out)
			if err != nil {
				return err
			}

			rec, err := a.recorder()
			if err != nil {
				return err
			}
			defer rec.Close()
			if err := rec.RecordExperiment(cmd.Context(), report); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if table {
				if err := output.WriteExperimentTable(w, report); err != nil {
					return err
				}
			}
			fmt.Fprintf(w, "Wrote %s (experiment %s)\n", path, report.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "TSV output file (default: <output_dir>/<kind>_experiment_<timestamp>.tsv)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent trials (default: experiments.workers, then one per CPU)")
	cmd.Flags().BoolVar(&table, "table", false, "also print the results as tables")
	return cmd
}
