package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/rpgo/glidepath/internal/config"
	"github.com/rpgo/glidepath/internal/domain"
	"github.com/rpgo/glidepath/internal/output"
	"github.com/rpgo/glidepath/internal/store"
	"github.com/rpgo/glidepath/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type reportFlags struct {
	format string
	outDir string
}

func (f *reportFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "console", "output format: console, monthly, csv, detailed-csv, html, json or all")
	cmd.Flags().StringVar(&f.outDir, "out", "", "write timestamped report files to this directory instead of stdout")
}

func newSimulateCmd(a *app) *cobra.Command {
	var (
		scenarioName string
		report       reportFlags
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the scenarios in the configuration file",
		Long: `Run every configured scenario (or one, with --scenario) over the return data
and print or write the report.

Example:
  glidepath simulate --config glidepath.yaml
  glidepath simulate --config glidepath.yaml --scenario "Full lifecycle" --format monthly`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *a.cfg
			if scenarioName != "" {
				s, ok := a.cfg.FindScenario(scenarioName)
				if !ok {
					return fmt.Errorf("scenario %q not found in configuration", scenarioName)
				}
				cfg.Scenarios = []domain.Scenario{s}
			}
			if len(cfg.Scenarios) == 0 {
				return fmt.Errorf("no scenarios configured: pass --config or use simulate accumulate|withdraw")
			}
			return a.simulate(cmd.Context(), cmd.OutOrStdout(), &cfg, report)
		},
	}
	cmd.Flags().StringVarP(&scenarioName, "scenario", "s", "", "run only the named scenario")
	report.bind(cmd)

	cmd.AddCommand(newAccumulateCmd(a), newWithdrawCmd(a))
	return cmd
}

// simulate runs the scenarios, records each leg and renders the report
func (a *app) simulate(ctx context.Context, w io.Writer, cfg *domain.Configuration, flags reportFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	runner, err := a.runner()
	if err != nil {
		return err
	}
	report, err := runner.RunScenarios(ctx, cfg)
	if err != nil {
		return err
	}

	rec, err := a.recorder()
	if err != nil {
		return err
	}
	defer rec.Close()
	if err := recordReport(ctx, rec, report); err != nil {
		return err
	}

	if flags.outDir != "" {
		files, err := output.GenerateReport(report, flags.format, flags.outDir)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintf(w, "Wrote %s\n", f)
		}
		return nil
	}

	f := output.GetFormatterByName(flags.format)
	if f == nil {
		return fmt.Errorf("%w: %q (use --out for \"all\")", output.ErrUnsupportedFormat, flags.format)
	}
	data, err := f.Format(report)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func recordReport(ctx context.Context, rec store.Recorder, report *domain.SimulationReport) error {
	for _, outcome := range report.Outcomes {
		for _, leg := range outcome.Legs() {
			if _, err := rec.RecordRun(ctx, outcome.Scenario.Name, *leg); err != nil {
				return fmt.Errorf("record %s: %w", outcome.Scenario.Name, err)
			}
		}
	}
	return nil
}

// adHocFlags are the one-off run inputs; allocations and rates are given in percent
type adHocFlags struct {
	name            string
	start, end      string
	initial         string
	startAllocation string
	endAllocation   string
	yield           string
	increase        string
	report          reportFlags
}

func (f *adHocFlags) bind(cmd *cobra.Command, defaultInitial string) {
	cmd.Flags().StringVar(&f.name, "name", cmd.Name(), "scenario name used in reports and the result store")
	cmd.Flags().StringVar(&f.start, "start", "", "first month (MM/YYYY)")
	cmd.Flags().StringVar(&f.end, "end", "", "last month (MM/YYYY)")
	cmd.Flags().StringVar(&f.initial, "initial", defaultInitial, "starting balance")
	cmd.Flags().StringVar(&f.startAllocation, "start-allocation", "80", "equity allocation at the start, percent")
	cmd.Flags().StringVar(&f.endAllocation, "end-allocation", "", "equity allocation at the end, percent (default: start allocation)")
	cmd.Flags().StringVar(&f.yield, "yield", "2", "fixed income annual yield, percent")
	cmd.Flags().StringVar(&f.increase, "increase", "0", "cash flow increase applied every January, percent")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	f.report.bind(cmd)
}

// scenario builds the common part of a one-off scenario
func (f *adHocFlags) scenario(kind domain.ScenarioKind) (domain.Scenario, error) {
	s := domain.Scenario{Name: f.name, Kind: kind}
	var err error
	if s.StartMonth, err = dateutil.ParseYearMonth(f.start); err != nil {
		return s, fmt.Errorf("--start: %w", err)
	}
	if s.EndMonth, err = dateutil.ParseYearMonth(f.end); err != nil {
		return s, fmt.Errorf("--end: %w", err)
	}
	if s.InitialBalance, err = decimal.NewFromString(f.initial); err != nil {
		return s, fmt.Errorf("--initial: %w", err)
	}
	if s.StartAllocation, err = percentFlag("start-allocation", f.startAllocation); err != nil {
		return s, err
	}
	s.EndAllocation = s.StartAllocation
	if f.endAllocation != "" {
		if s.EndAllocation, err = percentFlag("end-allocation", f.endAllocation); err != nil {
			return s, err
		}
	}
	if s.FixedYieldPercent, err = decimal.NewFromString(f.yield); err != nil {
		return s, fmt.Errorf("--yield: %w", err)
	}
	if s.AnnualIncreasePercent, err = decimal.NewFromString(f.increase); err != nil {
		return s, fmt.Errorf("--increase: %w", err)
	}
	return s, nil
}

// percentFlag converts a percent flag value such as "80" to the fraction 0.8
func percentFlag(name, value string) (decimal.Decimal, error) {
	pct, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: %w", name, err)
	}
	return pct.Div(decimal.NewFromInt(100)), nil
}

// runAdHoc validates a one-off scenario against the configured data window and runs it
func (a *app) runAdHoc(cmd *cobra.Command, s domain.Scenario, flags reportFlags) error {
	cfg := *a.cfg
	cfg.Scenarios = []domain.Scenario{s}
	if err := config.NewInputParser().ValidateConfiguration(&cfg); err != nil {
		return err
	}
	return a.simulate(cmd.Context(), cmd.OutOrStdout(), &cfg, flags)
}

func newAccumulateCmd(a *app) *cobra.Command {
	var (
		flags        adHocFlags
		contribution string
	)
	cmd := &cobra.Command{
		Use:   "accumulate",
		Short: "Simulate monthly contributions over a period",
		Example: `  glidepath simulate accumulate --data sp500.csv --start 05/1990 --end 05/2020 \
    --contribution 1000 --start-allocation 90 --end-allocation 60 --increase 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := flags.scenario(domain.KindAccumulation)
			if err != nil {
				return err
			}
			if s.MonthlyContribution, err = decimal.NewFromString(contribution); err != nil {
				return fmt.Errorf("--contribution: %w", err)
			}
			return a.runAdHoc(cmd, s, flags.report)
		},
	}
	flags.bind(cmd, "0")
	cmd.Flags().StringVar(&contribution, "contribution", "1000", "monthly contribution")
	return cmd
}

func newWithdrawCmd(a *app) *cobra.Command {
	var (
		flags adHocFlags
		rate  string
	)
	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Simulate withdrawals from a starting balance over a period",
		Example: `  glidepath simulate withdraw --data sp500.csv --start 01/2000 --end 12/2024 \
    --initial 1000000 --withdrawal-rate 4 --start-allocation 60 --end-allocation 40`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := flags.scenario(domain.KindDecumulation)
			if err != nil {
				return err
			}
			if s.AnnualWithdrawalRate, err = percentFlag("withdrawal-rate", rate); err != nil {
				return err
			}
			return a.runAdHoc(cmd, s, flags.report)
		},
	}
	flags.bind(cmd, "1000000")
	cmd.Flags().StringVar(&rate, "withdrawal-rate", "4", "share of the portfolio withdrawn per year, percent")
	return cmd
}
