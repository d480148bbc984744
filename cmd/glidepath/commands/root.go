package commands

import (
	"errors"
	"fmt"

	"github.com/rpgo/glidepath/internal/calculation"
	"github.com/rpgo/glidepath/internal/config"
	"github.com/rpgo/glidepath/internal/domain"
	"github.com/rpgo/glidepath/internal/market"
	"github.com/rpgo/glidepath/internal/store"
	"github.com/rpgo/glidepath/pkg/logger"
	"github.com/spf13/cobra"
)

// app carries the global flags and what PersistentPreRunE builds from them
type app struct {
	configFile string
	envFile    string
	dataPath   string
	dbPath     string
	logLevel   string
	logFormat  string

	cfg *domain.Configuration
	log *logger.Logger
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "glidepath",
		Short: "Two-asset glide path simulator",
		Long: `glidepath simulates a portfolio split between equities and fixed income over
historical monthly returns, while contributing (accumulation) or withdrawing
(decumulation) along a linear allocation glide path.

Examples:
  glidepath simulate --config glidepath.yaml
  glidepath simulate accumulate --data sp500.csv --start 05/1990 --end 05/2020 --contribution 1000
  glidepath experiment decumulation --data sp500.csv --out withdraw.tsv
  glidepath data check --data sp500.csv`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "configuration file (YAML)")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file with GLIDEPATH_* overrides")
	rootCmd.PersistentFlags().StringVar(&a.dataPath, "data", "", "CSV of monthly closes (overrides data.path)")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite file for recording results (overrides storage.dsn)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "console|json")

	rootCmd.AddCommand(
		newSimulateCmd(a),
		newExperimentCmd(a),
		newDataCmd(a),
		newHistoryCmd(a),
		newExampleConfigCmd(),
	)
	return rootCmd
}

// Execute runs the CLI
func Execute() error {
	return NewRootCmd().Execute()
}

// setup loads .env and configuration, applies flag overrides and builds the logger.
// Flags beat environment variables, which beat the configuration file.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnvFile(a.envFile); err != nil {
		return err
	}

	parser := config.NewInputParser()
	if a.configFile != "" {
		cfg, err := parser.LoadFromFile(a.configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		a.cfg = cfg
	} else {
		a.cfg = parser.Default()
	}

	if a.dataPath != "" {
		a.cfg.Data.Path = a.dataPath
	}
	if a.dbPath != "" {
		a.cfg.Storage.DSN = a.dbPath
	}
	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		a.cfg.Log.Format = a.logFormat
	}
	if !logger.ValidLevel(a.cfg.Log.Level) {
		return fmt.Errorf("%w: log level %q", config.ErrValidation, a.cfg.Log.Level)
	}

	a.log = logger.New(logger.Options{
		Level:  a.cfg.Log.Level,
		Format: a.cfg.Log.Format,
		Out:    cmd.ErrOrStderr(),
	})
	return nil
}

var errNoData = errors.New("no return data: set data.path, GLIDEPATH_DATA_PATH or --data")

// series loads the configured monthly closes
func (a *app) series() (*market.HistoricalSeries, error) {
	if a.cfg.Data.Path == "" {
		return nil, errNoData
	}
	series, err := market.LoadHistoricalSeries(a.cfg.Data.Path)
	if err != nil {
		return nil, err
	}
	first, last := series.Coverage()
	a.log.WithField("points", series.Len()).Debugf("loaded %s covering %s to %s", series.Source, first, last)
	return series, nil
}

// runner builds a scenario runner over the configured return series
func (a *app) runner() (*calculation.Runner, error) {
	series, err := a.series()
	if err != nil {
		return nil, err
	}
	runner := calculation.NewRunner(series)
	runner.DataSource = series.Source
	runner.SetLogger(a.log)
	return runner, nil
}

func (a *app) recorder() (store.Recorder, error) {
	rec, err := store.Open(a.cfg.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("open result store: %w", err)
	}
	return rec, nil
}
