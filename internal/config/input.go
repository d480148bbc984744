package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rpgo/glidepath/internal/domain"
	"github.com/rpgo/glidepath/pkg/dateutil"
	"github.com/rpgo/glidepath/pkg/logger"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrValidation is wrapped by every configuration validation failure
var ErrValidation = errors.New("invalid configuration")

// Environment variables that override values from the configuration file
const (
	EnvLogLevel  = "GLIDEPATH_LOG_LEVEL"
	EnvLogFormat = "GLIDEPATH_LOG_FORMAT"
	EnvDataPath  = "GLIDEPATH_DATA_PATH"
	EnvDB        = "GLIDEPATH_DB"
)

var (
	DefaultWindowStart = dateutil.MustParseYearMonth("01/1985")
	DefaultWindowEnd   = dateutil.MustParseYearMonth("12/2024")
)

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadEnvFile loads variables from a .env file. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file, applies defaults and
// environment overrides, and validates the result
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes YAML configuration bytes
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ip.ApplyDefaults(&config)
	ip.ApplyEnvironment(&config)

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// Default returns a configuration with defaults applied and no scenarios
func (ip *InputParser) Default() *domain.Configuration {
	var config domain.Configuration
	ip.ApplyDefaults(&config)
	ip.ApplyEnvironment(&config)
	return &config
}

// ApplyDefaults fills unset fields
func (ip *InputParser) ApplyDefaults(config *domain.Configuration) {
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "console"
	}
	if config.Data.WindowStart.IsZero() {
		config.Data.WindowStart = DefaultWindowStart
	}
	if config.Data.WindowEnd.IsZero() {
		config.Data.WindowEnd = DefaultWindowEnd
	}
	if config.Experiments.LastDataYear == 0 {
		config.Experiments.LastDataYear = config.Data.WindowEnd.Year
	}
	if config.Experiments.OutputDir == "" {
		config.Experiments.OutputDir = "."
	}
	for i := range config.Scenarios {
		s := &config.Scenarios[i]
		if s.Kind == "" {
			s.Kind = domain.KindAccumulation
		}
	}
}

// ApplyEnvironment overrides file values with GLIDEPATH_* variables when set
func (ip *InputParser) ApplyEnvironment(config *domain.Configuration) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		config.Log.Format = strings.ToLower(v)
	}
	if v := os.Getenv(EnvDataPath); v != "" {
		config.Data.Path = v
	}
	if v := os.Getenv(EnvDB); v != "" {
		config.Storage.DSN = v
	}
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if !logger.ValidLevel(config.Log.Level) {
		return invalid("log level %q must be debug, info, warn or error", config.Log.Level)
	}
	switch config.Log.Format {
	case "console", "pretty", "json":
	default:
		return invalid("log format %q must be console or json", config.Log.Format)
	}

	if config.Data.WindowEnd.Before(config.Data.WindowStart) {
		return invalid("data window ends (%s) before it starts (%s)", config.Data.WindowEnd, config.Data.WindowStart)
	}

	if err := ip.validateExperiments(&config.Experiments); err != nil {
		return err
	}

	seen := make(map[string]bool, len(config.Scenarios))
	for i, scenario := range config.Scenarios {
		if err := ip.validateScenario(&scenario, config.Data); err != nil {
			return fmt.Errorf("scenario %d validation failed: %w", i, err)
		}
		if seen[scenario.Name] {
			return fmt.Errorf("scenario %d validation failed: %w", i, invalid("duplicate scenario name %q", scenario.Name))
		}
		seen[scenario.Name] = true
	}

	return nil
}

func (ip *InputParser) validateExperiments(exp *domain.ExperimentConfig) error {
	if exp.Workers < 0 {
		return invalid("experiments.workers cannot be negative")
	}
	if exp.WindowCount < 0 {
		return invalid("experiments.window_count cannot be negative")
	}
	if exp.WindowSpanYears < 0 {
		return invalid("experiments.window_span_years cannot be negative")
	}
	return nil
}

// validateScenario validates a single scenario
func (ip *InputParser) validateScenario(scenario *domain.Scenario, data domain.DataConfig) error {
	if scenario.Name == "" {
		return invalid("scenario name is required")
	}
	if !scenario.Kind.Valid() {
		return invalid("scenario %q: unknown kind %q", scenario.Name, scenario.Kind)
	}
	if err := validateHorizon(scenario.Name, scenario.StartMonth, scenario.EndMonth, data); err != nil {
		return err
	}
	if scenario.InitialBalance.IsNegative() {
		return invalid("scenario %q: initial balance cannot be negative", scenario.Name)
	}
	if err := validateAllocations(scenario.Name, scenario.StartAllocation, scenario.EndAllocation); err != nil {
		return err
	}

	switch scenario.Kind {
	case domain.KindAccumulation:
		if scenario.MonthlyContribution.IsNegative() {
			return invalid("scenario %q: monthly contribution cannot be negative", scenario.Name)
		}
	case domain.KindDecumulation:
		if err := validateWithdrawalRate(scenario.Name, scenario.AnnualWithdrawalRate); err != nil {
			return err
		}
	case domain.KindLifecycle:
		if scenario.MonthlyContribution.IsNegative() {
			return invalid("scenario %q: monthly contribution cannot be negative", scenario.Name)
		}
		w := scenario.Withdrawal
		if w == nil {
			return invalid("scenario %q: lifecycle scenarios need a withdrawal section", scenario.Name)
		}
		if !w.EndMonth.After(scenario.EndMonth) {
			return invalid("scenario %q: withdrawal end %s must follow accumulation end %s", scenario.Name, w.EndMonth, scenario.EndMonth)
		}
		if err := validateHorizon(scenario.Name, scenario.EndMonth, w.EndMonth, data); err != nil {
			return err
		}
		if err := validateAllocations(scenario.Name, w.StartAllocation, w.EndAllocation); err != nil {
			return err
		}
		if err := validateWithdrawalRate(scenario.Name, w.AnnualWithdrawalRate); err != nil {
			return err
		}
	}

	return nil
}

func validateHorizon(name string, start, end dateutil.YearMonth, data domain.DataConfig) error {
	if start.IsZero() || end.IsZero() {
		return invalid("scenario %q: start and end months are required", name)
	}
	if end.Before(start) {
		return invalid("scenario %q: end %s is before start %s", name, end, start)
	}
	if end.Equal(start) {
		return invalid("scenario %q: horizon must be at least one month", name)
	}
	if start.Before(data.WindowStart) || end.After(data.WindowEnd) {
		return invalid("scenario %q: %s-%s is outside the data window %s-%s", name, start, end, data.WindowStart, data.WindowEnd)
	}
	return nil
}

func validateAllocations(name string, allocations ...decimal.Decimal) error {
	for _, a := range allocations {
		if a.IsNegative() || a.GreaterThan(decimal.NewFromInt(1)) {
			return invalid("scenario %q: allocation %s must be between 0 and 1", name, a)
		}
	}
	return nil
}

func validateWithdrawalRate(name string, rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return invalid("scenario %q: annual withdrawal rate %s must be in [0, 1)", name, rate)
	}
	return nil
}

// ExampleConfiguration is the documented configuration written by `glidepath example-config`
const ExampleConfiguration = `# glidepath configuration
log:
  level: info        # debug | info | warn | error
  format: console    # console | json

data:
  # CSV of monthly closes: header row, then "MM/YYYY,close" or "YYYY-MM,close"
  path: data/sp500.csv
  window_start: 01/1985
  window_end: 12/2024

storage:
  # SQLite file for run history; leave empty to disable persistence
  dsn: ""

scenarios:
  # Monthly contributions into a portfolio gliding from 90% to 60% equity
  - name: Saver 2000-2019
    kind: accumulation
    start: 01/2000
    end: 12/2019
    initial_balance: 10000
    start_allocation: 90%
    end_allocation: 60%
    fixed_yield_percent: 2
    monthly_contribution: 1000
    annual_increase_percent: 3

  # Withdrawing 4% a year, rebalanced every January
  - name: Retiree 2000-2024
    kind: decumulation
    start: 01/2000
    end: 12/2024
    initial_balance: 1000000
    start_allocation: 60%
    end_allocation: 40%
    fixed_yield_percent: 2
    annual_withdrawal_rate: 4%
    annual_increase_percent: 0

  # Save, then spend what was saved
  - name: Full lifecycle
    kind: lifecycle
    start: 01/1990
    end: 12/2009
    initial_balance: 0
    start_allocation: 100%
    end_allocation: 60%
    fixed_yield_percent: 2
    monthly_contribution: 1500
    annual_increase_percent: 2
    withdrawal:
      end: 12/2024
      start_allocation: 60%
      end_allocation: 40%
      annual_withdrawal_rate: 4%
      annual_increase_percent: 0

experiments:
  workers: 0            # 0 = one per CPU
  output_dir: results
  last_data_year: 2024
  window_count: 10      # rolling windows starting May 1985, May 1986, ...
  window_span_years: 30
`

// CreateExampleConfiguration returns the parsed example configuration
func (ip *InputParser) CreateExampleConfiguration() (*domain.Configuration, error) {
	return ip.Parse([]byte(ExampleConfiguration))
}

// WriteExampleConfiguration writes the documented example configuration to path
func (ip *InputParser) WriteExampleConfiguration(path string) error {
	if err := os.WriteFile(path, []byte(ExampleConfiguration), 0o644); err != nil {
		return fmt.Errorf("failed to write example configuration: %w", err)
	}
	return nil
}
