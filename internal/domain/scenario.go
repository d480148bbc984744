package domain

import (
	"fmt"
	"strings"

	"github.com/rpgo/glidepath/pkg/dateutil"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ScenarioKind selects which policies a scenario runs
type ScenarioKind string

const (
	KindAccumulation ScenarioKind = "accumulation"
	KindDecumulation ScenarioKind = "decumulation"
	KindLifecycle    ScenarioKind = "lifecycle"
)

// Valid reports whether the kind is one the runner understands
func (k ScenarioKind) Valid() bool {
	switch k {
	case KindAccumulation, KindDecumulation, KindLifecycle:
		return true
	}
	return false
}

// Scenario describes one configured simulation.
// Accumulation and decumulation use the top-level fields; lifecycle runs an accumulation with the
// top-level fields and then the Withdrawal phase starting from the accumulated balance.
type Scenario struct {
	Name                  string             `yaml:"name" json:"name"`
	Kind                  ScenarioKind       `yaml:"kind" json:"kind"`
	StartMonth            dateutil.YearMonth `yaml:"start" json:"start"`
	EndMonth              dateutil.YearMonth `yaml:"end" json:"end"`
	InitialBalance        decimal.Decimal    `yaml:"initial_balance" json:"initial_balance"`
	StartAllocation       decimal.Decimal    `yaml:"start_allocation" json:"start_allocation"`
	EndAllocation         decimal.Decimal    `yaml:"end_allocation" json:"end_allocation"`
	FixedYieldPercent     decimal.Decimal    `yaml:"fixed_yield_percent" json:"fixed_yield_percent"`
	MonthlyContribution   decimal.Decimal    `yaml:"monthly_contribution,omitempty" json:"monthly_contribution,omitempty"`
	AnnualWithdrawalRate  decimal.Decimal    `yaml:"annual_withdrawal_rate,omitempty" json:"annual_withdrawal_rate,omitempty"`
	AnnualIncreasePercent decimal.Decimal    `yaml:"annual_increase_percent" json:"annual_increase_percent"`
	Withdrawal            *WithdrawalPhase   `yaml:"withdrawal,omitempty" json:"withdrawal,omitempty"`
}

// WithdrawalPhase is the decumulation leg of a lifecycle scenario
type WithdrawalPhase struct {
	EndMonth              dateutil.YearMonth `yaml:"end" json:"end"`
	StartAllocation       decimal.Decimal    `yaml:"start_allocation" json:"start_allocation"`
	EndAllocation         decimal.Decimal    `yaml:"end_allocation" json:"end_allocation"`
	AnnualWithdrawalRate  decimal.Decimal    `yaml:"annual_withdrawal_rate" json:"annual_withdrawal_rate"`
	AnnualIncreasePercent decimal.Decimal    `yaml:"annual_increase_percent" json:"annual_increase_percent"`
}

// UnmarshalYAML accepts allocations and withdrawal rates either as fractions (0.8) or percentages ("80%")
func (s *Scenario) UnmarshalYAML(value *yaml.Node) error {
	type Alias struct {
		Name                  string             `yaml:"name"`
		Kind                  ScenarioKind       `yaml:"kind"`
		StartMonth            dateutil.YearMonth `yaml:"start"`
		EndMonth              dateutil.YearMonth `yaml:"end"`
		InitialBalance        decimal.Decimal    `yaml:"initial_balance"`
		StartAllocation       string             `yaml:"start_allocation"`
		EndAllocation         string             `yaml:"end_allocation"`
		FixedYieldPercent     decimal.Decimal    `yaml:"fixed_yield_percent"`
		MonthlyContribution   decimal.Decimal    `yaml:"monthly_contribution"`
		AnnualWithdrawalRate  string             `yaml:"annual_withdrawal_rate"`
		AnnualIncreasePercent decimal.Decimal    `yaml:"annual_increase_percent"`
		Withdrawal            *WithdrawalPhase   `yaml:"withdrawal"`
	}

	var aux Alias
	if err := value.Decode(&aux); err != nil {
		return err
	}

	s.Name = aux.Name
	s.Kind = ScenarioKind(strings.ToLower(string(aux.Kind)))
	s.StartMonth = aux.StartMonth
	s.EndMonth = aux.EndMonth
	s.InitialBalance = aux.InitialBalance
	s.FixedYieldPercent = aux.FixedYieldPercent
	s.MonthlyContribution = aux.MonthlyContribution
	s.AnnualIncreasePercent = aux.AnnualIncreasePercent
	s.Withdrawal = aux.Withdrawal

	var err error
	if s.StartAllocation, err = ParseFraction(aux.StartAllocation); err != nil {
		return fmt.Errorf("scenario %q start_allocation: %w", aux.Name, err)
	}
	if s.EndAllocation, err = ParseFraction(aux.EndAllocation); err != nil {
		return fmt.Errorf("scenario %q end_allocation: %w", aux.Name, err)
	}
	if s.AnnualWithdrawalRate, err = ParseFraction(aux.AnnualWithdrawalRate); err != nil {
		return fmt.Errorf("scenario %q annual_withdrawal_rate: %w", aux.Name, err)
	}
	return nil
}

// UnmarshalYAML accepts fractions or percentages for the withdrawal leg as well
func (w *WithdrawalPhase) UnmarshalYAML(value *yaml.Node) error {
	type Alias struct {
		EndMonth              dateutil.YearMonth `yaml:"end"`
		StartAllocation       string             `yaml:"start_allocation"`
		EndAllocation         string             `yaml:"end_allocation"`
		AnnualWithdrawalRate  string             `yaml:"annual_withdrawal_rate"`
		AnnualIncreasePercent decimal.Decimal    `yaml:"annual_increase_percent"`
	}

	var aux Alias
	if err := value.Decode(&aux); err != nil {
		return err
	}

	w.EndMonth = aux.EndMonth
	w.AnnualIncreasePercent = aux.AnnualIncreasePercent

	var err error
	if w.StartAllocation, err = ParseFraction(aux.StartAllocation); err != nil {
		return fmt.Errorf("withdrawal start_allocation: %w", err)
	}
	if w.EndAllocation, err = ParseFraction(aux.EndAllocation); err != nil {
		return fmt.Errorf("withdrawal end_allocation: %w", err)
	}
	if w.AnnualWithdrawalRate, err = ParseFraction(aux.AnnualWithdrawalRate); err != nil {
		return fmt.Errorf("withdrawal annual_withdrawal_rate: %w", err)
	}
	return nil
}

// ParseFraction parses "0.8" as 0.8 and "80%" as 0.8. An empty string is zero.
func ParseFraction(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		d, err := decimal.NewFromString(strings.TrimSpace(pct))
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid percentage %q", s)
		}
		return d.Div(decimal.NewFromInt(100)), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid fraction %q", s)
	}
	return d, nil
}

// PortfolioParams returns the construction inputs for the first leg of the scenario
func (s Scenario) PortfolioParams() PortfolioParams {
	return PortfolioParams{
		StartAmount:             s.InitialBalance,
		StartAllocation:         s.StartAllocation,
		EndAllocation:           s.EndAllocation,
		FixedYieldAnnualPercent: s.FixedYieldPercent,
		StartMonth:              s.StartMonth,
		EndMonth:                s.EndMonth,
	}
}

// WithdrawalParams returns the inputs for the decumulation leg of a lifecycle scenario,
// starting at the accumulation end month with the given balance
func (s Scenario) WithdrawalParams(startAmount decimal.Decimal) PortfolioParams {
	w := s.Withdrawal
	if w == nil {
		w = &WithdrawalPhase{}
	}
	return PortfolioParams{
		StartAmount:             startAmount,
		StartAllocation:         w.StartAllocation,
		EndAllocation:           w.EndAllocation,
		FixedYieldAnnualPercent: s.FixedYieldPercent,
		StartMonth:              s.EndMonth,
		EndMonth:                w.EndMonth,
	}
}
