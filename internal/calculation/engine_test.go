package calculation

import (
	"testing"

	"github.com/rpgo/glidepath/internal/domain"
	"github.com/rpgo/glidepath/internal/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineTwelveMonthAccumulation(t *testing.T) {
	engine := NewSimulationEngine(market.NewConstantProvider(d("0")))
	state := newState("0", "1", "1", "0", "01/2000", "12/2000")
	policy := NewAccumulationPolicy(d("1000"), d("0"))

	result := engine.Run(state, policy)

	assert.Equal(t, domain.Completed, result.Termination)
	assert.True(t, result.CashFlowTotal.Equal(d("12000")), "contributed %s", result.CashFlowTotal)
	// four quarter-end dividends of 0.5% compound on the equity balance before each contribution:
	// 2000*1.005 -> +3000 ... 11075.22525*1.005 + 1000
	assert.True(t, result.FinalBalance.Equal(d("12130.60137625")), "final %s", result.FinalBalance)
	assert.True(t, result.FinalFixed.IsZero())
	assert.Equal(t, 11, result.Months)
	require.Len(t, result.History, 11)
	assert.Equal(t, "02/2000", result.History[0].Month.String())
	assert.Equal(t, "12/2000", result.History[10].Month.String())
}

func TestEngineNeutralisedGrowthIsLinear(t *testing.T) {
	engine := NewSimulationEngine(market.NewConstantProvider(d("0")))
	state := newState("5000", "0.6", "0.6", "0", "01/2000", "12/2001")
	state.DividendAnnualRate = d("0")
	policy := NewAccumulationPolicy(d("1000"), d("0"))

	result := engine.Run(state, policy)

	months := 24 // month zero plus 23 stepped months
	assert.True(t, result.CashFlowTotal.Equal(d("1000").Mul(d("24"))), "contributed %s over %d months", result.CashFlowTotal, months)
	assert.True(t, result.FinalBalance.Equal(d("29000")))
	assert.True(t, result.FinalEquity.Equal(d("17400")))
	assert.True(t, result.FinalFixed.Equal(d("11600")))
}

func TestEngineJanuaryAdjustments(t *testing.T) {
	engine := NewSimulationEngine(market.NewConstantProvider(d("0")))
	state := newState("0", "1", "0", "0", "11/2000", "03/2001")
	policy := NewAccumulationPolicy(d("100"), d("10"))

	result := engine.Run(state, policy)

	// 11/2000 and 12/2000 at 100, then 01..03/2001 at 110
	assert.True(t, result.CashFlowTotal.Equal(d("530")))
	require.Len(t, result.History, 4)
	jan := result.History[1]
	assert.Equal(t, "01/2001", jan.Month.String())
	assert.True(t, jan.Allocation.Equal(d("0.5")), "glide path at 2 of 4 months")
	assert.True(t, jan.CashFlowRate.Equal(d("110")))
	assert.True(t, result.History[0].CashFlowRate.Equal(d("100")))

	// final rebalance forces the end allocation
	assert.True(t, result.FinalEquity.IsZero())
	assert.True(t, result.FinalFixed.Equal(result.FinalBalance))
}

func TestEngineEndsEarlyOnMissingData(t *testing.T) {
	returns := market.TableProvider{
		ym("02/2000"): d("0"),
		ym("03/2000"): d("0"),
		ym("04/2000"): d("0"),
	}
	log := newRecordingLogger()
	engine := NewSimulationEngine(returns)
	engine.SetLogger(log)

	state := newState("0", "0.5", "0.5", "0", "01/2000", "12/2000")
	result := engine.Run(state, NewAccumulationPolicy(d("100"), d("0")))

	assert.Equal(t, domain.EndedEarly, result.Termination)
	assert.Equal(t, "05/2000", result.EndedAt.String())
	assert.Equal(t, 3, result.Months)
	assert.True(t, result.CashFlowTotal.Equal(d("400")))
	assert.True(t, result.FinalEquity.Equal(result.FinalFixed), "final rebalance still runs")
	require.Len(t, log.messages["warn"], 1)
	assert.Contains(t, log.messages["warn"][0], "05/2000")
	assert.NotEmpty(t, log.messages["debug"])
}

func TestEngineMissingFirstMonth(t *testing.T) {
	engine := NewSimulationEngine(market.TableProvider{})
	state := newState("1000", "0.7", "0.3", "2", "01/2000", "12/2000")
	result := engine.Run(state, NewDecumulationPolicy(d("0.04"), d("0")))

	assert.Equal(t, domain.EndedEarly, result.Termination)
	assert.Equal(t, 0, result.Months)
	assert.Empty(t, result.History)
	assert.True(t, result.FinalEquity.Equal(result.FinalBalance.Mul(d("0.3"))))
}

func TestEngineInsolvencyStopsRun(t *testing.T) {
	returns := market.TableProvider{ym("02/2000"): d("-300")}
	log := newRecordingLogger()
	engine := NewSimulationEngine(returns)
	engine.SetLogger(log)

	state := newState("1000", "0.5", "0.5", "0", "01/2000", "12/2000")
	result := engine.Run(state, NewDecumulationPolicy(d("0.12"), d("0")))

	// month zero draws 10 on target: 495/495. February: equity 495*(1-3) = -990,
	// overweight draw of 0.01*-495 from equity, emergency rebalance of -490.05
	assert.Equal(t, domain.Insolvent, result.Termination)
	assert.Equal(t, "02/2000", result.EndedAt.String())
	assert.True(t, result.Shortfall.Equal(d("490.05")), "shortfall %s", result.Shortfall)
	assert.True(t, result.FinalBalance.IsZero())
	assert.Equal(t, 0, result.Months, "insolvent month is not recorded")
	require.Len(t, log.messages["info"], 1)
	assert.Contains(t, log.messages["info"][0], "out of money")
}

func TestEngineWithdrawalRateDrivesInsolvency(t *testing.T) {
	engine := NewSimulationEngine(market.NewConstantProvider(d("0")))
	state := newState("1000", "0.5", "0.5", "0", "12/1999", "12/2000")
	state.DividendAnnualRate = d("0")
	// 10.8 a year is 0.9 a month; the January increase doubles it to 1.8
	policy := NewDecumulationPolicy(d("10.8"), d("100"))

	result := engine.Run(state, policy)

	// month zero draws 900 on target: 50/50. January draws 180 of 100: -40/-40 after the rebalance
	assert.Equal(t, domain.Insolvent, result.Termination)
	assert.Equal(t, "01/2000", result.EndedAt.String())
	assert.True(t, result.Shortfall.Equal(d("80")), "shortfall %s", result.Shortfall)
	assert.True(t, result.CashFlowTotal.Equal(d("1000")), "withdrawn %s", result.CashFlowTotal)
	assert.True(t, result.FinalBalance.IsZero())
	assert.Equal(t, 0, result.Months)
}

func TestEngineDecumulationCompletes(t *testing.T) {
	engine := NewSimulationEngine(market.NewConstantProvider(d("1")))
	state := newState("1000000", "0.8", "0.4", "2", "05/2000", "05/2010")
	result := engine.Run(state, NewDecumulationPolicy(d("0.04"), d("0")))

	assert.Equal(t, domain.Completed, result.Termination)
	assert.Equal(t, 120, result.Months)
	assert.True(t, result.CashFlowTotal.IsPositive())
	assert.True(t, result.FinalBalance.IsPositive())
	assert.True(t, result.FinalEquity.Equal(result.FinalBalance.Mul(d("0.4"))))

	for _, snap := range result.History {
		assert.False(t, snap.Equity.IsNegative(), snap.Month.String())
		assert.False(t, snap.Fixed.IsNegative(), snap.Month.String())
	}
}

func TestSetLoggerNil(t *testing.T) {
	engine := NewSimulationEngine(market.NewConstantProvider(d("0")))
	engine.SetLogger(nil)
	assert.IsType(t, NopLogger{}, engine.Logger)
}
