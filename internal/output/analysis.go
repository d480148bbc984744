package output

import (
	"sort"

	"github.com/rpgo/glidepath/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation names the scenario that ended with the most money.
type Recommendation struct {
	ScenarioName string
	FinalBalance decimal.Decimal
	// Lead over the runner-up; zero with fewer than two scenarios
	Lead      decimal.Decimal
	Survivors int // scenarios that never ran out of money
}

// AnalyzeOutcomes ranks scenarios by the final balance of their last leg.
// Insolvent scenarios rank below every solvent one.
func AnalyzeOutcomes(report *domain.SimulationReport) Recommendation {
	type ranked struct {
		name     string
		final    decimal.Decimal
		depleted bool
	}
	var ranks []ranked
	survivors := 0
	for _, o := range report.Outcomes {
		final := o.Final()
		if final == nil {
			continue
		}
		depleted := false
		for _, leg := range o.Legs() {
			depleted = depleted || leg.IsDepleted()
		}
		if !depleted {
			survivors++
		}
		ranks = append(ranks, ranked{o.Scenario.Name, final.FinalBalance, depleted})
	}
	if len(ranks) == 0 {
		return Recommendation{}
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].depleted != ranks[j].depleted {
			return !ranks[i].depleted
		}
		return ranks[i].final.GreaterThan(ranks[j].final)
	})
	rec := Recommendation{ScenarioName: ranks[0].name, FinalBalance: ranks[0].final, Survivors: survivors}
	if len(ranks) > 1 {
		rec.Lead = ranks[0].final.Sub(ranks[1].final)
	}
	return rec
}
