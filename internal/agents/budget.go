package agents

import (
	"context"
	"math"
	"sort"

	"StrideCoach/internal/model"
)

// Margin thresholds for the budget severity buckets.
const (
	criticalBelow = 0
	warningBelow  = 50
	tightBelow    = 200
)

const maxOptimizations = 3

// optimizationCatalog is the fixed list of expense-reduction suggestions.
var optimizationCatalog = []model.Optimization{
	{ID: "subscriptions", Title: "Cancel unused subscriptions", Category: "subscriptions", MonthlySavings: 25, Effort: model.EffortLow, DaysToRealize: 2},
	{ID: "meal-prep", Title: "Batch-cook lunches instead of buying them", Category: "food", MonthlySavings: 80, Effort: model.EffortMedium, DaysToRealize: 7},
	{ID: "student-discounts", Title: "Switch to student rates on transport and phone", Category: "transport", MonthlySavings: 30, Effort: model.EffortLow, DaysToRealize: 5},
	{ID: "phone-plan", Title: "Move to a cheaper phone plan", Category: "phone", MonthlySavings: 15, Effort: model.EffortLow, DaysToRealize: 3},
	{ID: "flatshare", Title: "Share housing costs with a flatmate", Category: "housing", MonthlySavings: 200, Effort: model.EffortHigh, DaysToRealize: 45},
	{ID: "energy-bills", Title: "Renegotiate the energy contract", Category: "utilities", MonthlySavings: 20, Effort: model.EffortMedium, DaysToRealize: 14},
	{ID: "second-hand", Title: "Buy course material second-hand", Category: "education", MonthlySavings: 35, Effort: model.EffortLow, DaysToRealize: 10},
	{ID: "bike-commute", Title: "Commute by bike a few days a week", Category: "transport", MonthlySavings: 40, Effort: model.EffortMedium, DaysToRealize: 7},
}

// BudgetSeverityFor buckets a monthly margin.
func BudgetSeverityFor(margin float64) model.BudgetSeverity {
	switch {
	case margin < criticalBelow:
		return model.BudgetCritical
	case margin < warningBelow:
		return model.BudgetWarning
	case margin < tightBelow:
		return model.BudgetTight
	default:
		return model.BudgetComfortable
	}
}

// BudgetAnalyzer is the default budget agent.
type BudgetAnalyzer struct{}

// AnalyzeBudget buckets the margin and picks up to three optimizations.
// Under pressure the cheapest-to-do items come first, otherwise the biggest savings.
func (BudgetAnalyzer) AnalyzeBudget(ctx context.Context, margin float64) (*model.BudgetAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if math.IsNaN(margin) || math.IsInf(margin, 0) {
		return nil, nil
	}
	severity := BudgetSeverityFor(margin)

	picks := append([]model.Optimization(nil), optimizationCatalog...)
	urgent := severity == model.BudgetCritical || severity == model.BudgetWarning
	sort.SliceStable(picks, func(i, j int) bool {
		if urgent && picks[i].Effort != picks[j].Effort {
			return picks[i].Effort.Rank() < picks[j].Effort.Rank()
		}
		return picks[i].MonthlySavings > picks[j].MonthlySavings
	})
	if len(picks) > maxOptimizations {
		picks = picks[:maxOptimizations]
	}

	total := 0.0
	for _, o := range picks {
		total += o.MonthlySavings
	}
	return &model.BudgetAnalysis{
		Margin:           margin,
		Severity:         severity,
		Optimizations:    picks,
		PotentialSavings: total,
	}, nil
}
