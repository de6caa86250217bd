package strategy

import (
	"fmt"
	"math"

	"StrideCoach/internal/model"
)

// Caps on how many strategies each agent contributes.
const (
	maxJobStrategies          = 3
	maxOptimizationStrategies = 2
)

const (
	weeksPerMonth      = 4.33
	defaultWeeklyHours = 10
)

// effortHours is the weekly time an optimization takes while it is being set up.
var effortHours = map[model.Effort]float64{
	model.EffortLow:    0.5,
	model.EffortMedium: 1.5,
	model.EffortHigh:   3,
}

// BuildStrategies converts agent outputs into comparable strategies.
// Either input may be nil.
func BuildStrategies(budget *model.BudgetAnalysis, jobs *model.MatchResult, availableHours float64) []model.Strategy {
	var out []model.Strategy
	if jobs != nil {
		for i, m := range jobs.Matches {
			if i == maxJobStrategies {
				break
			}
			hours := m.WeeklyHours
			if availableHours > 0 {
				hours = math.Min(hours, availableHours)
			}
			out = append(out, newStrategy(
				"job:"+m.ID,
				model.StrategyJob,
				fmt.Sprintf("take on %s (~%.0f h/week)", m.Title, hours),
				m.HourlyRate*hours*weeksPerMonth,
				hours,
				m.DaysToFirstPay,
			))
		}
	}
	if budget != nil {
		for i, o := range budget.Optimizations {
			if i == maxOptimizationStrategies {
				break
			}
			out = append(out, newStrategy(
				"opt:"+o.ID,
				model.StrategyOptimization,
				lowerFirst(o.Title),
				o.MonthlySavings,
				effortHours[o.Effort],
				o.DaysToRealize,
			))
		}
	}
	return out
}

func newStrategy(id string, kind model.StrategyKind, desc string, impact, hours float64, days int) model.Strategy {
	return model.Strategy{
		ID:            id,
		Kind:          kind,
		Description:   desc,
		MonthlyImpact: impact,
		WeeklyHours:   hours,
		TimeToRealize: days,
		BaseScore:     impact / (1 + hours),
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
