package strategy

import (
	"fmt"
	"math"

	"StrideCoach/internal/model"
)

// Factor weights. They sum to 1 so totals stay in [0, 1].
const (
	weightImpact   = 0.40
	weightTimeCost = 0.25
	weightUrgency  = 0.20
	weightGoalFit  = 0.15
)

// quickHorizonDays is the horizon past which a strategy no longer counts as fast.
const quickHorizonDays = 60

// goalHorizonMonths is how far ahead goal fit looks.
const goalHorizonMonths = 3

func factor(name string, raw, weight float64, commentary string) model.FactorScore {
	return model.FactorScore{
		Name:       name,
		RawScore:   raw,
		Weight:     weight,
		Weighted:   raw * weight,
		Commentary: commentary,
	}
}

// scoreImpact scores monthly impact relative to the best strategy on the table.
// Weight: 0.40
func scoreImpact(s model.Strategy, maxImpact float64) model.FactorScore {
	raw := 0.0
	if maxImpact > 0 {
		raw = clamp01(s.MonthlyImpact / maxImpact)
	}
	return factor("impact", raw, weightImpact, fmt.Sprintf("%.0f/month", s.MonthlyImpact))
}

// scoreTimeCost penalizes strategies that eat into the user's free hours.
// Weight: 0.25
func scoreTimeCost(s model.Strategy, weeklyHours float64) model.FactorScore {
	if weeklyHours <= 0 {
		weeklyHours = defaultWeeklyHours
	}
	raw := clamp01(1 - s.WeeklyHours/weeklyHours)
	return factor("time cost", raw, weightTimeCost, fmt.Sprintf("%.1fh of %.0fh/week", s.WeeklyHours, weeklyHours))
}

// scoreUrgency rewards fast results when money is short, and is neutral otherwise.
// Weight: 0.20
func scoreUrgency(s model.Strategy, urgency model.Urgency) model.FactorScore {
	if urgency != model.UrgencyHigh {
		return factor("urgency", 0.5, weightUrgency, "normal")
	}
	days := math.Min(float64(s.TimeToRealize), quickHorizonDays)
	raw := 1 - days/quickHorizonDays
	return factor("urgency", raw, weightUrgency, fmt.Sprintf("high, %dd to realize", s.TimeToRealize))
}

// scoreGoalFit measures how much of the remaining goal the strategy covers in three months.
// Weight: 0.15
func scoreGoalFit(s model.Strategy, remaining float64) model.FactorScore {
	if remaining <= 0 {
		return factor("goal fit", 0.5, weightGoalFit, "no open goal")
	}
	raw := clamp01(s.MonthlyImpact * goalHorizonMonths / remaining)
	return factor("goal fit", raw, weightGoalFit, fmt.Sprintf("covers %.0f%%", raw*100))
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
