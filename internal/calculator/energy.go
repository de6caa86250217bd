package calculator

import "StrideCoach/internal/model"

// momentumPeriod caps the Wilder smoothing window for comeback momentum.
const momentumPeriod = 14

// reductions maps a debt tier to the recommended cut in weekly targets.
var reductions = map[model.Severity]float64{
	model.SeverityLow:    0.15,
	model.SeverityMedium: 0.30,
	model.SeverityHigh:   0.50,
}

// DetectEnergyDebt inspects the trailing run of low readings.
// The tier grows with the run length and is raised one step when the run is deep
// (its mean is under th.LowEnergy). Both effects only ever push the tier up as the run grows.
func DetectEnergyDebt(history []float64, th Thresholds) model.EnergyDebtResult {
	th = th.WithDefaults()
	n, mean := trailingRun(history, th.DebtEnergy)
	if n < th.DebtMinWeeks {
		return model.EnergyDebtResult{ConsecutiveLow: n}
	}

	var tier model.Severity
	switch extra := n - th.DebtMinWeeks; {
	case extra == 0:
		tier = model.SeverityLow
	case extra == 1:
		tier = model.SeverityMedium
	default:
		tier = model.SeverityHigh
	}
	if mean < th.LowEnergy && tier < model.SeverityHigh {
		tier++
	}

	return model.EnergyDebtResult{
		Detected:        true,
		Severity:        tier,
		ConsecutiveLow:  n,
		TargetReduction: reductions[tier],
	}
}

// DetectComeback looks for a rebound from a low reading to a high latest reading
// while money is still missing. Returns nil when the history is too short to judge.
func DetectComeback(history []float64, deficit float64, th Thresholds) *model.ComebackResult {
	th = th.WithDefaults()
	if len(history) < 3 {
		return nil
	}
	res := &model.ComebackResult{Deficit: deficit}
	if !(deficit > 0) {
		return res
	}

	latest := history[len(history)-1]
	_, low, err := CalculateRange(history[:len(history)-1], 0)
	if err != nil || low >= th.DebtEnergy || latest < th.ComebackHigh {
		return res
	}
	// A lone spike straight out of a trough is not a recovery yet.
	if recent, err := CalculateSMA(history, 2); err != nil || recent < th.DebtEnergy {
		return res
	}

	period := len(history) - 1
	if period > momentumPeriod {
		period = momentumPeriod
	}
	momentum, err := CalculateMomentum(history, period)
	if err != nil {
		return res
	}
	recovery, err := CalculatePosition(latest, 100, low)
	if err != nil {
		return res
	}

	res.Detected = true
	res.Confidence = clamp01(0.5*momentum/100 + 0.5*recovery)
	return res
}
