package calculator

import "StrideCoach/internal/model"

// ResolvePriority applies the fixed precedence, first match wins:
// high energy debt, comeback, low energy, goal at risk, celebration, general.
func ResolvePriority(debt model.EnergyDebtResult, comeback *model.ComebackResult, in *model.OrchestratorInput, th Thresholds) model.Priority {
	th = th.WithDefaults()
	switch {
	case debt.Detected && debt.Severity == model.SeverityHigh:
		return model.PriorityEnergyDebtCritical
	case comeback != nil && comeback.Detected:
		return model.PriorityComebackOpportunity
	case in.CurrentEnergy < th.LowEnergy:
		return model.PriorityEnergyCritical
	case in.HasGoal() && in.GoalProgress < th.LowProgress:
		return model.PriorityGoalAtRisk
	case in.GoalProgress >= th.HighProgress:
		return model.PriorityCelebration
	default:
		return model.PriorityGeneral
	}
}
