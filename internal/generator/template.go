package generator

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"StrideCoach/internal/model"
)

// catchUpWeeks is the horizon of a comeback catch-up plan.
const catchUpWeeks = 4

// CategoryFor is the tip category implied by a priority tag.
func CategoryFor(p model.Priority) model.Category {
	switch p {
	case model.PriorityEnergyDebtCritical, model.PriorityEnergyCritical:
		return model.CategoryEnergy
	case model.PriorityComebackOpportunity:
		return model.CategoryOpportunity
	case model.PriorityGoalAtRisk:
		return model.CategoryWarning
	case model.PriorityCelebration:
		return model.CategoryCelebration
	default:
		return model.CategoryProgress
	}
}

// TemplateTip builds a deterministic tip for the priority tag. It never fails.
func TemplateTip(pc PromptContext) model.Tip {
	in := pc.Input
	if in == nil {
		in = &model.OrchestratorInput{}
	}
	cur := currencyOr(pc.Currency)
	category := CategoryFor(pc.Priority)

	switch pc.Priority {
	case model.PriorityEnergyDebtCritical:
		return model.Tip{
			Title: "Time to recharge",
			Message: fmt.Sprintf("Your energy has been low for %d weeks in a row. Lower this week's target by %.0f%% and protect your rest.",
				pc.EnergyDebt.ConsecutiveLow, pc.EnergyDebt.TargetReduction*100),
			Category: category,
			Action:   &model.Action{Label: "Adjust my targets", Href: "/plan/goals"},
		}

	case model.PriorityComebackOpportunity:
		deficit := in.Deficit()
		if pc.Comeback != nil && pc.Comeback.Deficit > 0 {
			deficit = pc.Comeback.Deficit
		}
		return model.Tip{
			Title: "Your comeback window is open",
			Message: fmt.Sprintf("Your energy is back at %.0f. Spread the %s still missing over the next %d weeks, about %s per week.",
				in.CurrentEnergy, money(cur, deficit), catchUpWeeks, money(cur, deficit/catchUpWeeks)),
			Category: category,
			Action:   &model.Action{Label: "See my plan", Href: "/plan"},
		}

	case model.PriorityEnergyCritical:
		return model.Tip{
			Title:    "Go easy this week",
			Message:  fmt.Sprintf("Your energy is at %.0f%%. Pick one small task today and leave the rest for when you feel better.", in.CurrentEnergy),
			Category: category,
			Action:   &model.Action{Label: "Log my energy", Href: "/energy"},
		}

	case model.PriorityGoalAtRisk:
		next := "Review your weekly target so it stays reachable."
		if pc.Comparison != nil {
			next = fmt.Sprintf("A good next step: %s.", pc.Comparison.BestQuickWin.Strategy.Description)
		}
		return model.Tip{
			Title:    "Your goal needs a boost",
			Message:  fmt.Sprintf("You are at %.0f%% of your goal with %s to go. %s", in.GoalProgress, money(cur, in.Deficit()), next),
			Category: category,
			Action:   &model.Action{Label: "Open my goals", Href: "/plan/goals"},
		}

	case model.PriorityCelebration:
		return model.Tip{
			Title:    "Almost there!",
			Message:  fmt.Sprintf("You have reached %.0f%% of your goal. Keep the same rhythm and you will cross the line soon.", in.GoalProgress),
			Category: category,
			Action:   &model.Action{Label: "View my progress", Href: "/progress"},
		}

	default:
		msg := "Small weekly steps add up. Review your plan and pick one action for this week."
		if pc.Comparison != nil {
			msg = pc.Comparison.RecommendationText
		}
		return model.Tip{
			Title:    "Keep the momentum",
			Message:  msg,
			Category: category,
			Action:   &model.Action{Label: "Open my plan", Href: "/plan"},
		}
	}
}

func currencyOr(c string) string {
	if c == "" {
		return "€"
	}
	return c
}

// money formats an amount with thousands separators and no decimals.
func money(currency string, v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return currency + humanize.Comma(int64(math.Round(v)))
}
