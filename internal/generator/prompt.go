package generator

import (
	"fmt"
	"sort"
	"strings"

	"StrideCoach/internal/model"
)

// PromptContext is everything upstream produced for one run.
type PromptContext struct {
	Input         *model.OrchestratorInput
	Priority      model.Priority
	EnergyDebt    model.EnergyDebtResult
	Comeback      *model.ComebackResult
	Budget        *model.BudgetAnalysis
	Jobs          *model.MatchResult
	Comparison    *model.Comparison
	RegionalHints []string
	Similar       *model.SimilarContext
	Currency      string
}

const systemPrompt = `You are a budget and wellbeing coach for students.
Write exactly one tip and reply with ONLY a JSON object:
{"title": "...", "message": "...", "category": "...", "action": {"label": "...", "href": "..."}}
Rules:
- title: at most 6 words. message: one or two sentences.
- category: one of energy, progress, mission, opportunity, warning, celebration.
- action.href must be one of: %s
- Never name third-party apps, platforms or brands. Never include links.
- Never suggest investing, trading, betting or taking loans.
- Only quote numbers that appear below. If a "Similar situations" section exists you may cite its counts, nothing else.`

// BuildPrompt returns the system and user prompts for a completion call.
func BuildPrompt(pc PromptContext) (system, user string) {
	routes := make([]string, 0, len(allowedRoutes))
	for r := range allowedRoutes {
		routes = append(routes, r)
	}
	sort.Strings(routes)
	system = fmt.Sprintf(systemPrompt, strings.Join(routes, ", "))

	var b strings.Builder
	in := pc.Input
	cur := currencyOr(pc.Currency)

	fmt.Fprintf(&b, "Top priority: %s\n", pc.Priority)
	if in != nil {
		fmt.Fprintf(&b, "Current energy: %.0f/100\n", in.CurrentEnergy)
		fmt.Fprintf(&b, "Goal progress: %.0f%%\n", in.GoalProgress)
		if in.HasGoal() {
			fmt.Fprintf(&b, "Still missing: %s\n", money(cur, in.Deficit()))
		}
		if len(in.Commitments) > 0 {
			b.WriteString("Active commitments:\n")
			for _, c := range in.Commitments {
				fmt.Fprintf(&b, "- %s (%s, %.0f h/week, %s/week)\n", c.Title, c.Category, c.WeeklyHours, money(cur, c.WeeklyEarnings))
			}
		}
	}

	if pc.EnergyDebt.Detected {
		fmt.Fprintf(&b, "Energy debt: %s severity, %d low weeks in a row, suggested target cut %.0f%%\n",
			pc.EnergyDebt.Severity, pc.EnergyDebt.ConsecutiveLow, pc.EnergyDebt.TargetReduction*100)
	}
	if pc.Comeback != nil && pc.Comeback.Detected {
		fmt.Fprintf(&b, "Comeback window: confidence %.0f%%, %s to catch up\n", pc.Comeback.Confidence*100, money(cur, pc.Comeback.Deficit))
	}
	if pc.Budget != nil {
		fmt.Fprintf(&b, "Budget: %s (monthly margin %s)\n", pc.Budget.Severity, money(cur, pc.Budget.Margin))
		for _, o := range pc.Budget.Optimizations {
			fmt.Fprintf(&b, "- %s: saves %s/month, %s effort\n", o.Title, money(cur, o.MonthlySavings), o.Effort)
		}
	}
	if pc.Jobs != nil && len(pc.Jobs.Matches) > 0 {
		b.WriteString("Opportunities:\n")
		for _, m := range pc.Jobs.Matches {
			fmt.Fprintf(&b, "- %s: %s/h, ~%.0f h/week, %s effort\n", m.Title, money(cur, m.HourlyRate), m.WeeklyHours, m.Effort)
		}
	}
	if pc.Comparison != nil {
		fmt.Fprintf(&b, "Strategy: %s\n", pc.Comparison.RecommendationText)
	}
	if len(pc.RegionalHints) > 0 {
		b.WriteString("Regional hints:\n")
		for _, h := range pc.RegionalHints {
			fmt.Fprintf(&b, "- %s\n", h)
		}
	}
	if pc.Similar != nil && pc.Similar.Exemplars != "" {
		b.WriteString("Similar situations:\n")
		b.WriteString(pc.Similar.Exemplars)
		b.WriteString("\n")
	}
	b.WriteString("Write the tip now.")
	return system, b.String()
}
