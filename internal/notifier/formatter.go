package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"StrideCoach/internal/model"
)

var categoryIcon = map[model.Category]string{
	model.CategoryEnergy:      "🔋",
	model.CategoryProgress:    "📈",
	model.CategoryMission:     "🎯",
	model.CategoryOpportunity: "💼",
	model.CategoryWarning:     "⚠️",
	model.CategoryCelebration: "🎉",
}

// FormatTip formats one run's output into a Telegram message.
func FormatTip(name string, out model.OrchestratorOutput) string {
	var b strings.Builder

	icon, ok := categoryIcon[out.Tip.Category]
	if !ok {
		icon = "💡"
	}
	if name != "" {
		b.WriteString(fmt.Sprintf("%s <b>%s</b> | %s\n\n", icon, esc(out.Tip.Title), esc(name)))
	} else {
		b.WriteString(fmt.Sprintf("%s <b>%s</b>\n\n", icon, esc(out.Tip.Title)))
	}
	b.WriteString(esc(out.Tip.Message))
	b.WriteString("\n")
	if a := out.Tip.Action; a != nil {
		b.WriteString(fmt.Sprintf("👉 %s (<code>%s</code>)\n", esc(a.Label), esc(a.Href)))
	}

	// Signals
	ins := out.Insights
	var signals []string
	if ins.EnergyDebt.Detected {
		signals = append(signals, fmt.Sprintf("  Energy debt: %s, %d weeks low, ease off %.0f%%",
			ins.EnergyDebt.Severity, ins.EnergyDebt.ConsecutiveLow, ins.EnergyDebt.TargetReduction*100))
	}
	if ins.Comeback != nil && ins.Comeback.Detected {
		signals = append(signals, fmt.Sprintf("  Comeback window: %.0f%% confidence", ins.Comeback.Confidence*100))
	}
	if ag := ins.Agents; ag != nil {
		if ag.Budget != nil {
			signals = append(signals, fmt.Sprintf("  Budget: %s (margin %s)", ag.Budget.Severity, amount(ag.Budget.Margin)))
		}
		if ag.Comparison != nil {
			best := ag.Comparison.BestOverall
			signals = append(signals, fmt.Sprintf("  Best lever: %s (~%s/month, %s)",
				esc(best.Strategy.Description), amount(best.Strategy.MonthlyImpact), best.Tier.Label))
		}
	}
	if len(signals) > 0 {
		b.WriteString("\n📊 <b>Signals:</b>\n")
		b.WriteString(strings.Join(signals, "\n"))
		b.WriteString("\n")
	}

	p := out.Processing
	b.WriteString(fmt.Sprintf("\n<i>%s · %s/%s · %dms</i>",
		ins.TopPriority, p.OrchestrationType, p.TipSource, p.Duration.Milliseconds()))
	return b.String()
}

// FormatProfiles lists the known profiles for the /profiles command.
func FormatProfiles(profiles []model.OrchestratorInput) string {
	if len(profiles) == 0 {
		return "No profiles configured."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("👥 <b>Profiles</b> (%d)\n\n", len(profiles)))
	for _, p := range profiles {
		b.WriteString("• <code>" + esc(p.ProfileID) + "</code>")
		if p.Name != "" {
			b.WriteString(" " + esc(p.Name))
		}
		b.WriteString(fmt.Sprintf(" | energy %.0f, goal %.0f%%", p.CurrentEnergy, p.GoalProgress))
		if p.MonthlyMargin != nil {
			b.WriteString(", margin " + amount(*p.MonthlyMargin))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatRunSummary reports a scheduled run over all profiles.
func FormatRunSummary(sent, failed int, levels map[model.FallbackLevel]int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 <b>Daily tips</b>: %d sent", sent))
	if failed > 0 {
		b.WriteString(fmt.Sprintf(", %d failed", failed))
	}
	if degraded := levels[model.LevelSingle] + levels[model.LevelStatic]; degraded > 0 {
		b.WriteString(fmt.Sprintf("\n%s degraded (single %d, static %d)",
			humanize.Comma(int64(degraded)), levels[model.LevelSingle], levels[model.LevelStatic]))
	}
	return b.String()
}

func amount(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

func esc(s string) string { return html.EscapeString(s) }

// FormatDelivery shows a profile's delivery bookkeeping for the /status command.
func FormatDelivery(profileID string, d model.ProfileDelivery) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📦 <b>Delivery</b> | <code>%s</code>\n\n", esc(profileID)))
	if d.LastSentAt.IsZero() {
		b.WriteString("No tip sent yet.\n")
	} else {
		b.WriteString(fmt.Sprintf("Last tip: %s (%s, %s)\n", esc(d.LastTitle), humanize.Time(d.LastSentAt), d.LastLevel))
	}
	b.WriteString(fmt.Sprintf("Tips sent: %s\n", humanize.Comma(int64(d.TipsSent))))
	if d.ConsecutiveDegraded > 0 {
		b.WriteString(fmt.Sprintf("Degraded in a row: %d\n", d.ConsecutiveDegraded))
	}
	if d.Paused {
		b.WriteString("Scheduled tips are paused.\n")
	}
	return b.String()
}
