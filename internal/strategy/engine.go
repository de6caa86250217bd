package strategy

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"StrideCoach/internal/model"
)

// Tiers maps a total score to how firmly the recommendation is worded.
var Tiers = []struct {
	MinScore float64
	Tier     model.ConfidenceTier
}{
	{0.70, model.ConfidenceTier{Label: "strong", Verb: "should"}},
	{0.45, model.ConfidenceTier{Label: "moderate", Verb: "could"}},
}

// DefaultTier is the tier for scores below every threshold.
var DefaultTier = model.ConfidenceTier{Label: "weak", Verb: "might"}

// mapTier maps a total score to a ConfidenceTier.
func mapTier(totalScore float64) model.ConfidenceTier {
	for _, t := range Tiers {
		if totalScore >= t.MinScore {
			return t.Tier
		}
	}
	return DefaultTier
}

// UrgencyFor derives the comparator urgency from a monthly margin.
func UrgencyFor(margin *float64) model.Urgency {
	if margin != nil && *margin < 0 {
		return model.UrgencyHigh
	}
	return model.UrgencyNormal
}

// Score computes the factor breakdown of one strategy.
func Score(s model.Strategy, maxImpact float64, ctx model.StrategyContext) model.ScoredStrategy {
	factors := []model.FactorScore{
		scoreImpact(s, maxImpact),
		scoreTimeCost(s, ctx.WeeklyHours),
		scoreUrgency(s, ctx.Urgency),
		scoreGoalFit(s, ctx.RemainingGoal),
	}
	total := 0.0
	for _, f := range factors {
		total += f.Weighted
	}
	return model.ScoredStrategy{Strategy: s, Factors: factors, Total: total, Tier: mapTier(total)}
}

// Compare ranks strategies and picks the best overall, quickest and biggest.
// Returns nil when there is nothing to compare.
func Compare(strategies []model.Strategy, ctx model.StrategyContext, currency string) *model.Comparison {
	if len(strategies) == 0 {
		return nil
	}
	maxImpact := 0.0
	for _, s := range strategies {
		maxImpact = math.Max(maxImpact, s.MonthlyImpact)
	}

	ranked := make([]model.ScoredStrategy, len(strategies))
	for i, s := range strategies {
		ranked[i] = Score(s, maxImpact, ctx)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Strategy.TimeToRealize < b.Strategy.TimeToRealize
	})

	quick, long := ranked[0], ranked[0]
	for _, r := range ranked[1:] {
		// ranked is already in score order, so strict comparisons keep the higher total on ties
		if r.Strategy.TimeToRealize < quick.Strategy.TimeToRealize {
			quick = r
		}
		if r.Strategy.MonthlyImpact > long.Strategy.MonthlyImpact {
			long = r
		}
	}

	cmp := &model.Comparison{
		BestOverall:  ranked[0],
		BestQuickWin: quick,
		BestLongTerm: long,
		Ranked:       ranked,
	}
	cmp.RecommendationText = recommendation(cmp, currency)
	return cmp
}

func recommendation(c *model.Comparison, currency string) string {
	if currency == "" {
		currency = "€"
	}
	best := c.BestOverall
	var b strings.Builder
	fmt.Fprintf(&b, "You %s %s: about %s%s per month, first results within %d days.",
		best.Tier.Verb, best.Strategy.Description,
		currency, humanize.Comma(int64(math.Round(best.Strategy.MonthlyImpact))),
		best.Strategy.TimeToRealize)
	if c.BestQuickWin.Strategy.ID != best.Strategy.ID {
		fmt.Fprintf(&b, " Quick win: %s.", c.BestQuickWin.Strategy.Description)
	}
	if c.BestLongTerm.Strategy.ID != best.Strategy.ID && c.BestLongTerm.Strategy.ID != c.BestQuickWin.Strategy.ID {
		fmt.Fprintf(&b, " Biggest lever: %s.", c.BestLongTerm.Strategy.Description)
	}
	return b.String()
}
