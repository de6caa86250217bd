package generator

import (
	"math/rand/v2"

	"StrideCoach/internal/model"
)

// staticTips are shown when the pipeline cannot vouch for anything better.
var staticTips = []model.Tip{
	{
		Title:    "One step at a time",
		Message:  "Pick the single most useful task for your goal this week and block an hour for it.",
		Category: model.CategoryProgress,
		Action:   &model.Action{Label: "Open my plan", Href: "/plan"},
	},
	{
		Title:    "Check in with yourself",
		Message:  "Log how you feel today. Knowing your energy helps you plan a realistic week.",
		Category: model.CategoryEnergy,
		Action:   &model.Action{Label: "Log my energy", Href: "/energy"},
	},
	{
		Title:    "Review your budget",
		Message:  "Take five minutes to look at this month's spending and spot one cost you can trim.",
		Category: model.CategoryWarning,
		Action:   &model.Action{Label: "Open my budget", Href: "/plan/budget"},
	},
	{
		Title:    "Your skills have value",
		Message:  "List one skill you enjoy using. It may be the start of a new way to earn.",
		Category: model.CategoryOpportunity,
		Action:   &model.Action{Label: "Update my skills", Href: "/plan/skills"},
	},
	{
		Title:    "Look how far you came",
		Message:  "Every saved amount counts. Take a moment to look at the progress you already made.",
		Category: model.CategoryCelebration,
		Action:   &model.Action{Label: "View my progress", Href: "/progress"},
	},
}

// Picker returns an index in [0, n). rand.IntN satisfies it.
type Picker func(n int) int

// StaticTip returns a sanitized copy of one of the pre-authored tips. A nil
// picker uses the global source.
func StaticTip(pick Picker) model.Tip {
	if pick == nil {
		pick = rand.IntN
	}
	i := pick(len(staticTips))
	if i < 0 || i >= len(staticTips) {
		i = 0
	}
	return Sanitize(staticTips[i])
}

// IsStatic reports whether t is one of the pre-authored tips.
func IsStatic(t model.Tip) bool {
	for _, s := range staticTips {
		if s.Title == t.Title && s.Message == t.Message {
			return true
		}
	}
	return false
}
