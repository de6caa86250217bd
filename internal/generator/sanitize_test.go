package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StrideCoach/internal/model"
)

func TestSanitize_RewritesBrandsAndActions(t *testing.T) {
	in := model.Tip{
		Title:    "Earn with Deliveroo",
		Message:  "Sign up on Uber Eats now and apply to Fiverr today for quick cash.",
		Category: model.CategoryOpportunity,
		Action:   &model.Action{Label: "Go", Href: "https://www.fiverr.com/join"},
	}
	got := Sanitize(in)

	assert.Equal(t, "Earn with a platform", got.Title)
	assert.Equal(t, "Explore opportunities and explore opportunities for quick cash.", got.Message)
	require.NotNil(t, got.Action)
	assert.Equal(t, DefaultAction, *got.Action)
	assert.False(t, ContainsDeniedBrand(got.Title+" "+got.Message))
}

func TestSanitize_CompoundBrandSpellings(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Deliver with UberEats tonight.", "Deliver with a platform tonight."},
		{"Try Uber-Eats", "Try a platform"},
		{"Order on JustEat.", "Order on a platform."},
		{"Order on Just-Eats.", "Order on a platform."},
		{"Browse student-jobs listings", "Browse a platform listings"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Sanitize(model.Tip{Title: "t", Message: tt.in, Category: model.CategoryOpportunity})
			assert.Equal(t, tt.want, got.Message)
			assert.False(t, ContainsDeniedBrand(got.Message))
		})
	}
}

func TestSanitize_Links(t *testing.T) {
	got := Sanitize(model.Tip{Title: "t", Message: "See https://upwork.com/jobs?x=1. Or visit vinted.fr for deals.", Category: model.CategoryMission})
	assert.Equal(t, "See the app. Or visit the app for deals.", got.Message)
}

func TestSanitize_Routes(t *testing.T) {
	tests := []struct {
		href string
		want model.Action
	}{
		{"/plan/jobs", model.Action{Label: "Label", Href: "/plan/jobs"}},
		{"/plan/jobs/", model.Action{Label: "Label", Href: "/plan/jobs"}},
		{"/plan?tab=jobs#top", model.Action{Label: "Label", Href: "/plan"}},
		{"/admin", DefaultAction},
		{"//evil.example/plan", DefaultAction},
		{"http://localhost/plan", DefaultAction},
		{"javascript:alert(1)", DefaultAction},
		{"plan", DefaultAction},
		{"", DefaultAction},
	}
	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			got := Sanitize(model.Tip{Title: "t", Message: "m", Category: model.CategoryEnergy, Action: &model.Action{Label: "Label", Href: tt.href}})
			require.NotNil(t, got.Action)
			assert.Equal(t, tt.want, *got.Action)
			assert.True(t, IsAllowedRoute(got.Action.Href))
		})
	}
}

func TestSanitize_KeepsCleanTipsAndFixesCategory(t *testing.T) {
	clean := model.Tip{Title: "Go easy", Message: "Rest tonight.", Category: model.CategoryEnergy}
	assert.Equal(t, clean, Sanitize(clean))

	bad := Sanitize(model.Tip{Title: "x", Message: "y", Category: "bogus"})
	assert.Equal(t, model.CategoryProgress, bad.Category)
	assert.Nil(t, bad.Action)
}

func TestSanitize_Idempotent(t *testing.T) {
	corpus := []model.Tip{
		{Title: "Try  Uber", Message: "Register with TaskRabbit right away.", Category: "warning"},
		{Title: "An Amazon gig", Message: "apply to apply to Malt now", Category: "nope"},
		{Title: "Links", Message: "www.etsy.com/shop and https://linkedin.com, then join the Vinted community", Category: "mission"},
		{Title: "Sign up for a platform now", Message: "signing up on a platform today", Category: "energy"},
		{Title: "  spaced\t\tout  ", Message: "Join\nwith\nLyft now!", Category: "celebration", Action: &model.Action{Label: "Apply to Upwork", Href: "/progress/"}},
		{Title: "", Message: "", Category: "", Action: &model.Action{}},
		{Title: "Just  Eat and uber eats", Message: "Subscribe to Glovo. Apply at StudentJob today.", Category: "opportunity", Action: &model.Action{Label: "", Href: "/energy"}},
	}
	for _, tip := range corpus {
		once := Sanitize(tip)
		twice := Sanitize(once)
		assert.Equal(t, once, twice, "input %+v", tip)
		assert.False(t, ContainsDeniedBrand(once.Title), once.Title)
		assert.False(t, ContainsDeniedBrand(once.Message), once.Message)
		if once.Action != nil {
			assert.True(t, IsAllowedRoute(once.Action.Href), once.Action.Href)
			assert.False(t, ContainsDeniedBrand(once.Action.Label))
			assert.NotEmpty(t, once.Action.Label)
		}
		assert.True(t, once.Category.Valid())
	}
}
