package agents

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"StrideCoach/internal/model"
)

const (
	maxMatches      = 5
	maxFallback     = 3
	lowEnergyCutoff = 40
)

// Skill names shorter than fuzzyMinLen must match exactly or by substring.
const (
	fuzzyMinLen  = 5
	fuzzyMaxDist = 2
)

type opportunity struct {
	id             string
	title          string
	skills         []string
	hourlyRate     float64
	weeklyHours    float64
	effort         model.Effort
	daysToFirstPay int
}

// opportunityCatalog is the fixed list of opportunity templates.
var opportunityCatalog = []opportunity{
	{"tutoring", "Private tutoring", []string{"maths", "physics", "english", "teaching", "french"}, 22, 4, model.EffortMedium, 7},
	{"web-freelance", "Freelance web development", []string{"javascript", "html", "css", "react", "python", "web development"}, 30, 8, model.EffortHigh, 21},
	{"graphic-design", "Graphic design commissions", []string{"design", "photoshop", "illustrator", "figma", "drawing"}, 25, 5, model.EffortMedium, 14},
	{"translation", "Document translation", []string{"english", "spanish", "german", "french", "translation", "writing"}, 20, 4, model.EffortLow, 10},
	{"data-entry", "Data entry for small businesses", []string{"excel", "typing", "spreadsheets", "organisation"}, 14, 6, model.EffortLow, 5},
	{"social-media", "Social media management", []string{"marketing", "instagram", "copywriting", "communication", "video editing"}, 18, 5, model.EffortMedium, 14},
	{"pet-sitting", "Pet sitting and dog walking", []string{"animals", "dogs", "care"}, 13, 6, model.EffortLow, 3},
	{"event-staff", "Event staffing", []string{"hospitality", "customer service", "communication"}, 15, 10, model.EffortHigh, 7},
	{"delivery", "Bike delivery shifts", []string{"cycling", "driving", "logistics"}, 12, 10, model.EffortHigh, 3},
	{"proofreading", "Proofreading theses and reports", []string{"writing", "english", "french", "editing", "proofreading"}, 19, 3, model.EffortLow, 7},
}

// JobMatcher is the default opportunity agent.
type JobMatcher struct{}

// MatchOpportunities ranks catalog templates against the caller's skills.
// High-effort templates are left out when energy is low. When nothing overlaps
// it returns the best-paid templates instead, flagged as a fallback.
func (JobMatcher) MatchOpportunities(ctx context.Context, skills []string, energy float64) (*model.MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	normalized := normalizeSkills(skills)
	if len(normalized) == 0 {
		return nil, nil
	}

	eligible := make([]opportunity, 0, len(opportunityCatalog))
	maxRate := 0.0
	for _, o := range opportunityCatalog {
		if energy < lowEnergyCutoff && o.effort == model.EffortHigh {
			continue
		}
		eligible = append(eligible, o)
		if o.hourlyRate > maxRate {
			maxRate = o.hourlyRate
		}
	}

	var matches []model.OpportunityMatch
	for _, o := range eligible {
		matched := matchSkills(normalized, o.skills)
		if len(matched) == 0 {
			continue
		}
		overlap := float64(len(matched)) / float64(len(normalized))
		if overlap > 1 {
			overlap = 1
		}
		score := 0.6*overlap + 0.3*o.hourlyRate/maxRate + 0.1*effortEase(o.effort)
		matches = append(matches, toMatch(o, matched, score))
	}

	if len(matches) == 0 {
		return fallbackMatches(eligible, maxRate), nil
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > maxMatches {
		matches = matches[:maxMatches]
	}
	return &model.MatchResult{Matches: matches}, nil
}

func fallbackMatches(eligible []opportunity, maxRate float64) *model.MatchResult {
	picks := append([]opportunity(nil), eligible...)
	sort.SliceStable(picks, func(i, j int) bool { return picks[i].hourlyRate > picks[j].hourlyRate })
	if len(picks) > maxFallback {
		picks = picks[:maxFallback]
	}
	res := &model.MatchResult{Fallback: true}
	for _, o := range picks {
		res.Matches = append(res.Matches, toMatch(o, nil, 0.3*o.hourlyRate/maxRate))
	}
	return res
}

func toMatch(o opportunity, matched []string, score float64) model.OpportunityMatch {
	return model.OpportunityMatch{
		ID:             o.id,
		Title:          o.title,
		MatchedSkills:  matched,
		HourlyRate:     o.hourlyRate,
		WeeklyHours:    o.weeklyHours,
		Effort:         o.effort,
		DaysToFirstPay: o.daysToFirstPay,
		Score:          score,
	}
}

func effortEase(e model.Effort) float64 {
	return 1 - float64(e.Rank())/2
}

func normalizeSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// matchSkills returns the user skills that hit any of the template skills.
func matchSkills(user, template []string) []string {
	var hit []string
	for _, u := range user {
		for _, t := range template {
			if skillMatches(u, t) {
				hit = append(hit, u)
				break
			}
		}
	}
	return hit
}

func skillMatches(user, template string) bool {
	if user == template || strings.Contains(user, template) {
		return true
	}
	if len(user) >= 3 && strings.Contains(template, user) {
		return true
	}
	if len(user) < fuzzyMinLen || len(template) < fuzzyMinLen {
		return false
	}
	return levenshtein.ComputeDistance(user, template) <= fuzzyMaxDist
}
