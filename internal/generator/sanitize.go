package generator

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"StrideCoach/internal/model"
)

// genericPlatform replaces any deny-listed brand.
const genericPlatform = "a platform"

// neutralAction replaces sign-up and apply-now phrasing.
const neutralAction = "explore opportunities"

// DefaultAction is used whenever a suggested route is not allow-listed.
var DefaultAction = model.Action{Label: "Open my plan", Href: "/plan"}

// allowedRoutes are the in-app paths a tip may link to.
var allowedRoutes = map[string]bool{
	"/":            true,
	"/dashboard":   true,
	"/plan":        true,
	"/plan/goals":  true,
	"/plan/jobs":   true,
	"/plan/budget": true,
	"/plan/skills": true,
	"/progress":    true,
	"/energy":      true,
	"/settings":    true,
}

// deniedBrands are third-party platforms tips must not name. Compound names come
// before their prefixes so "Uber-Eats" is replaced whole.
var deniedBrands = []string{
	`uber[\s-]*eats`, `just[\s-]*eats?`, `student[\s-]*jobs?`,
	"uber", "deliveroo", "doordash", "glovo", "instacart", "lyft",
	"fiverr", "upwork", "malt", "taskrabbit", "linkedin",
	"superprof", "airbnb", "vinted", "ebay", "etsy", "leboncoin", "amazon",
}

var (
	urlPattern    = regexp.MustCompile(`(?i)(?:https?://|www\.)[^\s<>"]*[^\s<>".,;:!?)]|\b[a-z0-9-]+\.(?:com|fr|co\.uk|io|net|org|de|es)\b(?:/[^\s<>"]*[^\s<>".,;:!?)])?`)
	brandPattern  = regexp.MustCompile(`(?i)\b(?:(?:a|an|the)\s+)?(?:` + strings.Join(deniedBrands, "|") + `)\b`)
	actionPattern = regexp.MustCompile(`(?i)\b(?:sign(?:ing)?\s+up|register|apply|join|subscribe)\s+(?:on|to|at|with|for)\s+(?:a\s+platform|[\w'&-]+)(?:\s+(?:now|today|right\s+away))?`)
	spaces        = regexp.MustCompile(`\s+`)
)

// Sanitize scrubs brand names, sign-up phrasing and links from a tip and forces
// its action onto an allow-listed route. Sanitize(Sanitize(t)) == Sanitize(t).
func Sanitize(t model.Tip) model.Tip {
	out := model.Tip{
		Title:    sanitizeText(t.Title),
		Message:  sanitizeText(t.Message),
		Category: t.Category,
	}
	if !out.Category.Valid() {
		out.Category = model.CategoryProgress
	}
	if t.Action != nil {
		a := sanitizeAction(*t.Action)
		out.Action = &a
	}
	return out
}

func sanitizeText(s string) string {
	s = urlPattern.ReplaceAllString(s, "the app")
	s = brandPattern.ReplaceAllString(s, genericPlatform)
	s = actionPattern.ReplaceAllStringFunc(s, func(m string) string {
		if r := []rune(m); len(r) > 0 && unicode.IsUpper(r[0]) {
			return "Explore opportunities"
		}
		return neutralAction
	})
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

func sanitizeAction(a model.Action) model.Action {
	path, ok := internalPath(a.Href)
	if !ok {
		return DefaultAction
	}
	label := sanitizeText(a.Label)
	if label == "" {
		label = DefaultAction.Label
	}
	return model.Action{Label: label, Href: path}
}

// internalPath returns the allow-listed path of href, without query or fragment.
func internalPath(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if !strings.HasPrefix(href, "/") || strings.HasPrefix(href, "//") {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	path := u.Path
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	if !allowedRoutes[path] {
		return "", false
	}
	return path, true
}

// ContainsDeniedBrand reports whether s still names a deny-listed platform.
func ContainsDeniedBrand(s string) bool {
	return brandPattern.MatchString(s)
}

// IsAllowedRoute reports whether href is an allow-listed in-app route as-is.
func IsAllowedRoute(href string) bool {
	path, ok := internalPath(href)
	return ok && path == href
}
