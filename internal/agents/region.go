package agents

import (
	"strings"

	"StrideCoach/internal/model"
)

var regionalHints = map[string][]string{
	"fr": {
		"Tutoring demand peaks in the weeks before the baccalauréat",
		"Harvest and tourism jobs open up from June to September",
		"Universities hire students for library and open-day shifts",
	},
	"uk": {
		"Universities run paid student ambassador schemes",
		"Retail hires extra weekend staff from October to January",
		"Exam invigilation pays well in May and June",
	},
	"us": {
		"Campus work-study positions are posted each semester",
		"Summer camps recruit counselors from February",
		"Tax season creates short data-entry contracts",
	},
	"default": {
		"Campus jobs are often posted at the start of each term",
		"Local associations look for tutors and event helpers",
	},
}

var currencySymbols = map[string]string{
	"EUR": "€",
	"GBP": "£",
	"USD": "$",
	"CHF": "CHF ",
	"CAD": "CA$",
}

var regionCurrency = map[string]string{
	"fr": "EUR",
	"uk": "GBP",
	"us": "USD",
}

// RegionalHints returns location-derived opportunities. Nil when no location is known.
func RegionalHints(loc *model.Location) []string {
	if loc == nil {
		return nil
	}
	hints, ok := regionalHints[strings.ToLower(loc.Region)]
	if !ok {
		hints = regionalHints["default"]
	}
	out := append([]string(nil), hints...)
	if city := strings.TrimSpace(loc.City); city != "" {
		out = append(out, "Check the campus job board of "+city)
	}
	return out
}

// CurrencySymbol picks the symbol for the user's currency, falling back to the region, then euros.
func CurrencySymbol(loc *model.Location) string {
	if loc == nil {
		return "€"
	}
	code := strings.ToUpper(loc.Currency)
	if code == "" {
		code = regionCurrency[strings.ToLower(loc.Region)]
	}
	if sym, ok := currencySymbols[code]; ok {
		return sym
	}
	return "€"
}
