package model

// Category is the closed set of tip categories the app knows how to render.
type Category string

const (
	CategoryEnergy      Category = "energy"
	CategoryProgress    Category = "progress"
	CategoryMission     Category = "mission"
	CategoryOpportunity Category = "opportunity"
	CategoryWarning     Category = "warning"
	CategoryCelebration Category = "celebration"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryEnergy, CategoryProgress, CategoryMission, CategoryOpportunity, CategoryWarning, CategoryCelebration:
		return true
	}
	return false
}

// Action is an optional in-app navigation suggestion.
type Action struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Tip is the only user-visible artifact of a run.
type Tip struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Category Category `json:"category"`
	Action   *Action  `json:"action,omitempty"`
}
