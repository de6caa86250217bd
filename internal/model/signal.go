package model

// Severity is the ordered tier of an energy debt: none < low < medium < high.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return "none"
	}
}

// MarshalText renders the tier by name in JSON and YAML output.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// EnergyDebtResult describes a run of consecutive low-energy periods.
type EnergyDebtResult struct {
	Detected        bool     `json:"detected"`
	Severity        Severity `json:"severity"`
	ConsecutiveLow  int      `json:"consecutiveLow"`
	TargetReduction float64  `json:"targetReduction"`
}

// ComebackResult describes a rebound from low to high energy while a deficit remains.
type ComebackResult struct {
	Detected   bool    `json:"detected"`
	Confidence float64 `json:"confidence"`
	Deficit    float64 `json:"deficit"`
}

// Priority is the tag that selects which kind of advice a run produces.
type Priority string

const (
	PriorityEnergyDebtCritical  Priority = "energy_debt_critical"
	PriorityComebackOpportunity Priority = "comeback_opportunity"
	PriorityEnergyCritical      Priority = "energy_critical"
	PriorityGoalAtRisk          Priority = "goal_at_risk"
	PriorityCelebration         Priority = "celebration"
	PriorityGeneral             Priority = "general"
)

// FactorScore represents a single factor's scoring result.
type FactorScore struct {
	Name       string  `json:"name"`
	RawScore   float64 `json:"rawScore"`
	Weight     float64 `json:"weight"`
	Weighted   float64 `json:"weighted"`
	Commentary string  `json:"commentary"`
}

// ConfidenceTier maps a total strategy score range to a wording strength.
type ConfidenceTier struct {
	Label string `json:"label"`
	Verb  string `json:"verb"`
}
