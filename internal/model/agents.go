package model

// BudgetSeverity buckets a monthly margin.
type BudgetSeverity string

const (
	BudgetCritical    BudgetSeverity = "critical"
	BudgetWarning     BudgetSeverity = "warning"
	BudgetTight       BudgetSeverity = "tight"
	BudgetComfortable BudgetSeverity = "comfortable"
)

// Effort is how demanding an optimization or opportunity is.
type Effort string

const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// Rank orders efforts from easiest to hardest.
func (e Effort) Rank() int {
	switch e {
	case EffortLow:
		return 0
	case EffortMedium:
		return 1
	default:
		return 2
	}
}

// Optimization is an expense-reduction suggestion from the budget catalog.
type Optimization struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Category       string  `json:"category"`
	MonthlySavings float64 `json:"monthlySavings"`
	Effort         Effort  `json:"effort"`
	DaysToRealize  int     `json:"daysToRealize"`
}

// BudgetAnalysis is the budget agent's result.
type BudgetAnalysis struct {
	Margin           float64        `json:"margin"`
	Severity         BudgetSeverity `json:"severity"`
	Optimizations    []Optimization `json:"optimizations"`
	PotentialSavings float64        `json:"potentialSavings"`
}

// OpportunityMatch is a scored opportunity template.
type OpportunityMatch struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	MatchedSkills  []string `json:"matchedSkills"`
	HourlyRate     float64  `json:"hourlyRate"`
	WeeklyHours    float64  `json:"weeklyHours"`
	Effort         Effort   `json:"effort"`
	DaysToFirstPay int      `json:"daysToFirstPay"`
	Score          float64  `json:"score"`
}

// MatchResult is the opportunity agent's result.
type MatchResult struct {
	Matches  []OpportunityMatch `json:"matches"`
	Fallback bool               `json:"fallback"`
}

// SimilarContext is what the retrieval service returned for a query.
type SimilarContext struct {
	Counts    map[string]int `json:"counts"`
	Exemplars string         `json:"exemplars"`
}

// SimilarQuery asks the retrieval service for comparable past advice.
type SimilarQuery struct {
	Text         string
	ExcludeID    string
	Limits       map[string]int
	DefaultLimit int
	MinScore     float64
}

// AdviceRecord is what gets indexed after a tip is delivered.
type AdviceRecord struct {
	ProfileID string
	Priority  Priority
	Category  Category
	Title     string
	Message   string
}
