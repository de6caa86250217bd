package model

// StrategyKind is the origin of a strategy.
type StrategyKind string

const (
	StrategyJob          StrategyKind = "job"
	StrategyOptimization StrategyKind = "optimization"
)

// Strategy is a normalized unit of advice. Job and optimization strategies share this shape.
type Strategy struct {
	ID            string       `json:"id"`
	Kind          StrategyKind `json:"kind"`
	Description   string       `json:"description"`
	MonthlyImpact float64      `json:"monthlyImpact"`
	WeeklyHours   float64      `json:"weeklyHours"`
	TimeToRealize int          `json:"timeToRealizeDays"`
	BaseScore     float64      `json:"baseScore"`
}

// Urgency is the caller-supplied pressure applied when ranking strategies.
type Urgency string

const (
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

// StrategyContext parameterizes the comparator.
type StrategyContext struct {
	Urgency       Urgency
	WeeklyHours   float64
	RemainingGoal float64
}

// ScoredStrategy is a strategy with its weighted factor breakdown.
type ScoredStrategy struct {
	Strategy Strategy       `json:"strategy"`
	Factors  []FactorScore  `json:"factors"`
	Total    float64        `json:"total"`
	Tier     ConfidenceTier `json:"tier"`
}

// Comparison is the comparator output. A nil *Comparison means nothing was comparable.
type Comparison struct {
	BestOverall        ScoredStrategy   `json:"bestOverall"`
	BestQuickWin       ScoredStrategy   `json:"bestQuickWin"`
	BestLongTerm       ScoredStrategy   `json:"bestLongTerm"`
	Ranked             []ScoredStrategy `json:"ranked"`
	RecommendationText string           `json:"recommendationText"`
}
