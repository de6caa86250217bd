package model

import "time"

// FallbackLevel records how degraded a run was. It is informational only.
type FallbackLevel int

const (
	LevelFull FallbackLevel = iota
	LevelSingle
	LevelAlgorithmsOnly
	LevelStatic
)

func (l FallbackLevel) String() string {
	switch l {
	case LevelFull:
		return "full"
	case LevelSingle:
		return "single"
	case LevelAlgorithmsOnly:
		return "algorithms"
	default:
		return "static"
	}
}

// TipSource names the path that produced the tip.
type TipSource string

const (
	SourceLLM      TipSource = "llm"
	SourceTemplate TipSource = "template"
	SourceStatic   TipSource = "static"
)

// Situation is the financial situation tag handed to the validator.
type Situation string

const (
	SituationDeficit  Situation = "deficit"
	SituationTight    Situation = "tight"
	SituationBalanced Situation = "balanced"
)

// ValidationResult is the verdict of the validation gate.
type ValidationResult struct {
	Passed     bool     `json:"passed"`
	Confidence float64  `json:"confidence"`
	Issues     []string `json:"issues"`
}

// AgentSummary is the per-agent part of the diagnostics bundle.
type AgentSummary struct {
	Budget     *BudgetAnalysis   `json:"budget,omitempty"`
	Jobs       *MatchResult      `json:"jobs,omitempty"`
	Comparison *Comparison       `json:"comparison,omitempty"`
	Validation *ValidationResult `json:"validation,omitempty"`
}

// Insights is the diagnostics bundle returned next to the tip.
type Insights struct {
	EnergyDebt            EnergyDebtResult `json:"energyDebt"`
	Comeback              *ComebackResult  `json:"comeback,omitempty"`
	TopPriority           Priority         `json:"topPriority"`
	Agents                *AgentSummary    `json:"agentRecommendations,omitempty"`
	LocationOpportunities []string         `json:"locationOpportunities,omitempty"`
}

// ProcessingInfo is the operational metadata of a run.
type ProcessingInfo struct {
	AgentsUsed        []string      `json:"agentsUsed"`
	FallbackLevel     FallbackLevel `json:"fallbackLevel"`
	OrchestrationType string        `json:"orchestrationType"`
	TipSource         TipSource     `json:"tipSource"`
	Duration          time.Duration `json:"durationNs"`
	TraceID           string        `json:"traceId"`
}

// OrchestratorOutput is what a run returns, always.
type OrchestratorOutput struct {
	Tip        Tip            `json:"tip"`
	Insights   Insights       `json:"insights"`
	Processing ProcessingInfo `json:"processingInfo"`
}
