package model

import "time"

// Commitment is an active engagement the user has taken on (a job, a mission, a course).
type Commitment struct {
	ID             string   `yaml:"id" json:"id"`
	Title          string   `yaml:"title" json:"title"`
	Category       string   `yaml:"category" json:"category"`
	WeeklyHours    float64  `yaml:"weekly_hours" json:"weeklyHours"`
	WeeklyEarnings float64  `yaml:"weekly_earnings" json:"weeklyEarnings"`
	Progress       *float64 `yaml:"progress,omitempty" json:"progress,omitempty"`
}

// Location describes where the user lives. Every field is optional.
type Location struct {
	City      string   `yaml:"city" json:"city"`
	Latitude  *float64 `yaml:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64 `yaml:"longitude,omitempty" json:"longitude,omitempty"`
	Currency  string   `yaml:"currency" json:"currency"`
	Region    string   `yaml:"region" json:"region"`
}

// Options controls how much of the pipeline a single run may use.
type Options struct {
	// EnableFull is a pointer so an absent value in YAML/JSON means "enabled".
	EnableFull *bool         `yaml:"enable_full,omitempty" json:"enableFullOrchestration,omitempty"`
	Timeout    time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// FullEnabled reports whether the caller allows the full pipeline.
func (o Options) FullEnabled() bool {
	return o.EnableFull == nil || *o.EnableFull
}

// OrchestratorInput is the immutable snapshot of one user handed to a single run.
type OrchestratorInput struct {
	ProfileID            string       `yaml:"profile_id" json:"profileId"`
	Name                 string       `yaml:"name,omitempty" json:"name,omitempty"`
	CurrentEnergy        float64      `yaml:"current_energy" json:"currentEnergy"`
	EnergyHistory        []float64    `yaml:"energy_history" json:"energyHistory"`
	GoalProgress         float64      `yaml:"goal_progress" json:"goalProgress"`
	Commitments          []Commitment `yaml:"commitments" json:"commitments"`
	GoalAmount           *float64     `yaml:"goal_amount,omitempty" json:"goalAmount,omitempty"`
	CurrentAmount        *float64     `yaml:"current_amount,omitempty" json:"currentAmount,omitempty"`
	WeeklyTarget         *float64     `yaml:"weekly_target,omitempty" json:"weeklyTarget,omitempty"`
	Location             *Location    `yaml:"location,omitempty" json:"location,omitempty"`
	Skills               []string     `yaml:"skills" json:"skills,omitempty"`
	MonthlyMargin        *float64     `yaml:"monthly_margin,omitempty" json:"monthlyMargin,omitempty"`
	AvailableWeeklyHours *float64     `yaml:"available_weekly_hours,omitempty" json:"availableWeeklyHours,omitempty"`
	Options              Options      `yaml:"options" json:"options"`
}

// Deficit is the amount still missing to reach the goal, zero when no goal is set.
func (in *OrchestratorInput) Deficit() float64 {
	if in.GoalAmount == nil {
		return 0
	}
	current := 0.0
	if in.CurrentAmount != nil {
		current = *in.CurrentAmount
	}
	if d := *in.GoalAmount - current; d > 0 {
		return d
	}
	return 0
}

// HasGoal reports whether a positive goal amount was supplied.
func (in *OrchestratorInput) HasGoal() bool {
	return in.GoalAmount != nil && *in.GoalAmount > 0
}

// Float returns a pointer to v. Handy for building inputs in code and tests.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
