package collector

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"StrideCoach/internal/model"
)

// Collector loads profile snapshots from a Source and normalizes them so every
// run starts from a well-formed input.
type Collector struct {
	Source Source
	logger *zap.Logger
}

// NewCollector creates a new Collector.
func NewCollector(source Source, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{Source: source, logger: logger.Named("collector")}
}

// Collect fetches all profiles. Entries without an id are skipped.
func (c *Collector) Collect(ctx context.Context) ([]model.OrchestratorInput, error) {
	raw, err := c.Source.Profiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s source: %w", c.Source.Name(), err)
	}

	out := make([]model.OrchestratorInput, 0, len(raw))
	for i := range raw {
		in := raw[i]
		if strings.TrimSpace(in.ProfileID) == "" {
			c.logger.Warn("profile without id skipped", zap.Int("index", i), zap.String("source", c.Source.Name()))
			continue
		}
		c.normalize(&in)
		out = append(out, in)
	}
	c.logger.Debug("profiles collected", zap.Int("count", len(out)), zap.String("source", c.Source.Name()))
	return out, nil
}

// Find returns one profile by id.
func (c *Collector) Find(ctx context.Context, id string) (*model.OrchestratorInput, error) {
	all, err := c.Collect(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if strings.EqualFold(all[i].ProfileID, id) {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("profile %q not found", id)
}

func (c *Collector) normalize(in *model.OrchestratorInput) {
	// Energy history
	history := make([]float64, 0, len(in.EnergyHistory))
	for _, v := range in.EnergyHistory {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			c.logger.Warn("non-finite energy reading dropped", zap.String("profile_id", in.ProfileID))
			continue
		}
		history = append(history, clamp(v, 0, 100))
	}
	in.EnergyHistory = history

	// Current energy
	if in.CurrentEnergy == 0 && len(history) > 0 {
		in.CurrentEnergy = history[len(history)-1]
	}
	in.CurrentEnergy = clamp(in.CurrentEnergy, 0, 100)

	// Goal progress
	if in.GoalProgress == 0 && in.HasGoal() && in.CurrentAmount != nil {
		in.GoalProgress = *in.CurrentAmount / *in.GoalAmount * 100
	}
	in.GoalProgress = clamp(in.GoalProgress, 0, 100)

	// Skills
	skills := in.Skills[:0:0]
	for _, s := range in.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	in.Skills = skills
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
