package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"StrideCoach/internal/agents"
	"StrideCoach/internal/model"
	"StrideCoach/internal/strategy"
	"StrideCoach/internal/tracing"
)

const (
	stageComparator = "comparator"
	stageValidation = "validation"
)

// partial is what the full unit delivered before the race was decided. Only
// the goroutine running Run touches it; the full unit sends stage updates over
// a channel instead.
type partial struct {
	pool       agents.PoolResult
	poolDone   bool
	lone       model.Outcome[*model.BudgetAnalysis]
	comparison *model.Comparison
	compared   bool
	validation *model.ValidationResult
}

type stage func(*partial)

// raceFull runs pool, comparator and validation in order on a separate
// goroutine and waits for it at most timeout. On timeout the stages already
// delivered are kept and anything later is dropped with the channel.
func (o *Orchestrator) raceFull(ctx context.Context, in *model.OrchestratorInput, situation model.Situation, timeout time.Duration, tracer *tracing.Tracer) (partial, bool) {
	// One slot per stage, so the unit never blocks on an abandoned race.
	stages := make(chan stage, 3)
	go o.fullUnit(ctx, in, situation, tracer, stages)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var p partial
	for {
		select {
		case s, ok := <-stages:
			if !ok {
				return p, true
			}
			s(&p)
		case <-timer.C:
			drain(stages, &p)
			return p, false
		case <-ctx.Done():
			drain(stages, &p)
			return p, false
		}
	}
}

func drain(stages <-chan stage, p *partial) {
	for {
		select {
		case s, ok := <-stages:
			if !ok {
				return
			}
			s(p)
		default:
			return
		}
	}
}

func (o *Orchestrator) fullUnit(ctx context.Context, in *model.OrchestratorInput, situation model.Situation, tracer *tracing.Tracer, stages chan<- stage) {
	defer close(stages)
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("full unit panicked", zap.Any("panic", r))
		}
	}()

	pr := o.deps.Pool.Run(ctx, in, tracer)
	stages <- func(p *partial) {
		p.pool = pr
		p.poolDone = true
	}

	budget, _ := pr.Budget.Get()
	jobs, _ := pr.Jobs.Get()
	cmp := o.compare(in, budget, jobs, tracer)
	stages <- func(p *partial) {
		p.comparison = cmp
		p.compared = true
	}

	if cmp == nil {
		return
	}
	v := o.deps.Gate.Validate(ctx, cmp.RecommendationText, situation, tracer)
	stages <- func(p *partial) { p.validation = &v }
}

func (o *Orchestrator) compare(in *model.OrchestratorInput, budget *model.BudgetAnalysis, jobs *model.MatchResult, tracer *tracing.Tracer) *model.Comparison {
	hours := 0.0
	if in.AvailableWeeklyHours != nil {
		hours = *in.AvailableWeeklyHours
	}
	strategies := strategy.BuildStrategies(budget, jobs, hours)
	span := tracer.Start(stageComparator, map[string]any{"strategies": len(strategies)})

	sctx := model.StrategyContext{
		Urgency:       strategy.UrgencyFor(in.MonthlyMargin),
		WeeklyHours:   hours,
		RemainingGoal: in.Deficit(),
	}
	cmp := strategy.Compare(strategies, sctx, agents.CurrencySymbol(in.Location))
	if cmp == nil {
		span.Set("result", "none")
		span.End(nil)
		return nil
	}
	span.Set("best_overall", cmp.BestOverall.Strategy.ID)
	span.Set("urgency", string(sctx.Urgency))
	span.End(nil)
	return cmp
}

func (p *partial) budget() *model.BudgetAnalysis {
	if b, ok := p.lone.Get(); ok {
		return b
	}
	if b, ok := p.pool.Budget.Get(); ok {
		return b
	}
	return nil
}

func (p *partial) jobs() *model.MatchResult {
	j, _ := p.pool.Jobs.Get()
	return j
}

// validationPassed is true unless a verdict exists and rejects the candidate.
// A run that never reached validation has nothing to veto.
func (p *partial) validationPassed() bool {
	return p.validation == nil || p.validation.Passed
}

// used lists the sub-components whose results made it into the run.
func (p *partial) used() []string {
	out := []string{}
	if p.budget() != nil {
		out = append(out, agents.NameBudget)
	}
	if p.jobs() != nil {
		out = append(out, agents.NameJobs)
	}
	if p.comparison != nil {
		out = append(out, stageComparator)
	}
	if p.validation != nil {
		out = append(out, stageValidation)
	}
	return out
}

func (p *partial) summary() *model.AgentSummary {
	s := &model.AgentSummary{
		Budget:     p.budget(),
		Jobs:       p.jobs(),
		Comparison: p.comparison,
		Validation: p.validation,
	}
	if s.Budget == nil && s.Jobs == nil && s.Comparison == nil && s.Validation == nil {
		return nil
	}
	return s
}

func (p *partial) String() string {
	return fmt.Sprintf("pool=%t compared=%t validated=%t", p.poolDone, p.compared, p.validation != nil)
}
