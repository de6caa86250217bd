package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"StrideCoach/internal/model"
	"StrideCoach/internal/tracing"
)

// Agent names as they appear in spans and processing info.
const (
	NameBudget = "budget"
	NameJobs   = "jobs"
)

// BudgetAgent analyzes a monthly margin. A nil result means no data.
type BudgetAgent interface {
	AnalyzeBudget(ctx context.Context, margin float64) (*model.BudgetAnalysis, error)
}

// JobAgent matches skills to opportunities. A nil result means no data.
type JobAgent interface {
	MatchOpportunities(ctx context.Context, skills []string, energy float64) (*model.MatchResult, error)
}

// PoolResult holds one slot per agent. Each slot is written by exactly one goroutine.
type PoolResult struct {
	Budget    model.Outcome[*model.BudgetAnalysis]
	Jobs      model.Outcome[*model.MatchResult]
	AgentsRun []string
}

// Pool runs the sub-agents concurrently. It never fails as a whole.
type Pool struct {
	budget BudgetAgent
	jobs   JobAgent
	logger *zap.Logger
}

// NewPool builds a pool. Nil agents fall back to the built-in catalog agents.
func NewPool(budget BudgetAgent, jobs JobAgent, logger *zap.Logger) *Pool {
	if budget == nil {
		budget = BudgetAnalyzer{}
	}
	if jobs == nil {
		jobs = JobMatcher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{budget: budget, jobs: jobs, logger: logger.Named("agents")}
}

// Run executes both agents and waits for the slower one.
func (p *Pool) Run(ctx context.Context, in *model.OrchestratorInput, tracer *tracing.Tracer) PoolResult {
	res := PoolResult{
		Budget: model.Omitted[*model.BudgetAnalysis]("no monthly margin"),
		Jobs:   model.Omitted[*model.MatchResult]("no skills"),
	}

	eg, egCtx := errgroup.WithContext(ctx)
	if in.MonthlyMargin != nil {
		res.AgentsRun = append(res.AgentsRun, NameBudget)
		margin := *in.MonthlyMargin
		eg.Go(func() error {
			res.Budget = RunBudget(egCtx, p.budget, margin, tracer, p.logger)
			return nil
		})
	}
	if len(in.Skills) > 0 {
		res.AgentsRun = append(res.AgentsRun, NameJobs)
		skills := append([]string(nil), in.Skills...)
		energy := in.CurrentEnergy
		eg.Go(func() error {
			res.Jobs = runAgent(egCtx, tracer, p.logger, NameJobs,
				map[string]any{"skills": len(skills), "energy": energy},
				func(ctx context.Context) (*model.MatchResult, error) {
					return p.jobs.MatchOpportunities(ctx, skills, energy)
				},
				func(r *model.MatchResult, span *tracing.ActiveSpan) {
					span.Set("matches", len(r.Matches))
					span.Set("fallback", r.Fallback)
				})
			return nil
		})
	}
	_ = eg.Wait()
	return res
}

// RunBudget runs the budget agent alone under its own span.
func RunBudget(ctx context.Context, agent BudgetAgent, margin float64, tracer *tracing.Tracer, logger *zap.Logger) model.Outcome[*model.BudgetAnalysis] {
	return runAgent(ctx, tracer, logger, NameBudget,
		map[string]any{"margin": margin},
		func(ctx context.Context) (*model.BudgetAnalysis, error) {
			return agent.AnalyzeBudget(ctx, margin)
		},
		func(r *model.BudgetAnalysis, span *tracing.ActiveSpan) {
			span.Set("severity", string(r.Severity))
			span.Set("optimizations", len(r.Optimizations))
		})
}

// runAgent wraps one agent call in a span and turns errors, panics and empty
// results into an omitted outcome.
func runAgent[T any](
	ctx context.Context,
	tracer *tracing.Tracer,
	logger *zap.Logger,
	name string,
	attrs map[string]any,
	call func(context.Context) (*T, error),
	describe func(*T, *tracing.ActiveSpan),
) (out model.Outcome[*T]) {
	span := tracer.Start("agent."+name, attrs)
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%s agent panicked: %v", name, r)
			logger.Warn("agent failed", zap.String("agent", name), zap.Error(err))
			span.End(err)
			out = model.Omitted[*T](err.Error())
		}
	}()

	v, err := call(ctx)
	if err != nil {
		logger.Warn("agent failed", zap.String("agent", name), zap.Error(err))
		span.End(err)
		return model.Omitted[*T](fmt.Sprintf("%s agent: %v", name, err))
	}
	if v == nil {
		span.Set("result", "none")
		span.End(nil)
		return model.Omitted[*T]("no " + name + " data")
	}
	describe(v, span)
	span.End(nil)
	return model.Present(v)
}
