package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"StrideCoach/internal/agents"
	"StrideCoach/internal/calculator"
	"StrideCoach/internal/enrich"
	"StrideCoach/internal/generator"
	"StrideCoach/internal/guard"
	"StrideCoach/internal/model"
	"StrideCoach/internal/tracing"
)

const (
	defaultTimeout           = 5 * time.Second
	defaultSingleAgentBudget = time.Second
	defaultIndexTimeout      = 3 * time.Second
)

// Indexer stores delivered advice for later retrieval.
type Indexer interface {
	IndexAdvice(ctx context.Context, rec model.AdviceRecord) error
}

// Deps are the collaborators of a run. Nil fields fall back to local defaults.
type Deps struct {
	Pool      *agents.Pool
	Budget    agents.BudgetAgent
	Gate      *guard.Gate
	Enricher  *enrich.Enricher
	Generator *generator.Generator
	Indexer   Indexer
	Sink      tracing.Sink
	Picker    generator.Picker
}

// Settings tune the ladder.
type Settings struct {
	Thresholds        calculator.Thresholds
	DefaultTimeout    time.Duration
	SingleAgentBudget time.Duration
	IndexTimeout      time.Duration
	// DisableFull turns the full pipeline off for every run, whatever the input asks.
	DisableFull bool
}

// Orchestrator produces exactly one tip per run. It holds no per-run state and
// is safe for concurrent use.
type Orchestrator struct {
	deps     Deps
	settings Settings
	logger   *zap.Logger
	indexing sync.WaitGroup
}

// New wires an orchestrator.
func New(deps Deps, settings Settings, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Pool == nil {
		deps.Pool = agents.NewPool(nil, nil, logger)
	}
	if deps.Budget == nil {
		deps.Budget = agents.BudgetAnalyzer{}
	}
	if deps.Gate == nil {
		deps.Gate = guard.NewGate(nil, 0, logger)
	}
	if deps.Generator == nil {
		deps.Generator = generator.New(nil, generator.DefaultOptions(), logger)
	}
	if deps.Sink == nil {
		deps.Sink = tracing.Noop{}
	}
	settings.Thresholds = settings.Thresholds.WithDefaults()
	if settings.DefaultTimeout <= 0 {
		settings.DefaultTimeout = defaultTimeout
	}
	if settings.SingleAgentBudget <= 0 {
		settings.SingleAgentBudget = defaultSingleAgentBudget
	}
	if settings.IndexTimeout <= 0 {
		settings.IndexTimeout = defaultIndexTimeout
	}
	return &Orchestrator{deps: deps, settings: settings, logger: logger.Named("orchestrator")}
}

// Run never fails: whatever goes wrong, the caller gets a well-formed output.
func (o *Orchestrator) Run(ctx context.Context, in *model.OrchestratorInput) (out model.OrchestratorOutput) {
	start := time.Now()
	tracer := tracing.NewTracer(o.deps.Sink)
	out.Processing.TraceID = tracer.TraceID()

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("run panicked, serving static tip",
				zap.String("trace_id", tracer.TraceID()), zap.Any("panic", r))
			out.Tip = o.staticTip()
			out.Processing.FallbackLevel = model.LevelStatic
			out.Processing.OrchestrationType = model.LevelStatic.String()
			out.Processing.TipSource = model.SourceStatic
		}
		if out.Processing.AgentsUsed == nil {
			out.Processing.AgentsUsed = []string{}
		}
		out.Processing.Duration = time.Since(start)
	}()

	if in == nil {
		in = &model.OrchestratorInput{}
	}
	span := tracer.Start("orchestrator", map[string]any{"profile_id": in.ProfileID})
	defer func() { span.End(nil) }()

	sig := o.analyze(in, tracer)
	out.Insights = model.Insights{
		EnergyDebt:            sig.debt,
		Comeback:              sig.comeback,
		TopPriority:           sig.priority,
		LocationOpportunities: agents.RegionalHints(in.Location),
	}
	situation := guard.SituationFromMargin(in.MonthlyMargin)

	level := model.LevelFull
	var p partial
	if o.settings.DisableFull || !in.Options.FullEnabled() {
		level = model.LevelAlgorithmsOnly
	} else {
		timeout := in.Options.Timeout
		if timeout <= 0 {
			timeout = o.settings.DefaultTimeout
		}
		var finished bool
		p, finished = o.raceFull(ctx, in, situation, timeout, tracer)
		if !finished {
			level = model.LevelSingle
			o.logger.Warn("full pipeline timed out, degrading",
				zap.String("profile_id", in.ProfileID), zap.Duration("timeout", timeout), zap.Stringer("partial", &p))
			o.runLoneBudget(ctx, in, &p, tracer)
		}
	}

	out.Insights.Agents = p.summary()
	out.Processing.AgentsUsed = p.used()

	if level < model.LevelStatic && p.validationPassed() {
		pc := generator.PromptContext{
			Input:         in,
			Priority:      sig.priority,
			EnergyDebt:    sig.debt,
			Comeback:      sig.comeback,
			Budget:        p.budget(),
			Jobs:          p.jobs(),
			Comparison:    p.comparison,
			RegionalHints: out.Insights.LocationOpportunities,
			Currency:      agents.CurrencySymbol(in.Location),
		}
		pc.Similar = o.deps.Enricher.Retrieve(ctx, enrich.Query(in, sig.priority, situation), in.ProfileID, tracer)
		out.Tip, out.Processing.TipSource = o.deps.Generator.Generate(ctx, pc, tracer)
		o.index(ctx, in.ProfileID, sig.priority, out.Tip)
	} else {
		if p.validation != nil && !p.validation.Passed {
			o.logger.Info("validation rejected candidate, serving static tip",
				zap.String("profile_id", in.ProfileID), zap.Strings("issues", p.validation.Issues))
		}
		level = model.LevelStatic
		out.Tip = o.staticTip()
		out.Processing.TipSource = model.SourceStatic
	}

	out.Processing.FallbackLevel = level
	out.Processing.OrchestrationType = level.String()
	span.Set("fallback_level", int(level))
	span.Set("tip_source", string(out.Processing.TipSource))
	o.logger.Debug("run finished",
		zap.String("profile_id", in.ProfileID),
		zap.Stringer("level", level),
		zap.String("priority", string(sig.priority)),
		zap.Duration("elapsed", time.Since(start)))
	return out
}

// staticTip falls back to the first static tip when the picker panics.
func (o *Orchestrator) staticTip() (tip model.Tip) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Warn("static tip picker panicked", zap.Any("panic", r))
			tip = generator.StaticTip(func(int) int { return 0 })
		}
	}()
	return generator.StaticTip(o.deps.Picker)
}

type signals struct {
	debt     model.EnergyDebtResult
	comeback *model.ComebackResult
	priority model.Priority
}

func (o *Orchestrator) analyze(in *model.OrchestratorInput, tracer *tracing.Tracer) signals {
	span := tracer.Start("signals", map[string]any{"readings": len(in.EnergyHistory)})
	th := o.settings.Thresholds
	var s signals
	s.debt = calculator.DetectEnergyDebt(in.EnergyHistory, th)
	s.comeback = calculator.DetectComeback(in.EnergyHistory, in.Deficit(), th)
	s.priority = calculator.ResolvePriority(s.debt, s.comeback, in, th)

	span.Set("energy_debt", s.debt.Detected)
	span.Set("severity", s.debt.Severity.String())
	span.Set("comeback", s.comeback != nil && s.comeback.Detected)
	span.Set("priority", string(s.priority))
	span.End(nil)
	return s
}

// runLoneBudget fills in the budget analysis after a timeout when the pool did
// not deliver one. It is raced against its own budget so a stuck agent cannot
// hold up the run.
func (o *Orchestrator) runLoneBudget(ctx context.Context, in *model.OrchestratorInput, p *partial, tracer *tracing.Tracer) {
	if in.MonthlyMargin == nil || p.budget() != nil {
		return
	}
	margin := *in.MonthlyMargin
	ctx, cancel := context.WithTimeout(ctx, o.settings.SingleAgentBudget)
	defer cancel()

	ch := make(chan model.Outcome[*model.BudgetAnalysis], 1)
	go func() {
		ch <- agents.RunBudget(ctx, o.deps.Budget, margin, tracer, o.logger)
	}()
	select {
	case res := <-ch:
		p.lone = res
	case <-ctx.Done():
		p.lone = model.Omitted[*model.BudgetAnalysis](fmt.Sprintf("lone budget agent: %v", ctx.Err()))
		o.logger.Warn("lone budget agent timed out", zap.String("profile_id", in.ProfileID))
	}
}

// index hands a delivered tip to the advice index without waiting for it.
func (o *Orchestrator) index(ctx context.Context, profileID string, priority model.Priority, tip model.Tip) {
	if o.deps.Indexer == nil {
		return
	}
	rec := model.AdviceRecord{
		ProfileID: profileID,
		Priority:  priority,
		Category:  tip.Category,
		Title:     tip.Title,
		Message:   tip.Message,
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.settings.IndexTimeout)
	o.indexing.Add(1)
	go func() {
		defer o.indexing.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				o.logger.Warn("advice indexing panicked", zap.Any("panic", r))
			}
		}()
		if err := o.deps.Indexer.IndexAdvice(ctx, rec); err != nil {
			o.logger.Warn("advice indexing failed", zap.String("profile_id", profileID), zap.Error(err))
		}
	}()
}

// Wait blocks until background advice indexing has finished. Call it before
// closing the index on shutdown.
func (o *Orchestrator) Wait() {
	o.indexing.Wait()
}
