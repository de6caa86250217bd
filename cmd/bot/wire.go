package main

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"StrideCoach/internal/agents"
	"StrideCoach/internal/collector"
	"StrideCoach/internal/config"
	"StrideCoach/internal/enrich"
	"StrideCoach/internal/generator"
	"StrideCoach/internal/guard"
	"StrideCoach/internal/llm"
	"StrideCoach/internal/orchestrator"
	"StrideCoach/internal/recorder"
	"StrideCoach/internal/tracing"
)

// spanBuffer is how many spans may queue for the recorder before new ones are dropped.
const spanBuffer = 1024

// app is everything a command needs, built from the config.
type app struct {
	orch      *orchestrator.Orchestrator
	collector *collector.Collector
	rec       recorder.Recorder
	spans     *tracing.AsyncSink
}

// newApp wires the pipeline. extra receives spans next to the recorder, may be nil.
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, extra tracing.Sink) *app {
	a := &app{}

	// Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			a.rec = recorder.NewNoopRecorder()
		} else {
			a.rec = sr
		}
	} else {
		a.rec = recorder.NewNoopRecorder()
	}

	// Spans go to the recorder off the hot path, and to the debug log.
	a.spans = tracing.NewAsyncSink(a.rec, spanBuffer, logger)
	sinks := tracing.Multi{a.spans, tracing.NewZapSink(logger)}
	if extra != nil {
		sinks = append(sinks, extra)
	}

	// Completion service
	var completer llm.Completer = llm.Unavailable{}
	if cfg.LLM.Provider == config.ProviderGemini {
		c, err := llm.NewGenAIClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
		switch {
		case errors.Is(err, llm.ErrNoAPIKey):
			logger.Warn("no LLM api key, tips will come from templates")
		case err != nil:
			logger.Warn("init LLM client failed, tips will come from templates", zap.Error(err))
		default:
			completer = c
		}
	}
	gen := generator.New(completer, generator.Options{
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxOutputTokens,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	enricher := enrich.New(a.rec, enrich.Settings{
		Budget:      cfg.Orchestrator.EnrichmentBudget,
		PerCategory: cfg.Retrieval.PerCategory,
		Limits:      cfg.Retrieval.Limits,
		MinScore:    cfg.Retrieval.MinScore,
	}, logger)

	a.orch = orchestrator.New(orchestrator.Deps{
		Pool:      agents.NewPool(agents.BudgetAnalyzer{}, agents.JobMatcher{}, logger),
		Budget:    agents.BudgetAnalyzer{},
		Gate:      guard.NewGate(guard.PolicyChecker{}, 0, logger),
		Enricher:  enricher,
		Generator: gen,
		Indexer:   a.rec,
		Sink:      sinks,
	}, orchestrator.Settings{
		Thresholds:        cfg.Thresholds,
		DefaultTimeout:    cfg.Orchestrator.Timeout,
		SingleAgentBudget: cfg.Orchestrator.SingleAgentBudget,
		IndexTimeout:      cfg.Orchestrator.IndexTimeout,
		DisableFull:       !cfg.FullEnabled(),
	}, logger)

	// Profiles
	var src collector.Source
	if cfg.Profiles.BaseURL != "" {
		src = collector.NewHTTPSource(cfg.Profiles.BaseURL, cfg.Profiles.APIKey, cfg.Proxy)
	} else {
		src = collector.NewFileSource(cfg.Profiles.File)
	}
	logger.Info("profile source", zap.String("source", src.Name()))
	a.collector = collector.NewCollector(src, logger)

	return a
}

// Close waits for background writes, then closes the recorder.
func (a *app) Close() {
	a.orch.Wait()
	a.spans.Close()
	_ = a.rec.Close()
}
