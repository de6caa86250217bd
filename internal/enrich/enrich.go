package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"StrideCoach/internal/model"
	"StrideCoach/internal/tracing"
)

const (
	defaultBudget   = 1500 * time.Millisecond
	defaultPerCat   = 2
	defaultMinScore = 0.0
)

// Retriever is the similarity service.
type Retriever interface {
	RetrieveSimilar(ctx context.Context, q model.SimilarQuery) (*model.SimilarContext, error)
}

// Settings bounds one retrieval.
type Settings struct {
	Budget      time.Duration
	PerCategory int
	Limits      map[string]int
	MinScore    float64
}

// Enricher fetches similar-situation context for the prompt. It never fails:
// any error, panic or overrun yields nil.
type Enricher struct {
	retriever Retriever
	settings  Settings
	logger    *zap.Logger
}

// New builds an enricher. A nil retriever disables enrichment.
func New(retriever Retriever, settings Settings, logger *zap.Logger) *Enricher {
	if settings.Budget <= 0 {
		settings.Budget = defaultBudget
	}
	if settings.PerCategory <= 0 {
		settings.PerCategory = defaultPerCat
	}
	if settings.MinScore < 0 {
		settings.MinScore = defaultMinScore
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{retriever: retriever, settings: settings, logger: logger.Named("enrich")}
}

// Query describes the user's situation in words the advice index can match.
func Query(in *model.OrchestratorInput, priority model.Priority, situation model.Situation) string {
	parts := []string{strings.ReplaceAll(string(priority), "_", " "), string(situation)}
	switch {
	case in.CurrentEnergy < 40:
		parts = append(parts, "energy low rest")
	case in.CurrentEnergy >= 70:
		parts = append(parts, "energy high")
	}
	if in.HasGoal() {
		parts = append(parts, "goal savings")
	}
	for _, c := range in.Commitments {
		if c.Category != "" {
			parts = append(parts, c.Category)
		}
	}
	parts = append(parts, in.Skills...)
	return strings.Join(parts, " ")
}

// Retrieve returns context for the query, or nil when there is none in time.
func (e *Enricher) Retrieve(ctx context.Context, query, excludeID string, tracer *tracing.Tracer) *model.SimilarContext {
	if e == nil || e.retriever == nil {
		return nil
	}
	span := tracer.Start("enrichment", map[string]any{"query_len": len(query)})

	ctx, cancel := context.WithTimeout(ctx, e.settings.Budget)
	defer cancel()

	type reply struct {
		sim *model.SimilarContext
		err error
	}
	ch := make(chan reply, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- reply{err: fmt.Errorf("retriever panicked: %v", r)}
			}
		}()
		sim, err := e.retriever.RetrieveSimilar(ctx, model.SimilarQuery{
			Text:         query,
			ExcludeID:    excludeID,
			Limits:       e.settings.Limits,
			DefaultLimit: e.settings.PerCategory,
			MinScore:     e.settings.MinScore,
		})
		ch <- reply{sim, err}
	}()

	var r reply
	select {
	case r = <-ch:
	case <-ctx.Done():
		r.err = fmt.Errorf("retrieval: %w", ctx.Err())
	}

	if r.err != nil {
		e.logger.Warn("enrichment skipped", zap.Error(r.err))
		span.End(r.err)
		return nil
	}
	if r.sim == nil {
		span.Set("hits", 0)
		span.End(nil)
		return nil
	}
	hits := 0
	for _, n := range r.sim.Counts {
		hits += n
	}
	span.Set("hits", hits)
	span.End(nil)
	return r.sim
}
