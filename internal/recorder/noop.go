package recorder

import (
	"context"

	"StrideCoach/internal/model"
	"StrideCoach/internal/tracing"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) IndexAdvice(context.Context, model.AdviceRecord) error { return nil }
func (n *NoopRecorder) RetrieveSimilar(context.Context, model.SimilarQuery) (*model.SimilarContext, error) {
	return nil, nil
}
func (n *NoopRecorder) Emit(tracing.Span) {}
func (n *NoopRecorder) Close() error      { return nil }
