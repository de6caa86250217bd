package recorder

import (
	"context"

	"StrideCoach/internal/model"
	"StrideCoach/internal/tracing"
)

// Recorder stores delivered advice, answers similarity queries over it and keeps spans.
type Recorder interface {
	IndexAdvice(ctx context.Context, rec model.AdviceRecord) error
	RetrieveSimilar(ctx context.Context, q model.SimilarQuery) (*model.SimilarContext, error)
	tracing.Sink
	Close() error
}
