package guard

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"StrideCoach/internal/model"
	"StrideCoach/internal/tracing"
)

const defaultCheckTimeout = 2 * time.Second

// Checker is the validation/policy service.
type Checker interface {
	Check(ctx context.Context, text string, situation model.Situation) (model.ValidationResult, error)
}

// Permissive is returned whenever the checker itself is unavailable.
func Permissive() model.ValidationResult {
	return model.ValidationResult{Passed: true, Confidence: 0.5, Issues: []string{}}
}

// Gate wraps a Checker so that validation never fails and never hangs.
type Gate struct {
	checker Checker
	timeout time.Duration
	logger  *zap.Logger
}

// NewGate builds a gate. A nil checker uses PolicyChecker.
func NewGate(checker Checker, timeout time.Duration, logger *zap.Logger) *Gate {
	if checker == nil {
		checker = PolicyChecker{}
	}
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{checker: checker, timeout: timeout, logger: logger.Named("guard")}
}

// Validate returns the checker's verdict, or the permissive default when the
// checker errors, panics or exceeds the gate timeout.
func (g *Gate) Validate(ctx context.Context, text string, situation model.Situation, tracer *tracing.Tracer) model.ValidationResult {
	span := tracer.Start("validation", map[string]any{"situation": string(situation), "text_len": len(text)})

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	type verdict struct {
		res model.ValidationResult
		err error
	}
	ch := make(chan verdict, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- verdict{err: fmt.Errorf("checker panicked: %v", r)}
			}
		}()
		res, err := g.checker.Check(ctx, text, situation)
		ch <- verdict{res, err}
	}()

	var v verdict
	select {
	case v = <-ch:
	case <-ctx.Done():
		v.err = fmt.Errorf("checker: %w", ctx.Err())
	}

	if v.err != nil {
		g.logger.Warn("validator unavailable, passing with default", zap.Error(v.err))
		res := Permissive()
		span.Set("permissive", true)
		span.End(v.err)
		return res
	}
	if v.res.Issues == nil {
		v.res.Issues = []string{}
	}
	span.Set("passed", v.res.Passed)
	span.Set("confidence", v.res.Confidence)
	span.Set("issues", len(v.res.Issues))
	span.End(nil)
	return v.res
}
