package generator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"StrideCoach/internal/llm"
	"StrideCoach/internal/model"
	"StrideCoach/internal/tracing"
)

// Options tunes the completion call.
type Options struct {
	Temperature float32
	MaxTokens   int32
	Timeout     time.Duration
}

// DefaultOptions is a low temperature and a small output budget.
func DefaultOptions() Options {
	return Options{Temperature: 0.5, MaxTokens: 256, Timeout: 8 * time.Second}
}

// Generator turns a prompt context into a sanitized tip.
type Generator struct {
	completer llm.Completer
	opts      Options
	logger    *zap.Logger
}

// New builds a generator. A nil completer always falls back to templates.
func New(completer llm.Completer, opts Options, logger *zap.Logger) *Generator {
	if completer == nil {
		completer = llm.Unavailable{}
	}
	d := DefaultOptions()
	if opts.Temperature <= 0 {
		opts.Temperature = d.Temperature
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = d.MaxTokens
	}
	if opts.Timeout <= 0 {
		opts.Timeout = d.Timeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{completer: completer, opts: opts, logger: logger.Named("generator")}
}

// Generate asks the completion service for a tip and falls back to the template
// tip when the call fails or returns nothing usable. The result is always sanitized.
func (g *Generator) Generate(ctx context.Context, pc PromptContext, tracer *tracing.Tracer) (model.Tip, model.TipSource) {
	span := tracer.Start("generator", map[string]any{"priority": string(pc.Priority)})

	tip, err := g.complete(ctx, pc)
	source := model.SourceLLM
	if err != nil {
		g.logger.Warn("completion unusable, using template", zap.Error(err), zap.String("priority", string(pc.Priority)))
		span.Set("completion_error", err.Error())
		tip = TemplateTip(pc)
		source = model.SourceTemplate
	}

	tip = Sanitize(tip)
	span.Set("source", string(source))
	span.Set("category", string(tip.Category))
	span.End(nil)
	return tip, source
}

// complete runs the completion call under the generator timeout, even when the
// completer ignores its context.
func (g *Generator) complete(ctx context.Context, pc PromptContext) (model.Tip, error) {
	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	system, user := BuildPrompt(pc)
	req := llm.Request{
		System:      system,
		User:        user,
		Temperature: g.opts.Temperature,
		MaxTokens:   g.opts.MaxTokens,
	}

	type reply struct {
		text string
		err  error
	}
	ch := make(chan reply, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- reply{err: fmt.Errorf("completer panicked: %v", r)}
			}
		}()
		text, err := g.completer.Complete(ctx, req)
		ch <- reply{text, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return model.Tip{}, r.err
		}
		return ParseTip(r.text, CategoryFor(pc.Priority))
	case <-ctx.Done():
		return model.Tip{}, fmt.Errorf("completion: %w", ctx.Err())
	}
}
