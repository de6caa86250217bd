package tracing

import (
	"time"

	"github.com/google/uuid"
)

// Span is one named unit of work, emitted once when it ends.
type Span struct {
	TraceID    string         `json:"traceId"`
	SpanID     string         `json:"spanId"`
	Name       string         `json:"name"`
	Start      time.Time      `json:"start"`
	End        time.Time      `json:"end"`
	Attributes map[string]any `json:"attributes,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Duration is End minus Start.
func (s Span) Duration() time.Duration { return s.End.Sub(s.Start) }

// Sink receives finished spans. Emit must not block the caller for long;
// wrap slow sinks in an AsyncSink.
type Sink interface {
	Emit(Span)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Span)

func (f SinkFunc) Emit(s Span) { f(s) }

// Noop drops every span.
type Noop struct{}

func (Noop) Emit(Span) {}

// Tracer stamps every span of one run with the same trace id.
type Tracer struct {
	traceID string
	sink    Sink
	now     func() time.Time
}

// NewTracer starts a new trace. A nil sink discards spans.
func NewTracer(sink Sink) *Tracer {
	if sink == nil {
		sink = Noop{}
	}
	return &Tracer{traceID: uuid.NewString(), sink: sink, now: time.Now}
}

// TraceID identifies the run.
func (t *Tracer) TraceID() string { return t.traceID }

// Start opens a span. The returned span is owned by the calling goroutine.
func (t *Tracer) Start(name string, attrs map[string]any) *ActiveSpan {
	a := make(map[string]any, len(attrs)+2)
	for k, v := range attrs {
		a[k] = v
	}
	return &ActiveSpan{
		tracer: t,
		span: Span{
			TraceID:    t.traceID,
			SpanID:     uuid.NewString(),
			Name:       name,
			Start:      t.now(),
			Attributes: a,
		},
	}
}

// ActiveSpan is a span that has not ended yet.
type ActiveSpan struct {
	tracer *Tracer
	span   Span
	ended  bool
}

// ID returns the span id.
func (s *ActiveSpan) ID() string { return s.span.SpanID }

// Set records an attribute.
func (s *ActiveSpan) Set(key string, value any) {
	s.span.Attributes[key] = value
}

// End closes the span and hands it to the sink. Only the first call emits.
func (s *ActiveSpan) End(err error) {
	if s.ended {
		return
	}
	s.ended = true
	s.span.End = s.tracer.now()
	if err != nil {
		s.span.Error = err.Error()
	}
	s.tracer.sink.Emit(s.span)
}
