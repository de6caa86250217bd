package tracing

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// AsyncSink forwards spans to another sink from a background goroutine.
// When the buffer is full the span is dropped, so Emit never waits on the collector.
type AsyncSink struct {
	next    Sink
	ch      chan Span
	quit    chan struct{}
	done    chan struct{}
	once    sync.Once
	dropped atomic.Int64
	logger  *zap.Logger
}

// NewAsyncSink starts the forwarding goroutine. Call Close to stop it.
func NewAsyncSink(next Sink, buffer int, logger *zap.Logger) *AsyncSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	if buffer <= 0 {
		buffer = 256
	}
	a := &AsyncSink{
		next:   next,
		ch:     make(chan Span, buffer),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		logger: logger.Named("tracing"),
	}
	go a.loop()
	return a
}

func (a *AsyncSink) Emit(s Span) {
	select {
	case a.ch <- s:
	default:
		a.dropped.Add(1)
	}
}

// Dropped is the number of spans lost to a full buffer.
func (a *AsyncSink) Dropped() int64 { return a.dropped.Load() }

// Close flushes buffered spans and stops the goroutine.
func (a *AsyncSink) Close() {
	a.once.Do(func() { close(a.quit) })
	<-a.done
}

func (a *AsyncSink) loop() {
	defer close(a.done)
	for {
		select {
		case s := <-a.ch:
			a.forward(s)
		case <-a.quit:
			for {
				select {
				case s := <-a.ch:
					a.forward(s)
				default:
					if n := a.dropped.Load(); n > 0 {
						a.logger.Warn("spans dropped", zap.Int64("count", n))
					}
					return
				}
			}
		}
	}
}

func (a *AsyncSink) forward(s Span) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Warn("span sink panicked", zap.Any("panic", r), zap.String("span", s.Name))
		}
	}()
	a.next.Emit(s)
}

// ZapSink writes spans to a logger at debug level.
type ZapSink struct {
	logger *zap.Logger
}

func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger.Named("span")}
}

func (z *ZapSink) Emit(s Span) {
	fields := []zap.Field{
		zap.String("trace_id", s.TraceID),
		zap.String("span_id", s.SpanID),
		zap.Duration("duration", s.Duration()),
		zap.Any("attributes", s.Attributes),
	}
	if s.Error != "" {
		fields = append(fields, zap.String("error", s.Error))
	}
	z.logger.Debug(s.Name, fields...)
}

// Multi fans a span out to several sinks.
type Multi []Sink

func (m Multi) Emit(s Span) {
	for _, sink := range m {
		sink.Emit(s)
	}
}

// Memory keeps spans in memory. Used by the CLI --trace flag and in tests.
type Memory struct {
	mu    sync.Mutex
	spans []Span
}

func (m *Memory) Emit(s Span) {
	m.mu.Lock()
	m.spans = append(m.spans, s)
	m.mu.Unlock()
}

// Spans returns a copy of everything emitted so far.
func (m *Memory) Spans() []Span {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Span(nil), m.spans...)
}

// Names returns the span names in emission order.
func (m *Memory) Names() []string {
	spans := m.Spans()
	names := make([]string, len(spans))
	for i, s := range spans {
		names[i] = s.Name
	}
	return names
}
