package tracing

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestTracer_EmitsOnceWithSharedTraceID(t *testing.T) {
	mem := &Memory{}
	tr := NewTracer(mem)

	a := tr.Start("signals", map[string]any{"history_len": 4})
	a.Set("detected", true)
	a.End(nil)
	a.End(errors.New("ignored"))

	b := tr.Start("generator", nil)
	b.End(errors.New("completion failed"))

	spans := mem.Spans()
	require.Len(t, spans, 2)
	assert.Equal(t, tr.TraceID(), spans[0].TraceID)
	assert.Equal(t, tr.TraceID(), spans[1].TraceID)
	assert.NotEqual(t, spans[0].SpanID, spans[1].SpanID)
	assert.Equal(t, true, spans[0].Attributes["detected"])
	assert.Empty(t, spans[0].Error)
	assert.Equal(t, "completion failed", spans[1].Error)
	assert.Equal(t, []string{"signals", "generator"}, mem.Names())
}

func TestTracer_NilSink(t *testing.T) {
	tr := NewTracer(nil)
	tr.Start("x", nil).End(nil)
}

func TestAsyncSink_NeverBlocks(t *testing.T) {
	defer goleak.VerifyNone(t)

	release := make(chan struct{})
	var got []Span
	slow := SinkFunc(func(s Span) {
		<-release
		got = append(got, s)
	})
	sink := NewAsyncSink(slow, 2, zap.NewNop())

	start := time.Now()
	for i := 0; i < 50; i++ {
		sink.Emit(Span{Name: "s"})
	}
	assert.Less(t, time.Since(start), time.Second)
	assert.Positive(t, sink.Dropped())

	close(release)
	sink.Close()
	assert.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 3)
}

func TestAsyncSink_SurvivesPanickingSink(t *testing.T) {
	defer goleak.VerifyNone(t)

	mem := &Memory{}
	calls := 0
	sink := NewAsyncSink(SinkFunc(func(s Span) {
		calls++
		if calls == 1 {
			panic("collector down")
		}
		mem.Emit(s)
	}), 8, nil)
	sink.Emit(Span{Name: "first"})
	sink.Emit(Span{Name: "second"})
	sink.Close()
	assert.Equal(t, []string{"second"}, mem.Names())
}

func TestAsyncSink_EmitAfterClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := NewAsyncSink(Noop{}, 1, nil)
	sink.Close()
	sink.Close()
	sink.Emit(Span{Name: "late"})
	sink.Emit(Span{Name: "later"})
	assert.Equal(t, int64(1), sink.Dropped())
}
