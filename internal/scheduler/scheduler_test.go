package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"StrideCoach/internal/collector"
	"StrideCoach/internal/delivery"
	"StrideCoach/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeRunner struct{}

func (fakeRunner) Run(_ context.Context, in *model.OrchestratorInput) model.OrchestratorOutput {
	return model.OrchestratorOutput{
		Tip:        model.Tip{Title: "Tip for " + in.ProfileID, Message: "m", Category: model.CategoryProgress},
		Processing: model.ProcessingInfo{FallbackLevel: model.LevelFull, OrchestrationType: "full"},
	}
}

type fakeSender struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

func newTestScheduler(t *testing.T, sender *fakeSender) *Scheduler {
	t.Helper()
	src := &collector.StaticSource{Items: []model.OrchestratorInput{
		{ProfileID: "alice", Name: "Alice", CurrentEnergy: 50},
		{ProfileID: "bob", CurrentEnergy: 60},
	}}
	ledger, err := delivery.NewLedger("", nil)
	require.NoError(t, err)
	return NewScheduler(context.Background(), collector.NewCollector(src, nil), fakeRunner{}, sender, ledger, nil)
}

func TestDailyTask_SendsOncePerProfile(t *testing.T) {
	sender := &fakeSender{}
	s := newTestScheduler(t, sender)

	s.RunDailyNow()
	require.Len(t, sender.texts, 3)
	joined := strings.Join(sender.texts, "\n")
	assert.Contains(t, joined, "Tip for alice")
	assert.Contains(t, joined, "Tip for bob")
	assert.Contains(t, sender.texts[2], "2 sent")
	assert.Equal(t, 1, s.Ledger.Get("alice").TipsSent)

	s.RunDailyNow()
	assert.Len(t, sender.texts, 3, "profiles already served today are skipped")
}

func TestDailyTask_SkipsPaused(t *testing.T) {
	sender := &fakeSender{}
	s := newTestScheduler(t, sender)
	s.Ledger.SetPaused("bob", true)

	s.RunDailyNow()
	require.Len(t, sender.texts, 1)
	assert.Contains(t, sender.texts[0], "Tip for alice")
}

func TestDailyTask_SendFailureNotMarked(t *testing.T) {
	sender := &fakeSender{err: errors.New("telegram down")}
	s := newTestScheduler(t, sender)

	s.RunDailyNow()
	assert.Zero(t, s.Ledger.Get("alice").TipsSent)
	assert.True(t, s.Ledger.Due("alice"))
}

func TestHandleCommand(t *testing.T) {
	sender := &fakeSender{}
	s := newTestScheduler(t, sender)
	ctx := context.Background()

	reply := s.HandleCommand(ctx, "/tip alice")
	assert.Contains(t, reply, "Tip for alice")
	assert.Contains(t, reply, "Alice")
	assert.Equal(t, 1, s.Ledger.Get("alice").TipsSent)

	assert.Contains(t, s.HandleCommand(ctx, "/tip carol"), "not found")
	assert.Contains(t, s.HandleCommand(ctx, "/tip"), "Usage: /tip")
	assert.Contains(t, s.HandleCommand(ctx, "/profiles"), "<code>bob</code>")

	assert.Contains(t, s.HandleCommand(ctx, "/pause bob"), "paused for bob")
	assert.False(t, s.Ledger.Due("bob"))
	assert.Contains(t, s.HandleCommand(ctx, "/status bob"), "paused")
	assert.Contains(t, s.HandleCommand(ctx, "/resume bob"), "resumed for bob")
	assert.True(t, s.Ledger.Due("bob"))
	assert.Contains(t, s.HandleCommand(ctx, "/pause carol"), "not found")

	assert.Equal(t, helpText, s.HandleCommand(ctx, "hello"))
	assert.Equal(t, helpText, s.HandleCommand(ctx, "   "))
	assert.Empty(t, sender.texts, "command replies go back through polling, not the sender")
}

func TestRegisterAll(t *testing.T) {
	s := newTestScheduler(t, &fakeSender{})
	assert.NoError(t, s.RegisterAll("0 0 8 * * *"))
	assert.Error(t, s.RegisterAll("every morning"))
	s.Start()
	s.Stop()
}
