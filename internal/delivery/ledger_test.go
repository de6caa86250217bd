package delivery

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StrideCoach/internal/model"
)

func output(title string, level model.FallbackLevel) model.OrchestratorOutput {
	return model.OrchestratorOutput{
		Tip:        model.Tip{Title: title},
		Processing: model.ProcessingInfo{FallbackLevel: level},
	}
}

func TestLedger_DueOncePerDay(t *testing.T) {
	l, err := NewLedger("", nil)
	require.NoError(t, err)
	clock := time.Date(2026, 5, 4, 8, 0, 0, 0, time.Local)
	l.now = func() time.Time { return clock }

	assert.True(t, l.Due("alice"))
	l.MarkSent("alice", output("Rest", model.LevelFull))
	assert.False(t, l.Due("alice"))
	assert.True(t, l.Due("bob"))

	clock = clock.Add(20 * time.Hour)
	assert.True(t, l.Due("alice"))
}

func TestLedger_PauseAndDegradedStreak(t *testing.T) {
	l, err := NewLedger("", nil)
	require.NoError(t, err)

	l.SetPaused("alice", true)
	assert.False(t, l.Due("alice"))
	l.SetPaused("alice", false)
	assert.True(t, l.Due("alice"))

	l.MarkSent("alice", output("a", model.LevelStatic))
	l.MarkSent("alice", output("b", model.LevelSingle))
	assert.Equal(t, 2, l.Get("alice").ConsecutiveDegraded)
	l.MarkSent("alice", output("c", model.LevelAlgorithmsOnly))

	got := l.Get("alice")
	assert.Equal(t, 0, got.ConsecutiveDegraded)
	assert.Equal(t, 3, got.TipsSent)
	assert.Equal(t, "c", got.LastTitle)
	assert.Equal(t, model.LevelAlgorithmsOnly, got.LastLevel)
}

func TestLedger_PersistsAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "delivery.json")
	l, err := NewLedger(path, nil)
	require.NoError(t, err)
	l.MarkSent("alice", output("Rest", model.LevelFull))
	l.SetPaused("bob", true)

	reopened, err := NewLedger(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Get("alice").TipsSent)
	assert.False(t, reopened.Due("alice"))
	assert.True(t, reopened.Get("bob").Paused)
}
