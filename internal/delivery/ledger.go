package delivery

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"StrideCoach/internal/model"
)

// Ledger tracks which profiles got their tip and which asked for a pause.
// It is safe for concurrent use.
type Ledger struct {
	mu       sync.Mutex
	state    *model.DeliveryState
	filePath string
	logger   *zap.Logger
	now      func() time.Time
}

// NewLedger loads or initializes state from disk. An empty path keeps state in memory only.
func NewLedger(filePath string, logger *zap.Logger) (*Ledger, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	state := &model.DeliveryState{Profiles: map[string]*model.ProfileDelivery{}}
	if filePath != "" {
		var err error
		if state, err = LoadState(filePath); err != nil {
			return nil, err
		}
	}
	return &Ledger{state: state, filePath: filePath, logger: logger.Named("delivery"), now: time.Now}, nil
}

func (l *Ledger) entry(profileID string) *model.ProfileDelivery {
	e, ok := l.state.Profiles[profileID]
	if !ok {
		e = &model.ProfileDelivery{}
		l.state.Profiles[profileID] = e
	}
	return e
}

// Get returns a copy of a profile's bookkeeping.
func (l *Ledger) Get(profileID string) model.ProfileDelivery {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.state.Profiles[profileID]; ok {
		return *e
	}
	return model.ProfileDelivery{}
}

// Due reports whether the scheduled run should send to the profile today:
// not paused and nothing sent yet on the current local day.
func (l *Ledger) Due(profileID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.state.Profiles[profileID]
	if !ok {
		return true
	}
	if e.Paused {
		return false
	}
	return !sameDay(e.LastSentAt, l.now())
}

// MarkSent records a delivered tip.
func (l *Ledger) MarkSent(profileID string, out model.OrchestratorOutput) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.entry(profileID)
	e.LastSentAt = l.now()
	e.LastTitle = out.Tip.Title
	e.LastLevel = out.Processing.FallbackLevel
	e.TipsSent++

	// Track consecutive degraded deliveries
	if out.Processing.FallbackLevel == model.LevelSingle || out.Processing.FallbackLevel == model.LevelStatic {
		e.ConsecutiveDegraded++
	} else {
		e.ConsecutiveDegraded = 0
	}

	l.save()
}

// SetPaused pauses or resumes scheduled tips for a profile.
func (l *Ledger) SetPaused(profileID string, paused bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entry(profileID).Paused = paused
	l.save()
}

func (l *Ledger) save() {
	if l.filePath == "" {
		return
	}
	if err := SaveState(l.filePath, l.state); err != nil {
		l.logger.Error("failed to save delivery state", zap.String("path", l.filePath), zap.Error(err))
	}
}

func sameDay(a, b time.Time) bool {
	if a.IsZero() {
		return false
	}
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}
