package timer

import (
	"log/slog"
	"sync"
	"time"

	"github.com/quizforge/mathduel/internal/model"
)

// Manager arms one timeout timer per session. Arming a session that
// already has a timer replaces it; the stale callback never fires.
type Manager struct {
	mu     sync.Mutex
	timers map[model.SessionID]*time.Timer
	logger *slog.Logger
}

// New creates a new timer Manager
func New(logger *slog.Logger) *Manager {
	return &Manager{
		timers: make(map[model.SessionID]*time.Timer),
		logger: logger.With(slog.String("component", "round-timer")),
	}
}

// Arm schedules fn to run after d, replacing any timer already armed for
// the session
func (m *Manager) Arm(id model.SessionID, d time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.timers[id]; ok {
		t.Stop()
	}

	// The callback removes only its own entry: an expired timer that lost
	// the race to a replacement Arm must not evict the fresh timer.
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		m.mu.Lock()
		if m.timers[id] == t {
			delete(m.timers, id)
		}
		m.mu.Unlock()
		fn()
	})
	m.timers[id] = t
}

// Disarm cancels the session's timer, if any
func (m *Manager) Disarm(id model.SessionID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.timers[id]; ok {
		t.Stop()
		delete(m.timers, id)
	}
}

// Stop cancels all timers. Used at shutdown.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, t := range m.timers {
		t.Stop()
		delete(m.timers, id)
	}
	m.logger.Info("round timers stopped")
}
