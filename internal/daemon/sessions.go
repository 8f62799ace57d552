package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"reelflow/internal/controller"
	"reelflow/internal/logging"
)

// Sessions holds one batch controller per actively edited batch. Keeping the
// controller alive between requests is what makes field edits debounce across
// the HTTP boundary; closing a session forces its flush-on-exit.
type Sessions struct {
	store  controller.RemoteStore
	settle time.Duration
	idle   time.Duration
	logger *slog.Logger

	mu   sync.Mutex
	open map[int64]*session
}

type session struct {
	ctrl     *controller.Controller
	lastUsed time.Time
}

// NewSessions constructs an empty session manager.
func NewSessions(store controller.RemoteStore, settle, idle time.Duration, logger *slog.Logger) *Sessions {
	return &Sessions{
		store:  store,
		settle: settle,
		idle:   idle,
		logger: logging.NewComponentLogger(logger, "sessions"),
		open:   make(map[int64]*session),
	}
}

// Controller returns the controller for a batch, opening a session on first
// use. Every call refreshes the idle clock.
func (m *Sessions) Controller(ctx context.Context, batchID int64) (*controller.Controller, error) {
	m.mu.Lock()
	if entry, ok := m.open[batchID]; ok {
		entry.lastUsed = time.Now()
		ctrl := entry.ctrl
		m.mu.Unlock()
		return ctrl, nil
	}
	m.mu.Unlock()

	// Load outside the lock; loading hits the store.
	ctrl := controller.New(m.store, m.settle, m.logger)
	if err := ctrl.Load(ctx, batchID); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.open[batchID]; ok {
		// Another request opened the session first; keep theirs.
		ctrl.Close()
		entry.lastUsed = time.Now()
		return entry.ctrl, nil
	}
	m.open[batchID] = &session{ctrl: ctrl, lastUsed: time.Now()}
	m.logger.Debug("session opened", logging.Int64(logging.FieldBatchID, batchID))
	return ctrl, nil
}

// Peek returns the open controller for a batch without opening one.
func (m *Sessions) Peek(batchID int64) (*controller.Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.open[batchID]
	if !ok {
		return nil, false
	}
	entry.lastUsed = time.Now()
	return entry.ctrl, true
}

// CloseSession flushes and removes one session.
func (m *Sessions) CloseSession(batchID int64) {
	m.mu.Lock()
	entry, ok := m.open[batchID]
	if ok {
		delete(m.open, batchID)
	}
	m.mu.Unlock()
	if ok {
		entry.ctrl.Close()
		m.logger.Debug("session closed", logging.Int64(logging.FieldBatchID, batchID))
	}
}

// Forget removes a session without flushing. Used after the batch itself was
// deleted and the controller has already discarded its field stores.
func (m *Sessions) Forget(batchID int64) {
	m.mu.Lock()
	delete(m.open, batchID)
	m.mu.Unlock()
}

// Count reports the number of open sessions.
func (m *Sessions) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.open)
}

// ReapIdle closes every session untouched for longer than the idle window and
// returns how many were closed.
func (m *Sessions) ReapIdle(now time.Time) int {
	if m.idle <= 0 {
		return 0
	}
	m.mu.Lock()
	var stale []*session
	var ids []int64
	for id, entry := range m.open {
		if now.Sub(entry.lastUsed) >= m.idle {
			stale = append(stale, entry)
			ids = append(ids, id)
			delete(m.open, id)
		}
	}
	m.mu.Unlock()

	for i, entry := range stale {
		entry.ctrl.Close()
		m.logger.Info("idle session closed", logging.Int64(logging.FieldBatchID, ids[i]))
	}
	return len(stale)
}

// Run reaps idle sessions on the given interval until the context is done,
// then closes everything that remains.
func (m *Sessions) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.CloseAll()
			return
		case now := <-ticker.C:
			m.ReapIdle(now)
		}
	}
}

// CloseAll flushes and removes every open session.
func (m *Sessions) CloseAll() {
	m.mu.Lock()
	entries := make([]*session, 0, len(m.open))
	for id, entry := range m.open {
		entries = append(entries, entry)
		delete(m.open, id)
	}
	m.mu.Unlock()
	for _, entry := range entries {
		entry.ctrl.Close()
	}
}
