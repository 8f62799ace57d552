package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"reelflow/internal/logging"
)

// DefaultSettleDelay is the quiet period after the last edit before a field is
// persisted.
const DefaultSettleDelay = time.Second

// PersistFunc writes a field value to the remote store.
type PersistFunc func(ctx context.Context, value string) error

// Field holds the in-flight value of one editable field. All methods are safe
// for concurrent use; each field has its own timer and dirty flag, so edits to
// independent fields never contend.
type Field struct {
	name    string
	delay   time.Duration
	persist PersistFunc
	logger  *slog.Logger

	mu            sync.Mutex
	value         string
	lastConfirmed string
	dirty         bool
	closed        bool
	timer         *time.Timer
	generation    uint64
}

// NewField constructs a field store. A zero or negative delay falls back to
// DefaultSettleDelay.
func NewField(name string, delay time.Duration, persist PersistFunc, logger *slog.Logger) *Field {
	if delay <= 0 {
		delay = DefaultSettleDelay
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Field{
		name:    name,
		delay:   delay,
		persist: persist,
		logger:  logger.With(logging.String(logging.FieldField, name)),
	}
}

// Seed assigns the initial loaded value. It never arms the debounce: loading
// is not a user edit. Seeding also resets any pending edit state.
func (f *Field) Seed(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopTimerLocked()
	f.value = value
	f.lastConfirmed = value
	f.dirty = false
}

// Set records an edit. The value is immediately visible, the field becomes
// dirty, and the settle timer is cancelled and rescheduled so at most one
// flush is ever pending.
func (f *Field) Set(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.value = value
	f.dirty = true
	f.stopTimerLocked()
	f.generation++
	gen := f.generation
	f.timer = time.AfterFunc(f.delay, func() { f.settle(gen) })
}

// Value returns the currently visible value.
func (f *Field) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Dirty reports whether an edit is awaiting persistence.
func (f *Field) Dirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirty
}

// Name returns the field name.
func (f *Field) Name() string {
	return f.name
}

// Close tears the field down. A dirty value is flushed synchronously before
// state is discarded; the cancelled timer never fires afterwards.
func (f *Field) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.stopTimerLocked()
	needsFlush := f.dirty && f.value != f.lastConfirmed
	value := f.value
	f.dirty = false
	f.mu.Unlock()

	if needsFlush {
		f.doPersist(value)
	}
}

// settle runs on the timer goroutine when the settle delay elapses without a
// newer edit.
func (f *Field) settle(gen uint64) {
	f.mu.Lock()
	if f.closed || gen != f.generation {
		f.mu.Unlock()
		return
	}
	if f.value == f.lastConfirmed {
		// The value round-tripped back to its persisted state within the
		// settle window; skip the redundant write.
		f.dirty = false
		f.mu.Unlock()
		return
	}
	value := f.value
	f.mu.Unlock()

	if !f.doPersist(value) {
		return
	}

	f.mu.Lock()
	f.lastConfirmed = value
	if f.value == value && gen == f.generation {
		f.dirty = false
	}
	f.mu.Unlock()
}

func (f *Field) doPersist(value string) bool {
	if f.persist == nil {
		return true
	}
	if err := f.persist(context.Background(), value); err != nil {
		// Optimistic local state remains the visible truth; the next edit's
		// debounce cycle retries persistence of the latest value.
		f.logger.Warn("autosave persist failed", logging.Error(err))
		return false
	}
	return true
}

func (f *Field) stopTimerLocked() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.generation++
}
