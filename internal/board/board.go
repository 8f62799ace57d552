package board

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"reelflow/internal/batch"
	"reelflow/internal/logging"
	"reelflow/internal/services"
)

// Store is the slice of batch.Store the board reads and mutates.
type Store interface {
	ListBatches(ctx context.Context, statuses ...batch.Status) ([]*batch.Batch, error)
	SetStatus(ctx context.Context, id int64, status batch.Status) error
}

// Column is one vertical lane of the board.
type Column struct {
	Status  batch.Status
	Batches []batch.Batch
}

// DragState describes an in-flight drag: which batch moved out of which
// column, and the set of columns it may legally land in.
type DragState struct {
	BatchID int64
	From    batch.Status
	targets map[batch.Status]bool
}

// CanDrop reports whether the dragged batch may land on the given column.
func (d DragState) CanDrop(to batch.Status) bool {
	return d.targets[to]
}

// Targets returns the legal landing columns in canonical order.
func (d DragState) Targets() []batch.Status {
	out := make([]batch.Status, 0, len(d.targets))
	for _, status := range batch.AllStatuses() {
		if d.targets[status] {
			out = append(out, status)
		}
	}
	return out
}

// Board holds a loaded snapshot of every batch, grouped by status.
type Board struct {
	store  Store
	logger *slog.Logger

	mu      sync.Mutex
	batches map[int64]*batch.Batch
	order   []int64
}

// New constructs an empty board; call Refresh before reading columns.
func New(store Store, logger *slog.Logger) *Board {
	return &Board{
		store:   store,
		logger:  logging.NewComponentLogger(logger, "board"),
		batches: make(map[int64]*batch.Batch),
	}
}

// Refresh replaces the snapshot with the current store contents.
func (b *Board) Refresh(ctx context.Context) error {
	listed, err := b.store.ListBatches(ctx)
	if err != nil {
		return services.Wrap(services.ErrTransient, "board", "refresh", "list batches", err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batches = make(map[int64]*batch.Batch, len(listed))
	b.order = b.order[:0]
	for _, item := range listed {
		cp := *item
		b.batches[cp.ID] = &cp
		b.order = append(b.order, cp.ID)
	}
	return nil
}

// Columns returns one column per status in canonical order. Every column is
// present even when empty; batches within a column keep store list order.
func (b *Board) Columns() []Column {
	b.mu.Lock()
	defer b.mu.Unlock()

	statuses := batch.AllStatuses()
	byStatus := make(map[batch.Status][]batch.Batch, len(statuses))
	for _, id := range b.order {
		entry := b.batches[id]
		byStatus[entry.Status] = append(byStatus[entry.Status], *entry)
	}
	columns := make([]Column, len(statuses))
	for i, status := range statuses {
		columns[i] = Column{Status: status, Batches: byStatus[status]}
	}
	return columns
}

// Batch returns the snapshot copy of one batch, if present.
func (b *Board) Batch(id int64) (batch.Batch, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entry, ok := b.batches[id]
	if !ok {
		return batch.Batch{}, false
	}
	return *entry, true
}

// BeginDrag computes the drag state for picking up a batch: its source column
// and the columns it may land in. The archive column is always a legal target.
func (b *Board) BeginDrag(batchID int64) (DragState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entry, ok := b.batches[batchID]
	if !ok {
		return DragState{}, services.Wrap(services.ErrNotFound, "board", "begin drag", fmt.Sprintf("batch %d", batchID), nil)
	}
	targets := make(map[batch.Status]bool)
	for _, status := range batch.LegalTargets(entry.Status) {
		targets[status] = true
	}
	targets[batch.StatusArchived] = true
	return DragState{BatchID: batchID, From: entry.Status, targets: targets}, nil
}

// Drop lands a batch on a column. Landing on its own column is a no-op that
// touches nothing; an illegal column is rejected without mutation. A legal
// move updates the snapshot immediately and then persists the status change,
// logging persistence failures without rolling back.
func (b *Board) Drop(ctx context.Context, batchID int64, to batch.Status) (bool, error) {
	if !batch.IsValidStatus(to) {
		return false, services.Wrap(services.ErrValidation, "board", "drop", fmt.Sprintf("unknown status %q", to), nil)
	}

	b.mu.Lock()
	entry, ok := b.batches[batchID]
	if !ok {
		b.mu.Unlock()
		return false, services.Wrap(services.ErrNotFound, "board", "drop", fmt.Sprintf("batch %d", batchID), nil)
	}
	from := entry.Status
	if from == to {
		b.mu.Unlock()
		return false, nil
	}
	if !batch.CanMove(from, to) {
		b.mu.Unlock()
		return false, services.Wrap(services.ErrValidation, "board", "drop",
			fmt.Sprintf("cannot move from %s to %s", from, to), nil)
	}
	entry.Status = to
	b.mu.Unlock()

	reqCtx := requestContext(ctx, batchID)
	if err := b.store.SetStatus(reqCtx, batchID, to); err != nil {
		logging.WithContext(reqCtx, b.logger).Warn("move persist failed",
			logging.String(logging.FieldStatus, string(to)),
			logging.Error(err))
	}
	return true, nil
}

func requestContext(ctx context.Context, batchID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = services.WithBatchID(ctx, batchID)
	return services.WithRequestID(ctx, uuid.NewString())
}
