package board_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"reelflow/internal/batch"
	"reelflow/internal/board"
)

type fakeStore struct {
	mu        sync.Mutex
	batches   []*batch.Batch
	setCalls  int
	failMoves bool
}

func (f *fakeStore) ListBatches(_ context.Context, _ ...batch.Status) ([]*batch.Batch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*batch.Batch, len(f.batches))
	for i, item := range f.batches {
		cp := *item
		out[i] = &cp
	}
	return out, nil
}

func (f *fakeStore) SetStatus(_ context.Context, id int64, status batch.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	if f.failMoves {
		return errors.New("store offline")
	}
	for _, item := range f.batches {
		if item.ID == id {
			item.Status = status
		}
	}
	return nil
}

func (f *fakeStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setCalls
}

func newBoard(t *testing.T, batches ...*batch.Batch) (*board.Board, *fakeStore) {
	t.Helper()
	store := &fakeStore{batches: batches}
	b := board.New(store, nil)
	if err := b.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	return b, store
}

func TestColumnsCoverEveryStatus(t *testing.T) {
	b, _ := newBoard(t,
		&batch.Batch{ID: 1, Name: "a", Status: batch.StatusIdeation},
		&batch.Batch{ID: 2, Name: "b", Status: batch.StatusFilming},
		&batch.Batch{ID: 3, Name: "c", Status: batch.StatusFilming},
	)
	columns := b.Columns()
	if len(columns) != len(batch.AllStatuses()) {
		t.Fatalf("expected a column per status, got %d", len(columns))
	}
	for i, status := range batch.AllStatuses() {
		if columns[i].Status != status {
			t.Fatalf("column %d out of canonical order: %s", i, columns[i].Status)
		}
	}
	if got := len(columns[2].Batches); got != 2 {
		t.Fatalf("expected 2 batches in FILMING, got %d", got)
	}
	if columns[2].Batches[0].ID != 2 || columns[2].Batches[1].ID != 3 {
		t.Fatal("column must preserve list order")
	}
}

func TestBeginDragFromFilming(t *testing.T) {
	b, _ := newBoard(t, &batch.Batch{ID: 1, Status: batch.StatusFilming})

	drag, err := b.BeginDrag(1)
	if err != nil {
		t.Fatalf("BeginDrag failed: %v", err)
	}
	want := []batch.Status{
		batch.StatusCreatorBriefing,
		batch.StatusFilming,
		batch.StatusEditorBriefing,
		batch.StatusArchived,
	}
	got := drag.Targets()
	if len(got) != len(want) {
		t.Fatalf("targets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("targets = %v, want %v", got, want)
		}
	}
	if drag.CanDrop(batch.StatusReview) {
		t.Fatal("REVIEW is not adjacent to FILMING")
	}
}

func TestBeginDragFromArchived(t *testing.T) {
	b, _ := newBoard(t, &batch.Batch{ID: 1, Status: batch.StatusArchived})

	drag, err := b.BeginDrag(1)
	if err != nil {
		t.Fatalf("BeginDrag failed: %v", err)
	}
	if !drag.CanDrop(batch.StatusIdeation) {
		t.Fatal("archived batches re-enter at IDEATION")
	}
	if drag.CanDrop(batch.StatusLearning) {
		t.Fatal("archived batches may not resume mid-pipeline")
	}
}

func TestDropSameColumnIsNoOp(t *testing.T) {
	b, store := newBoard(t, &batch.Batch{ID: 1, Status: batch.StatusFilming})

	moved, err := b.Drop(context.Background(), 1, batch.StatusFilming)
	if err != nil {
		t.Fatalf("Drop failed: %v", err)
	}
	if moved {
		t.Fatal("same-column drop must not move")
	}
	if store.calls() != 0 {
		t.Fatal("same-column drop must not touch the store")
	}
}

func TestDropRejectsIllegalTarget(t *testing.T) {
	b, store := newBoard(t, &batch.Batch{ID: 1, Status: batch.StatusIdeation})

	if _, err := b.Drop(context.Background(), 1, batch.StatusReview); err == nil {
		t.Fatal("expected non-adjacent drop to be rejected")
	}
	if store.calls() != 0 {
		t.Fatal("rejected drop must not touch the store")
	}
	entry, _ := b.Batch(1)
	if entry.Status != batch.StatusIdeation {
		t.Fatalf("rejected drop mutated snapshot: %s", entry.Status)
	}
}

func TestDropAdvancesOneStep(t *testing.T) {
	b, store := newBoard(t, &batch.Batch{ID: 1, Status: batch.StatusFilming})

	moved, err := b.Drop(context.Background(), 1, batch.StatusEditorBriefing)
	if err != nil {
		t.Fatalf("Drop failed: %v", err)
	}
	if !moved {
		t.Fatal("expected move")
	}
	if store.calls() != 1 {
		t.Fatalf("expected one status write, got %d", store.calls())
	}
	entry, _ := b.Batch(1)
	if entry.Status != batch.StatusEditorBriefing {
		t.Fatalf("snapshot status = %s", entry.Status)
	}
}

func TestDropOntoArchiveSkipsStages(t *testing.T) {
	b, _ := newBoard(t, &batch.Batch{ID: 1, Status: batch.StatusCreatorBriefing})

	moved, err := b.Drop(context.Background(), 1, batch.StatusArchived)
	if err != nil {
		t.Fatalf("Drop failed: %v", err)
	}
	if !moved {
		t.Fatal("archiving must be legal from any column")
	}
	entry, _ := b.Batch(1)
	if entry.Status != batch.StatusArchived {
		t.Fatalf("snapshot status = %s", entry.Status)
	}
}

func TestDropIsOptimisticWhenStoreFails(t *testing.T) {
	b, store := newBoard(t, &batch.Batch{ID: 1, Status: batch.StatusReview})
	store.mu.Lock()
	store.failMoves = true
	store.mu.Unlock()

	moved, err := b.Drop(context.Background(), 1, batch.StatusAIBoost)
	if err != nil {
		t.Fatalf("Drop must swallow persistence failure: %v", err)
	}
	if !moved {
		t.Fatal("expected optimistic move")
	}
	entry, _ := b.Batch(1)
	if entry.Status != batch.StatusAIBoost {
		t.Fatalf("optimistic move lost: %s", entry.Status)
	}
}

func TestDropFailureWarnsWithCorrelation(t *testing.T) {
	store := &fakeStore{
		batches:   []*batch.Batch{{ID: 3, Status: batch.StatusIdeation}},
		failMoves: true,
	}
	var buf bytes.Buffer
	b := board.New(store, slog.New(slog.NewTextHandler(&buf, nil)))
	if err := b.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	moved, err := b.Drop(context.Background(), 3, batch.StatusCreatorBriefing)
	if err != nil {
		t.Fatalf("Drop must swallow persistence failure: %v", err)
	}
	if !moved {
		t.Fatal("expected optimistic move")
	}

	out := buf.String()
	if !strings.Contains(out, "batch_id=3") {
		t.Fatalf("move warning missing batch id: %q", out)
	}
	if !strings.Contains(out, "correlation_id=") {
		t.Fatalf("move warning missing correlation id: %q", out)
	}
}

func TestDropUnknownBatch(t *testing.T) {
	b, _ := newBoard(t)
	if _, err := b.Drop(context.Background(), 99, batch.StatusIdeation); err == nil {
		t.Fatal("expected error for unknown batch")
	}
}
