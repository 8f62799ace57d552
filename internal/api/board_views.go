package api

import (
	"context"
	"fmt"
	"log/slog"

	"reelflow/internal/batch"
	"reelflow/internal/board"
	"reelflow/internal/services"
)

// BoardService exposes the kanban view and drag operations over a board store.
// Each call works on a fresh snapshot so surfaces never observe a half-moved
// board.
type BoardService struct {
	store  board.Store
	logger *slog.Logger
}

// NewBoardService constructs a BoardService around the provided store.
func NewBoardService(store board.Store, logger *slog.Logger) *BoardService {
	if store == nil {
		return nil
	}
	return &BoardService{store: store, logger: logger}
}

// View returns the full board: every column in canonical order with cards.
func (s *BoardService) View(ctx context.Context) (BoardView, error) {
	if s == nil || s.store == nil {
		return BoardView{}, nil
	}
	b := board.New(s.store, s.logger)
	if err := b.Refresh(ctx); err != nil {
		return BoardView{}, err
	}
	return FromColumns(b.Columns()), nil
}

// Targets reports the columns a batch may legally be dropped on.
func (s *BoardService) Targets(ctx context.Context, batchID int64) (DragTargets, error) {
	if s == nil || s.store == nil {
		return DragTargets{}, nil
	}
	b := board.New(s.store, s.logger)
	if err := b.Refresh(ctx); err != nil {
		return DragTargets{}, err
	}
	drag, err := b.BeginDrag(batchID)
	if err != nil {
		return DragTargets{}, err
	}
	targets := drag.Targets()
	out := DragTargets{BatchID: batchID, From: string(drag.From)}
	out.Targets = make([]string, 0, len(targets))
	for _, target := range targets {
		out.Targets = append(out.Targets, string(target))
	}
	return out, nil
}

// Move drops a batch onto a column, enforcing the transition rules. Dropping
// a batch onto its current column reports Moved=false without touching the
// store.
func (s *BoardService) Move(ctx context.Context, batchID int64, target string) (MoveResult, error) {
	if s == nil || s.store == nil {
		return MoveResult{}, nil
	}
	to, ok := batch.ParseStatus(target)
	if !ok {
		return MoveResult{}, services.Wrap(services.ErrValidation, "api", "move",
			fmt.Sprintf("unknown status %q", target), nil)
	}
	b := board.New(s.store, s.logger)
	if err := b.Refresh(ctx); err != nil {
		return MoveResult{}, err
	}
	drag, err := b.BeginDrag(batchID)
	if err != nil {
		return MoveResult{}, err
	}
	moved, err := b.Drop(ctx, batchID, to)
	if err != nil {
		return MoveResult{}, err
	}
	return MoveResult{Moved: moved, From: string(drag.From), To: string(to)}, nil
}
