package api

import (
	"time"

	"reelflow/internal/batch"
	"reelflow/internal/board"
)

// FromBatch converts a storage record to its API representation.
func FromBatch(b *batch.Batch) Batch {
	if b == nil {
		return Batch{}
	}
	dto := Batch{
		ID:               b.ID,
		Name:             b.Name,
		Status:           string(b.Status),
		BatchType:        string(b.BatchType),
		Idea:             b.Idea,
		CreatorBrief:     b.CreatorBrief,
		Shotlist:         b.Shotlist,
		Brief:            b.Brief,
		MainMessaging:    b.MainMessaging,
		Learnings:        b.Learnings,
		BoostHooks:       b.BoostHooks,
		BoostCopy:        b.BoostCopy,
		AngleID:          b.AngleID,
		FormatID:         b.FormatID,
		ReferenceBatchID: b.ReferenceBatchID,
		ReferenceAdID:    b.ReferenceAdID,
		CreatedAt:        FormatTime(b.CreatedAt),
		UpdatedAt:        FormatTime(b.UpdatedAt),
	}
	if step, err := b.Step(); err == nil {
		dto.Step = string(step)
	}
	return dto
}

// FromBatches converts a slice of storage records into API DTOs.
func FromBatches(batches []*batch.Batch) []Batch {
	if len(batches) == 0 {
		return nil
	}
	out := make([]Batch, 0, len(batches))
	for _, b := range batches {
		out = append(out, FromBatch(b))
	}
	return out
}

// FromItem converts an item record to its API representation.
func FromItem(item *batch.BatchItem) BatchItem {
	if item == nil {
		return BatchItem{}
	}
	return BatchItem{
		ID:        item.ID,
		BatchID:   item.BatchID,
		HookID:    item.HookID,
		Notes:     item.Notes,
		Script:    item.Script,
		VideoURL:  item.VideoURL,
		Status:    string(item.Status),
		CreatedAt: FormatTime(item.CreatedAt),
		UpdatedAt: FormatTime(item.UpdatedAt),
	}
}

// FromItems converts a slice of item records into API DTOs.
func FromItems(items []*batch.BatchItem) []BatchItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]BatchItem, 0, len(items))
	for _, item := range items {
		out = append(out, FromItem(item))
	}
	return out
}

// FromColumns converts a board snapshot into the kanban payload.
func FromColumns(columns []board.Column) BoardView {
	view := BoardView{
		Columns: make([]BoardColumn, 0, len(columns)),
		Counts:  make(map[string]int, len(columns)),
	}
	for _, column := range columns {
		cards := make([]BoardCard, 0, len(column.Batches))
		for _, b := range column.Batches {
			cards = append(cards, BoardCard{
				ID:        b.ID,
				Name:      b.Name,
				BatchType: string(b.BatchType),
				UpdatedAt: FormatTime(b.UpdatedAt),
			})
		}
		view.Columns = append(view.Columns, BoardColumn{
			Status: string(column.Status),
			Cards:  cards,
		})
		view.Counts[string(column.Status)] = len(cards)
	}
	return view
}

// MergeStats produces a string-keyed representation of board stats.
func MergeStats(stats map[batch.Status]int) map[string]int {
	out := make(map[string]int, len(stats))
	for status, count := range stats {
		out[string(status)] = count
	}
	return out
}

// FormatTime converts a time to RFC3339 or returns empty string.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
