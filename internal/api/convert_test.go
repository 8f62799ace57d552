package api_test

import (
	"testing"
	"time"

	"reelflow/internal/api"
	"reelflow/internal/batch"
	"reelflow/internal/board"
)

func TestFromBatchMapsFieldsAndStep(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	dto := api.FromBatch(&batch.Batch{
		ID:        5,
		Name:      "Spring Launch",
		Status:    batch.StatusEditing,
		BatchType: batch.TypeIteration,
		Idea:      "POV unboxing",
		CreatedAt: created,
	})
	if dto.ID != 5 || dto.Name != "Spring Launch" {
		t.Fatalf("unexpected dto: %#v", dto)
	}
	if dto.Status != "EDITING" {
		t.Fatalf("status = %q", dto.Status)
	}
	if dto.Step != "PRODUCTION" {
		t.Fatalf("EDITING must project to the PRODUCTION step, got %q", dto.Step)
	}
	if dto.CreatedAt != "2026-03-14T09:30:00.000Z" {
		t.Fatalf("createdAt = %q", dto.CreatedAt)
	}
	if dto.UpdatedAt != "" {
		t.Fatalf("zero time must render empty, got %q", dto.UpdatedAt)
	}
}

func TestFromBatchNil(t *testing.T) {
	if dto := api.FromBatch(nil); dto.ID != 0 {
		t.Fatalf("nil batch must yield zero dto: %#v", dto)
	}
}

func TestFromColumnsCountsEveryColumn(t *testing.T) {
	columns := []board.Column{
		{Status: batch.StatusIdeation, Batches: []batch.Batch{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}},
		{Status: batch.StatusCreatorBriefing},
	}
	view := api.FromColumns(columns)
	if len(view.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(view.Columns))
	}
	if view.Counts["IDEATION"] != 2 || view.Counts["CREATOR_BRIEFING"] != 0 {
		t.Fatalf("counts = %v", view.Counts)
	}
	if view.Columns[0].Cards[1].Name != "b" {
		t.Fatal("cards must preserve column order")
	}
}
