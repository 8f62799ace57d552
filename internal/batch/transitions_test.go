package batch_test

import (
	"testing"

	"reelflow/internal/batch"
)

func TestLegalTargetsAdjacency(t *testing.T) {
	order := batch.AllStatuses()
	for i, status := range order {
		if status == batch.StatusArchived {
			continue
		}
		targets := batch.LegalTargets(status)
		want := 3
		if i == 0 {
			want = 2
		}
		if len(targets) != want {
			t.Fatalf("LegalTargets(%s) has %d members, want %d: %v", status, len(targets), want, targets)
		}
		for _, target := range targets {
			gap := orderGap(t, status, target)
			if gap < -1 || gap > 1 {
				t.Fatalf("LegalTargets(%s) contains non-adjacent %s", status, target)
			}
		}
	}
}

func TestLegalTargetsFromArchived(t *testing.T) {
	targets := batch.LegalTargets(batch.StatusArchived)
	if len(targets) != 1 || targets[0] != batch.StatusIdeation {
		t.Fatalf("expected escape hatch {IDEATION}, got %v", targets)
	}
}

func TestCanMoveRejectsSkips(t *testing.T) {
	// EDITOR_BRIEFING may reach FILMING, itself, and EDITING; REVIEW skips a stage.
	from := batch.StatusEditorBriefing
	for _, ok := range []batch.Status{batch.StatusFilming, batch.StatusEditorBriefing, batch.StatusEditing} {
		if !batch.CanMove(from, ok) {
			t.Fatalf("expected %s -> %s to be legal", from, ok)
		}
	}
	if batch.CanMove(from, batch.StatusReview) {
		t.Fatalf("expected %s -> REVIEW to be rejected", from)
	}
	if batch.CanMove(batch.StatusIdeation, batch.StatusReview) {
		t.Fatal("expected IDEATION -> REVIEW to be rejected")
	}
}

func TestCanMoveArchiveEscapeValve(t *testing.T) {
	for _, status := range batch.AllStatuses() {
		if !batch.CanMove(status, batch.StatusArchived) {
			t.Fatalf("archiving from %s must always be legal", status)
		}
	}
}

func TestCanMoveFromArchived(t *testing.T) {
	if batch.CanMove(batch.StatusArchived, batch.StatusEditing) {
		t.Fatal("expected ARCHIVED -> EDITING to be rejected")
	}
	if !batch.CanMove(batch.StatusArchived, batch.StatusIdeation) {
		t.Fatal("expected ARCHIVED -> IDEATION to be accepted")
	}
}

func TestCanMoveUnknownStatuses(t *testing.T) {
	if batch.CanMove(batch.Status("SHIPPING"), batch.StatusIdeation) {
		t.Fatal("unknown source status must be rejected")
	}
	if batch.CanMove(batch.StatusIdeation, batch.Status("SHIPPING")) {
		t.Fatal("unknown target status must be rejected")
	}
}

func orderGap(t *testing.T, from, to batch.Status) int {
	t.Helper()
	fromIdx, err := batch.OrderIndex(from)
	if err != nil {
		t.Fatalf("OrderIndex(%s): %v", from, err)
	}
	toIdx, err := batch.OrderIndex(to)
	if err != nil {
		t.Fatalf("OrderIndex(%s): %v", to, err)
	}
	return toIdx - fromIdx
}
