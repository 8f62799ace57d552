package batch_test

import (
	"errors"
	"testing"

	"reelflow/internal/batch"
)

func TestStepForProjectionTable(t *testing.T) {
	cases := []struct {
		status batch.Status
		step   batch.Step
	}{
		{batch.StatusIdeation, batch.StepIdeation},
		{batch.StatusCreatorBriefing, batch.StepCreatorBriefing},
		{batch.StatusFilming, batch.StepFilming},
		{batch.StatusEditorBriefing, batch.StepBriefing},
		{batch.StatusEditing, batch.StepProduction},
		{batch.StatusReview, batch.StepReview},
		{batch.StatusAIBoost, batch.StepAIBoost},
		{batch.StatusLearning, batch.StepLearning},
		{batch.StatusArchived, batch.StepLearning},
	}
	for _, tc := range cases {
		step, err := batch.StepFor(tc.status)
		if err != nil {
			t.Fatalf("StepFor(%s) failed: %v", tc.status, err)
		}
		if step != tc.step {
			t.Fatalf("StepFor(%s) = %s, want %s", tc.status, step, tc.step)
		}
	}
}

func TestStepForRejectsUnknownStatus(t *testing.T) {
	if _, err := batch.StepFor(batch.Status("SHIPPING")); !errors.Is(err, batch.ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestExactlyOneStepUnlockedPerStatus(t *testing.T) {
	for _, status := range batch.AllStatuses() {
		unlocked := 0
		for _, step := range batch.AllSteps() {
			if batch.IsStepUnlocked(step, status) {
				unlocked++
			}
		}
		if unlocked != 1 {
			t.Fatalf("status %s unlocks %d steps, want exactly 1", status, unlocked)
		}
	}
}

func TestIsStageComplete(t *testing.T) {
	// EDITING sits past the first four steps but not past PRODUCTION itself.
	for _, step := range []batch.Step{batch.StepIdeation, batch.StepCreatorBriefing, batch.StepFilming, batch.StepBriefing} {
		if !batch.IsStageComplete(step, batch.StatusEditing) {
			t.Fatalf("expected %s complete for EDITING", step)
		}
	}
	for _, step := range []batch.Step{batch.StepProduction, batch.StepReview, batch.StepAIBoost, batch.StepLearning} {
		if batch.IsStageComplete(step, batch.StatusEditing) {
			t.Fatalf("expected %s incomplete for EDITING", step)
		}
	}

	// ARCHIVED is past everything, including the LEARNING anchor.
	if !batch.IsStageComplete(batch.StepLearning, batch.StatusArchived) {
		t.Fatal("expected LEARNING complete for ARCHIVED")
	}

	if batch.IsStageComplete(batch.StepIdeation, batch.Status("SHIPPING")) {
		t.Fatal("unknown status must never report completion")
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := batch.ParseStatus(" editor_briefing "); !ok || status != batch.StatusEditorBriefing {
		t.Fatalf("ParseStatus normalization failed: %q %v", status, ok)
	}
	if _, ok := batch.ParseStatus("SHIPPING"); ok {
		t.Fatal("expected unknown status to be rejected")
	}
	if _, ok := batch.ParseStatus(""); ok {
		t.Fatal("expected empty status to be rejected")
	}
}
