package batch_test

import (
	"context"
	"testing"

	"reelflow/internal/batch"
	"reelflow/internal/testsupport"
)

func TestCreateBatchStartsAtIdeation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	b, err := store.CreateBatch(ctx, "Summer Hooks", batch.TypeConcept)
	if err != nil {
		t.Fatalf("CreateBatch failed: %v", err)
	}
	if b.ID == 0 {
		t.Fatal("expected batch ID to be assigned")
	}
	if b.Status != batch.StatusIdeation {
		t.Fatalf("expected IDEATION status, got %s", b.Status)
	}

	fetched, err := store.GetBatch(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBatch failed: %v", err)
	}
	if fetched == nil || fetched.Name != "Summer Hooks" {
		t.Fatalf("unexpected fetched batch: %#v", fetched)
	}
}

func TestCreateBatchRequiresName(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if _, err := store.CreateBatch(context.Background(), "  ", batch.TypeConcept); err == nil {
		t.Fatal("expected error when name missing")
	}
}

func TestGetBatchMissingReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	b, err := store.GetBatch(context.Background(), 9999)
	if err != nil {
		t.Fatalf("GetBatch failed: %v", err)
	}
	if b != nil {
		t.Fatalf("expected nil for missing batch, got %#v", b)
	}
}

func TestApplyBatchPatchSetsOnlyNamedFields(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	b := testsupport.NewBatch(t, store, "Patch Target")

	idea := "three hooks, one product demo"
	if err := store.ApplyBatchPatch(ctx, b.ID, batch.ScalarPatch{Idea: &idea}); err != nil {
		t.Fatalf("ApplyBatchPatch failed: %v", err)
	}

	updated, err := store.GetBatch(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBatch failed: %v", err)
	}
	if updated.Idea != idea {
		t.Fatalf("expected idea %q, got %q", idea, updated.Idea)
	}
	if updated.Name != "Patch Target" {
		t.Fatalf("name must not change, got %q", updated.Name)
	}
	if updated.Status != batch.StatusIdeation {
		t.Fatalf("status must not change, got %s", updated.Status)
	}
}

func TestApplyBatchPatchEmptyIsNoop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	b := testsupport.NewBatch(t, store, "Noop")
	before, _ := store.GetBatch(ctx, b.ID)

	if err := store.ApplyBatchPatch(ctx, b.ID, batch.ScalarPatch{}); err != nil {
		t.Fatalf("empty patch must not fail: %v", err)
	}

	after, _ := store.GetBatch(ctx, b.ID)
	if !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Fatal("empty patch must not touch the row")
	}
}

func TestSetStatusRejectsUnknown(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	b := testsupport.NewBatch(t, store, "Status Guard")

	if err := store.SetStatus(ctx, b.ID, batch.Status("SHIPPING")); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
	if err := store.SetStatus(ctx, b.ID, batch.StatusCreatorBriefing); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	updated, _ := store.GetBatch(ctx, b.ID)
	if updated.Status != batch.StatusCreatorBriefing {
		t.Fatalf("expected CREATOR_BRIEFING, got %s", updated.Status)
	}
}

func TestListBatchesFiltersByStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	a := testsupport.NewBatch(t, store, "A")
	testsupport.NewBatch(t, store, "B")
	if err := store.SetStatus(ctx, a.ID, batch.StatusFilming); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	filming, err := store.ListBatches(ctx, batch.StatusFilming)
	if err != nil {
		t.Fatalf("ListBatches failed: %v", err)
	}
	if len(filming) != 1 || filming[0].Name != "A" {
		t.Fatalf("unexpected filming column: %#v", filming)
	}

	all, err := store.ListBatches(ctx)
	if err != nil {
		t.Fatalf("ListBatches failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(all))
	}
}

func TestItemLifecycleAndCascade(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	b := testsupport.NewBatch(t, store, "Variations")

	first, err := store.CreateItem(ctx, b.ID)
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if first.Status != batch.ItemPendingRevision {
		t.Fatalf("expected PENDING_REVISION, got %s", first.Status)
	}
	second, err := store.CreateItem(ctx, b.ID)
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	script := "hello"
	if err := store.ApplyItemPatch(ctx, first.ID, batch.ItemPatch{Script: &script}); err != nil {
		t.Fatalf("ApplyItemPatch failed: %v", err)
	}

	items, err := store.ItemsForBatch(ctx, b.ID)
	if err != nil {
		t.Fatalf("ItemsForBatch failed: %v", err)
	}
	if len(items) != 2 || items[0].ID != first.ID || items[1].ID != second.ID {
		t.Fatalf("items out of insertion order: %#v", items)
	}
	if items[0].Script != "hello" || items[1].Script != "" {
		t.Fatalf("patch leaked across items: %q / %q", items[0].Script, items[1].Script)
	}

	if _, err := store.DeleteBatch(ctx, b.ID); err != nil {
		t.Fatalf("DeleteBatch failed: %v", err)
	}
	orphans, err := store.ItemsForBatch(ctx, b.ID)
	if err != nil {
		t.Fatalf("ItemsForBatch failed: %v", err)
	}
	if len(orphans) != 0 {
		t.Fatalf("expected cascade delete, found %d items", len(orphans))
	}
}

func TestCreateItemRequiresBatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if _, err := store.CreateItem(context.Background(), 404); err == nil {
		t.Fatal("expected error for missing batch")
	}
}

func TestItemPatchRejectsInvalidStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	b := testsupport.NewBatch(t, store, "Flags")
	item, err := store.CreateItem(ctx, b.ID)
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	bogus := batch.ItemStatus("HALF_DONE")
	if err := store.ApplyItemPatch(ctx, item.ID, batch.ItemPatch{Status: &bogus}); err == nil {
		t.Fatal("expected invalid item status to be rejected")
	}

	done := batch.ItemDone
	if err := store.ApplyItemPatch(ctx, item.ID, batch.ItemPatch{Status: &done}); err != nil {
		t.Fatalf("ApplyItemPatch failed: %v", err)
	}
	updated, _ := store.GetItem(ctx, item.ID)
	if updated.Status != batch.ItemDone {
		t.Fatalf("expected DONE, got %s", updated.Status)
	}
}

func TestStatsAndSummary(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	a := testsupport.NewBatch(t, store, "A")
	testsupport.NewBatch(t, store, "B")
	if err := store.SetStatus(ctx, a.ID, batch.StatusArchived); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats[batch.StatusArchived] != 1 || stats[batch.StatusIdeation] != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}

	summary, err := store.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.Total != 2 || summary.Active != 1 || summary.Archived != 1 {
		t.Fatalf("unexpected summary: %#v", summary)
	}
}
