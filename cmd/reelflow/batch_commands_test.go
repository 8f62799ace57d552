package main

import (
	"context"
	"testing"

	"reelflow/internal/batch"
)

func TestBatchLifecycleViaCLI(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"batch", "create", "Summer Drop", "--type", "concept"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("batch create: %v", err)
	}
	requireContains(t, out, "Created batch 1 (Summer Drop) in Ideation")

	out, _, err = runCLI(t, []string{"batch", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("batch list: %v", err)
	}
	requireContains(t, out, "Summer Drop")
	requireContains(t, out, "Ideation")

	out, _, err = runCLI(t, []string{"batch", "set", "1", "idea", "UGC mashup with customer clips"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("batch set: %v", err)
	}
	requireContains(t, out, "Recorded idea edit for batch 1")

	out, _, err = runCLI(t, []string{"batch", "show", "1"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("batch show: %v", err)
	}
	requireContains(t, out, "UGC mashup with customer clips")

	out, _, err = runCLI(t, []string{"batch", "close", "1"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("batch close: %v", err)
	}
	requireContains(t, out, "Closed editing session for batch 1")

	persisted, err := env.store.GetBatch(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetBatch: %v", err)
	}
	if persisted.Idea != "UGC mashup with customer clips" {
		t.Fatalf("expected flushed idea, got %q", persisted.Idea)
	}

	out, _, err = runCLI(t, []string{"batch", "targets", "1"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("batch targets: %v", err)
	}
	requireContains(t, out, "Creator Briefing")
	requireContains(t, out, "Archived")

	out, _, err = runCLI(t, []string{"batch", "move", "1", "CREATOR_BRIEFING"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("batch move: %v", err)
	}
	requireContains(t, out, "Ideation -> Creator Briefing")

	out, _, err = runCLI(t, []string{"batch", "show", "1"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("batch show after move: %v", err)
	}
	requireContains(t, out, "[x] Ideation")
	requireContains(t, out, "[>] Creator Briefing")
	requireContains(t, out, "[ ] Filming")

	if _, _, err := runCLI(t, []string{"batch", "move", "1", "EDITING"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected non-adjacent move to fail")
	}

	out, _, err = runCLI(t, []string{"batch", "delete", "1"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("batch delete: %v", err)
	}
	requireContains(t, out, "Deleted batch 1")

	if _, _, err := runCLI(t, []string{"batch", "show", "1"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected show of deleted batch to fail")
	}
}

func TestItemCommandsViaCLI(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"batch", "create", "Hooks Test"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("batch create: %v", err)
	}
	requireContains(t, out, "Created batch")

	out, _, err = runCLI(t, []string{"item", "add", "1"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("item add: %v", err)
	}
	requireContains(t, out, "Added item 1 to batch 1")

	out, _, err = runCLI(t, []string{"item", "set", "1", "1", "script", "open on the unboxing"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("item set: %v", err)
	}
	requireContains(t, out, "Recorded script edit for item 1")

	if _, _, err := runCLI(t, []string{"batch", "close", "1"}, env.socketPath, env.configPath); err != nil {
		t.Fatalf("batch close: %v", err)
	}
	items, err := env.store.ItemsForBatch(context.Background(), 1)
	if err != nil {
		t.Fatalf("ItemsForBatch: %v", err)
	}
	if len(items) != 1 || items[0].Script != "open on the unboxing" {
		t.Fatalf("expected flushed item script, got %#v", items)
	}

	out, _, err = runCLI(t, []string{"item", "remove", "1", "1"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("item remove: %v", err)
	}
	requireContains(t, out, "Removed item 1 from batch 1")
}

func TestBoardCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	ctx := context.Background()
	first, err := env.store.CreateBatch(ctx, "Alpha", batch.TypeConcept)
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if err := env.store.SetStatus(ctx, first.ID, batch.StatusFilming); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if _, err := env.store.CreateBatch(ctx, "Beta", batch.TypeConcept); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	out, _, err := runCLI(t, []string{"board"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	requireContains(t, out, "Ideation (1)")
	requireContains(t, out, "Filming (1)")
	requireContains(t, out, "Archived (0)")
	requireContains(t, out, "Alpha")
	requireContains(t, out, "Beta")
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, err := env.store.CreateBatch(context.Background(), "Gamma", batch.TypeConcept); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	out, _, err := runCLI(t, []string{"status"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Daemon")
	requireContains(t, out, "Running:")
	requireContains(t, out, "yes")
	requireContains(t, out, "Pipeline")
	requireContains(t, out, "Ideation")
}
