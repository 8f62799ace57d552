package ipc_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"reelflow/internal/batch"
	"reelflow/internal/daemon"
	"reelflow/internal/ipc"
	"reelflow/internal/logging"
	"reelflow/internal/testsupport"
)

func TestIPCServerClient(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSettleDelay(50))
	store := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()
	d, err := daemon.New(cfg, store, logger)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if err := d.Start(ctx); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}

	srv, err := ipc.NewServer(ctx, cfg.Paths.SocketPath, d, logger)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(func() {
		srv.Close()
	})

	time.Sleep(50 * time.Millisecond)

	client, err := ipc.Dial(cfg.Paths.SocketPath)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if !status.Running {
		t.Fatal("expected daemon to be running")
	}

	created, err := client.BatchCreate("Spring Launch", "")
	if err != nil {
		t.Fatalf("BatchCreate failed: %v", err)
	}
	if created.Batch.Status != string(batch.StatusIdeation) {
		t.Fatalf("expected new batch in first column, got %s", created.Batch.Status)
	}
	batchID := created.Batch.ID

	listResp, err := client.BatchList(nil)
	if err != nil {
		t.Fatalf("BatchList failed: %v", err)
	}
	if len(listResp.Batches) != 1 || listResp.Batches[0].ID != batchID {
		t.Fatalf("unexpected batch list: %#v", listResp.Batches)
	}

	filtered, err := client.BatchList([]string{string(batch.StatusFilming)})
	if err != nil {
		t.Fatalf("BatchList filter failed: %v", err)
	}
	if len(filtered.Batches) != 0 {
		t.Fatalf("expected no batches in filming, got %d", len(filtered.Batches))
	}

	fieldResp, err := client.FieldSet(batchID, "idea", "giveaway teaser")
	if err != nil {
		t.Fatalf("FieldSet failed: %v", err)
	}
	if !fieldResp.Accepted {
		t.Fatal("expected field edit to be accepted")
	}
	if _, err := client.FieldSet(batchID, "idea", "giveaway teaser reel"); err != nil {
		t.Fatalf("FieldSet second edit failed: %v", err)
	}

	described, err := client.BatchDescribe(batchID)
	if err != nil {
		t.Fatalf("BatchDescribe failed: %v", err)
	}
	if described.Batch.Idea != "giveaway teaser reel" {
		t.Fatalf("expected unsaved edit to be visible, got %q", described.Batch.Idea)
	}

	closeResp, err := client.SessionClose(batchID)
	if err != nil {
		t.Fatalf("SessionClose failed: %v", err)
	}
	if !closeResp.Closed {
		t.Fatal("expected session to be closed")
	}
	persisted, err := store.GetBatch(ctx, batchID)
	if err != nil {
		t.Fatalf("GetBatch: %v", err)
	}
	if persisted.Idea != "giveaway teaser reel" {
		t.Fatalf("expected flushed idea, got %q", persisted.Idea)
	}

	targets, err := client.BatchTargets(batchID)
	if err != nil {
		t.Fatalf("BatchTargets failed: %v", err)
	}
	if targets.Targets.From != string(batch.StatusIdeation) {
		t.Fatalf("unexpected drag origin: %s", targets.Targets.From)
	}
	found := false
	for _, target := range targets.Targets.Targets {
		if target == string(batch.StatusCreatorBriefing) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected next column in targets: %#v", targets.Targets.Targets)
	}

	moved, err := client.BatchMove(batchID, string(batch.StatusCreatorBriefing))
	if err != nil {
		t.Fatalf("BatchMove failed: %v", err)
	}
	if !moved.Result.Moved || moved.Result.To != string(batch.StatusCreatorBriefing) {
		t.Fatalf("unexpected move result: %#v", moved.Result)
	}
	if _, err := client.BatchMove(batchID, string(batch.StatusEditing)); err == nil {
		t.Fatal("expected non-adjacent move to fail")
	}

	itemResp, err := client.ItemAdd(batchID)
	if err != nil {
		t.Fatalf("ItemAdd failed: %v", err)
	}
	itemID := itemResp.Item.ID

	itemField, err := client.ItemFieldSet(batchID, itemID, "script", "open on the product")
	if err != nil {
		t.Fatalf("ItemFieldSet failed: %v", err)
	}
	if !itemField.Accepted {
		t.Fatal("expected item edit to be accepted")
	}
	if _, err := client.SessionClose(batchID); err != nil {
		t.Fatalf("SessionClose after item edit failed: %v", err)
	}
	items, err := store.ItemsForBatch(ctx, batchID)
	if err != nil {
		t.Fatalf("ItemsForBatch: %v", err)
	}
	if len(items) != 1 || items[0].Script != "open on the product" {
		t.Fatalf("expected flushed item script, got %#v", items)
	}

	removed, err := client.ItemRemove(batchID, itemID)
	if err != nil {
		t.Fatalf("ItemRemove failed: %v", err)
	}
	if !removed.Removed {
		t.Fatal("expected item removal to be confirmed")
	}

	boardResp, err := client.Board()
	if err != nil {
		t.Fatalf("Board failed: %v", err)
	}
	if len(boardResp.Board.Columns) != len(batch.AllStatuses()) {
		t.Fatalf("expected %d columns, got %d", len(batch.AllStatuses()), len(boardResp.Board.Columns))
	}

	deleted, err := client.BatchDelete(batchID)
	if err != nil {
		t.Fatalf("BatchDelete failed: %v", err)
	}
	if !deleted.Deleted {
		t.Fatal("expected delete confirmation")
	}
	if _, err := client.BatchDescribe(batchID); err == nil {
		t.Fatal("expected describe of deleted batch to fail")
	}

	stopResp, err := client.Stop()
	if err != nil {
		t.Fatalf("Stop RPC failed: %v", err)
	}
	if !stopResp.Stopped {
		t.Fatal("expected stop response to be true")
	}

	status2, err := client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if status2.Running {
		t.Fatal("expected daemon to be stopped")
	}
}
