package daemon_test

import (
	"context"
	"testing"
	"time"

	"reelflow/internal/batch"
	"reelflow/internal/controller"
	"reelflow/internal/daemon"
	"reelflow/internal/testsupport"
)

func newSessions(t *testing.T, idle time.Duration) (*daemon.Sessions, *batch.Store) {
	t.Helper()
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	return daemon.NewSessions(store, 40*time.Millisecond, idle, nil), store
}

func TestControllerIsReusedAcrossCalls(t *testing.T) {
	sessions, store := newSessions(t, time.Minute)
	defer sessions.CloseAll()
	owner := testsupport.NewBatch(t, store, "Reused")
	ctx := context.Background()

	first, err := sessions.Controller(ctx, owner.ID)
	if err != nil {
		t.Fatalf("Controller failed: %v", err)
	}
	second, err := sessions.Controller(ctx, owner.ID)
	if err != nil {
		t.Fatalf("Controller failed: %v", err)
	}
	if first != second {
		t.Fatal("same batch must reuse the open session")
	}
	if sessions.Count() != 1 {
		t.Fatalf("expected one session, got %d", sessions.Count())
	}
}

func TestReapIdleFlushesPendingEdits(t *testing.T) {
	sessions, store := newSessions(t, 10*time.Millisecond)
	defer sessions.CloseAll()
	owner := testsupport.NewBatch(t, store, "Idle")
	ctx := context.Background()

	ctrl, err := sessions.Controller(ctx, owner.ID)
	if err != nil {
		t.Fatalf("Controller failed: %v", err)
	}
	if err := ctrl.SetField(controller.FieldIdea, "edited before idle"); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}

	closed := sessions.ReapIdle(time.Now().Add(time.Second))
	if closed != 1 {
		t.Fatalf("expected one reaped session, got %d", closed)
	}
	if sessions.Count() != 0 {
		t.Fatal("reaped session must be removed")
	}

	reloaded, err := store.GetBatch(ctx, owner.ID)
	if err != nil {
		t.Fatalf("GetBatch failed: %v", err)
	}
	if reloaded.Idea != "edited before idle" {
		t.Fatalf("idle close must flush the pending edit, got %q", reloaded.Idea)
	}
}

func TestReapIdleKeepsActiveSessions(t *testing.T) {
	sessions, store := newSessions(t, time.Hour)
	defer sessions.CloseAll()
	owner := testsupport.NewBatch(t, store, "Active")

	if _, err := sessions.Controller(context.Background(), owner.ID); err != nil {
		t.Fatalf("Controller failed: %v", err)
	}
	if closed := sessions.ReapIdle(time.Now()); closed != 0 {
		t.Fatalf("active session must not be reaped, closed %d", closed)
	}
	if sessions.Count() != 1 {
		t.Fatal("session must remain open")
	}
}

func TestForgetSkipsFlush(t *testing.T) {
	sessions, store := newSessions(t, time.Minute)
	owner := testsupport.NewBatch(t, store, "Forgotten")
	ctx := context.Background()

	ctrl, err := sessions.Controller(ctx, owner.ID)
	if err != nil {
		t.Fatalf("Controller failed: %v", err)
	}
	if err := ctrl.Delete(ctx); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	sessions.Forget(owner.ID)
	if sessions.Count() != 0 {
		t.Fatal("forgotten session must be removed")
	}
	sessions.CloseAll()
}
