package testsupport

import (
	"context"
	"testing"

	"reelflow/internal/batch"
	"reelflow/internal/config"
)

// MustOpenStore opens a batch.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *batch.Store {
	t.Helper()

	store, err := batch.Open(cfg)
	if err != nil {
		t.Fatalf("batch.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewBatch creates a batch for tests using the provided store.
func NewBatch(t testing.TB, store *batch.Store, name string) *batch.Batch {
	t.Helper()

	b, err := store.CreateBatch(context.Background(), name, batch.TypeConcept)
	if err != nil {
		t.Fatalf("store.CreateBatch: %v", err)
	}
	return b
}
