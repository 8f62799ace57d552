// Package batch persists creative-production batches in SQLite and exposes
// the workflow semantics that drive the rest of reelflow.
//
// The package is the single source of truth for the status enum, its canonical
// order, the status-to-step projection, and the legal drag-transition sets.
// Step visibility, kanban drop legality, and field-edit permission are all
// derived from the same tables here; no other package may re-infer order from
// array position.
//
// The Store manages database connections, schema initialization, batch and
// item CRUD, and typed partial updates. Batches exclusively own their items;
// deleting a batch cascades.
//
// When you add a new status, update the canonical order, the step projection
// table, and the transition rules together, and bump schemaVersion.
package batch
