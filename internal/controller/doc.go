// Package controller owns the single authoritative in-memory copy of one
// batch and its variations during an editing session.
//
// Every mutation flows through the Controller so optimistic local state and
// remote state cannot diverge silently: scalar updates and status changes are
// applied locally first and then persisted, item creation waits for the
// server-assigned id, and free-text fields are routed through per-field
// autosave stores. Closing the controller tears down every field store,
// forcing a final flush of pending edits.
package controller
