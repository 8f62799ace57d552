// Package daemon hosts the long-running reelflow process: the single-instance
// lock, the HTTP API, and the editing-session manager that holds one batch
// controller per actively edited batch so field edits stay debounced across
// requests.
package daemon
