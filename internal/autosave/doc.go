// Package autosave decouples keystroke-rate field mutation from network-rate
// persistence without losing data.
//
// Each Field coalesces rapid edits behind a settle delay, flushes the latest
// value at most once per quiet period, skips writes whose value already
// matches the last confirmed persist, and forces a final synchronous flush on
// Close so a dirty value is never dropped because its editing surface went
// away. Persist failures are logged and swallowed; the next edit's debounce
// cycle naturally retries.
package autosave
