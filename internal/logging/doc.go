// Package logging builds the slog loggers used across reelflow.
//
// It provides console and JSON handlers, standardized attribute keys for
// batch/field/request correlation, helpers for attaching context-derived
// fields, and a no-op logger for tests and optional dependencies.
package logging
