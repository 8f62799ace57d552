// Package services defines shared utilities consumed by the batch controller,
// the board, and the external collaborator clients.
//
// Key responsibilities:
//   - Context helpers that stamp batch IDs and correlation identifiers for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper so persistence, validation,
//     and collaborator failures are classified consistently.
//
// Use these helpers when wiring new operations so error handling and
// observability stay uniform across the pipeline.
package services
