// Package ipc exposes daemon control over JSON-RPC on a Unix domain socket.
// The CLI is the primary consumer; payload types mirror the HTTP API DTOs so
// both surfaces report the same shapes.
package ipc
