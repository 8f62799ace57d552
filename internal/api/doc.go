// Package api provides transport-neutral DTOs plus the read and write
// services shared by the HTTP API and the unix-socket IPC surface. DTOs keep
// JSON field names stable; conversion from storage models happens here and
// nowhere else.
package api
