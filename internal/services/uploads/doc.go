// Package uploads talks to the external upload service that hosts finished
// variation videos. The transport is opaque to callers: they hand over a file
// stream plus metadata and get back the hosted URL and display name.
package uploads
