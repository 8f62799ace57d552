// Command reelflow is the CLI for the reelflow daemon. It talks to the
// daemon over its Unix socket and renders the pipeline board, batch
// details, and item listings in the terminal.
package main
