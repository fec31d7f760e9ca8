// Package daemon coordinates the long-running Scribe process.
//
// It wires configuration, session storage, and the workflow manager into
// a single lifecycle with flock-based locking to prevent multiple
// instances, and exposes a localhost HTTP API for status, meeting
// browsing, and session inspection.
//
// Keep orchestration logic here: reconciliation steps live in the
// workflow package while the daemon focuses on startup, shutdown, and
// high level coordination.
package daemon
