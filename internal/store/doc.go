// Package store persists bot sessions in SQLite.
//
// The Store manages database connections, schema migrations, status stats,
// and the transitions the reconciliation workflow drives. It is the single
// authority on the one-live-session-per-event rule; callers create a new
// session only after the previous one has failed or been removed.
//
// Sessions are never deleted during normal operation, only transitioned;
// ClearCompleted and ClearFailed exist for explicit maintenance.
package store
