package testsupport

import (
	"context"
	"testing"

	"scribe/internal/config"
	"scribe/internal/session"
	"scribe/internal/store"
)

// MustOpenStore opens a session store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewSession creates a bot session for tests using the provided store.
func NewSession(t testing.TB, st *store.Store, eventID, meetingURL string) *session.Session {
	t.Helper()

	sess, err := st.Create(context.Background(), &session.Session{
		CalendarEventID: eventID,
		MeetingURL:      meetingURL,
	})
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return sess
}
