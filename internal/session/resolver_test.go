package session

import (
	"testing"
	"time"
)

func TestEffectiveStatusNoSession(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	if got := EffectiveStatus(now.Add(time.Hour), now, nil); got != StatusNoBot {
		t.Fatalf("EffectiveStatus(nil session) = %s, want %s", got, StatusNoBot)
	}
}

func TestEffectiveStatusJoiningBeforeStart(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	start := now.Add(time.Hour)
	s := &Session{ID: "s-1", Status: StatusJoining}

	if got := EffectiveStatus(start, now, s); got != StatusScheduled {
		t.Fatalf("EffectiveStatus before start = %s, want %s", got, StatusScheduled)
	}
	// The same session object once the meeting has begun.
	if got := EffectiveStatus(start, now.Add(2*time.Hour), s); got != StatusJoining {
		t.Fatalf("EffectiveStatus after start = %s, want %s", got, StatusJoining)
	}
	if s.Status != StatusJoining {
		t.Fatalf("persisted status mutated to %s", s.Status)
	}
}

func TestEffectiveStatusAtExactStart(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	s := &Session{Status: StatusJoining}
	// start == now is not "in the future"; the override no longer applies.
	if got := EffectiveStatus(now, now, s); got != StatusJoining {
		t.Fatalf("EffectiveStatus(start == now) = %s, want %s", got, StatusJoining)
	}
}

func TestEffectiveStatusPassesThroughOtherStatuses(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	for _, status := range []Status{StatusScheduled, StatusActive, StatusLeaving, StatusCompleted, StatusFailed, StatusPendingConsent} {
		s := &Session{Status: status}
		if got := EffectiveStatus(future, now, s); got != status {
			t.Fatalf("EffectiveStatus(%s) = %s, want unchanged", status, got)
		}
	}
}
