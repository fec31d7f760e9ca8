package session

import "time"

// Session represents a tracked attempt to have the recording bot join a
// meeting, persisted in SQLite.
type Session struct {
	ID              string
	CalendarEventID string
	ProviderID      string
	Status          Status
	MeetingURL      string
	ProjectID       string
	OrganizationID  string
	UserID          string
	ErrorMessage    string
	RecordingID     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsInFlight returns true when the provider is actively running a bot for
// this session.
func (s Session) IsInFlight() bool {
	return IsInFlightStatus(s.Status)
}

// IsLive reports whether the session still counts against the one-live-session
// rule for its calendar event. Failed sessions are dead; everything else,
// completed included, keeps the event occupied.
func (s Session) IsLive() bool {
	return s.Status != StatusFailed
}

// SetFailed marks the session as failed with the given reason. This is the
// terminal transition used for both provider-reported failures and
// user-initiated removal; sessions are never deleted.
func (s *Session) SetFailed(reason string) {
	s.Status = StatusFailed
	s.ErrorMessage = reason
}
