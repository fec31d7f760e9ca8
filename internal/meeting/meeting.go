package meeting

import (
	"time"

	"scribe/internal/session"
)

// Meeting is a calendar event as the calendar adapter hands it to us:
// identifiers and timing already normalized, never mutated here.
type Meeting struct {
	ID         string
	Title      string
	Start      time.Time
	End        time.Time
	Attendees  []string
	MeetingURL string
	CalendarID string
}

// WithSession pairs a meeting with its bot session when one exists. The
// session pointer is a read-time join, not ownership; it is nil for
// meetings without a bot.
type WithSession struct {
	Meeting
	Session *session.Session
}

// EffectiveStatus resolves the display status for this record at the given
// instant.
func (w WithSession) EffectiveStatus(now time.Time) session.Status {
	return session.EffectiveStatus(w.Start, now, w.Session)
}

// MatchSessions joins meetings to their sessions by calendar event ID. The
// result has the same length and order as the input; meetings without a
// matching session carry a nil pointer rather than being dropped.
func MatchSessions(meetings []Meeting, sessions map[string]*session.Session) []WithSession {
	matched := make([]WithSession, 0, len(meetings))
	for _, m := range meetings {
		matched = append(matched, WithSession{Meeting: m, Session: sessions[m.ID]})
	}
	return matched
}
