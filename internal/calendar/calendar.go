package calendar

import (
	"context"
	"time"

	"scribe/internal/meeting"
)

// Source supplies meeting records for a time window. Implementations own
// all fetching and timezone normalization; consumers only see ready-to-use
// records.
type Source interface {
	Meetings(ctx context.Context, from, to time.Time) ([]meeting.Meeting, error)
}

// Empty is a Source with no meetings. The daemon falls back to it when no
// feed URL is configured, keeping bot scheduling usable without a calendar.
type Empty struct{}

// Meetings always returns an empty window.
func (Empty) Meetings(context.Context, time.Time, time.Time) ([]meeting.Meeting, error) {
	return nil, nil
}

// EventDraft describes a calendar event to create. RecurrenceRules carries
// RFC 5545 rule strings exactly as the recurrence builder produced them;
// the calendar provider expands them into occurrences.
type EventDraft struct {
	Title           string
	Start           time.Time
	End             time.Time
	MeetingURL      string
	Attendees       []string
	RecurrenceRules []string
}

// Writer creates events on the calendar provider. The read-only ICS feed
// cannot implement it; a provider-backed implementation is injected where
// event creation is supported.
type Writer interface {
	CreateEvent(ctx context.Context, draft EventDraft) (eventID string, err error)
}
