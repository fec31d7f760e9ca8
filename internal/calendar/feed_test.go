package calendar

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"scribe/internal/config"
	"scribe/internal/logging"
)

const feedFixture = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//scribe tests//EN
BEGIN:VEVENT
UID:evt-1
SUMMARY:Weekly Sync
DTSTART:20260310T150000Z
DTEND:20260310T153000Z
LOCATION:https://meet.example.com/weekly
ATTENDEE:mailto:ana@example.com
ATTENDEE:mailto:li@example.com
END:VEVENT
BEGIN:VEVENT
UID:evt-2
SUMMARY:Floating Review
DTSTART:20260311T090000
DTEND:20260311T100000
X-MEETING-URL:https://meet.example.com/floating
END:VEVENT
BEGIN:VEVENT
UID:evt-3
SUMMARY:Office Holiday
DTSTART;VALUE=DATE:20260312
END:VEVENT
BEGIN:VEVENT
SUMMARY:No Identifier
DTSTART:20260313T100000Z
END:VEVENT
END:VCALENDAR
`

func TestParseFeedNormalizesEvents(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	meetings, err := parseFeed([]byte(feedFixture), "team", loc, logging.NewNop())
	if err != nil {
		t.Fatalf("parseFeed: %v", err)
	}
	// evt-3 is all-day and the last event has no UID; both are skipped.
	if len(meetings) != 2 {
		t.Fatalf("len(meetings) = %d, want 2", len(meetings))
	}

	weekly := meetings[0]
	if weekly.ID != "evt-1" || weekly.Title != "Weekly Sync" {
		t.Fatalf("weekly = %+v", weekly)
	}
	if weekly.CalendarID != "team" {
		t.Fatalf("calendar id = %q, want team", weekly.CalendarID)
	}
	wantStart := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	if !weekly.Start.Equal(wantStart) {
		t.Fatalf("weekly start = %s, want %s", weekly.Start, wantStart)
	}
	if weekly.MeetingURL != "https://meet.example.com/weekly" {
		t.Fatalf("weekly url = %q", weekly.MeetingURL)
	}
	if len(weekly.Attendees) != 2 || weekly.Attendees[0] != "ana@example.com" {
		t.Fatalf("attendees = %v", weekly.Attendees)
	}

	floating := meetings[1]
	if floating.ID != "evt-2" {
		t.Fatalf("floating = %+v", floating)
	}
	// 09:00 New York on 2026-03-11 is 13:00 UTC (EDT).
	wantFloating := time.Date(2026, 3, 11, 13, 0, 0, 0, time.UTC)
	if !floating.Start.Equal(wantFloating) {
		t.Fatalf("floating start = %s, want %s", floating.Start, wantFloating)
	}
	if floating.MeetingURL != "https://meet.example.com/floating" {
		t.Fatalf("floating url = %q", floating.MeetingURL)
	}
}

func TestFeedMeetingsWindowing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.ics")
	if err := os.WriteFile(path, []byte(feedFixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg := config.Default()
	cfg.Calendar.FeedURL = path
	cfg.Calendar.CalendarID = "team"
	cfg.Calendar.Timezone = "UTC"

	feed, err := NewFeed(&cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("NewFeed: %v", err)
	}

	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	meetings, err := feed.Meetings(context.Background(), from, to)
	if err != nil {
		t.Fatalf("Meetings: %v", err)
	}
	if len(meetings) != 1 || meetings[0].ID != "evt-1" {
		t.Fatalf("meetings = %+v, want just evt-1", meetings)
	}
}

func TestNewFeedRequiresURL(t *testing.T) {
	cfg := config.Default()
	if _, err := NewFeed(&cfg, logging.NewNop()); err == nil {
		t.Fatal("NewFeed succeeded without a feed URL")
	}
}
