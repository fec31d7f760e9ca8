package api

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"scribe/internal/logging"
	"scribe/internal/meeting"
	"scribe/internal/services"
	"scribe/internal/session"
)

type stubSource struct {
	meetings []meeting.Meeting
	err      error
}

func (s *stubSource) Meetings(_ context.Context, from, to time.Time) ([]meeting.Meeting, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]meeting.Meeting, 0, len(s.meetings))
	for _, m := range s.meetings {
		if m.Start.Before(from) || !m.Start.Before(to) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

type stubDirectory struct {
	byEvent map[string]*session.Session
}

func (s *stubDirectory) LiveByEventID(context.Context) (map[string]*session.Session, error) {
	return s.byEvent, nil
}

func TestBrowseResolvesEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	source := &stubSource{meetings: []meeting.Meeting{
		{ID: "e1", Title: "Standup", Start: now.Add(time.Hour)},
		{ID: "e2", Title: "Retro", Start: now.Add(2 * time.Hour)},
	}}
	directory := &stubDirectory{byEvent: map[string]*session.Session{
		// Joining before start must display as scheduled.
		"e1": {ID: "s1", CalendarEventID: "e1", Status: session.StatusJoining},
	}}
	service := NewMeetingService(source, directory, 20, logging.NewNop())

	page, err := service.Browse(context.Background(), BrowseRequest{Now: now})
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if len(page.Meetings) != 2 {
		t.Fatalf("len(meetings) = %d, want 2", len(page.Meetings))
	}
	if page.Meetings[0].EffectiveStatus != string(session.StatusScheduled) {
		t.Fatalf("e1 effective status = %q, want scheduled", page.Meetings[0].EffectiveStatus)
	}
	if page.Meetings[0].Session == nil || page.Meetings[0].Session.Status != string(session.StatusJoining) {
		t.Fatalf("e1 session = %+v; persisted status must stay joining", page.Meetings[0].Session)
	}
	if page.Meetings[1].EffectiveStatus != string(session.StatusNoBot) {
		t.Fatalf("e2 effective status = %q, want no_bot", page.Meetings[1].EffectiveStatus)
	}
}

func TestBrowseDefaultsAndPaging(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	meetings := make([]meeting.Meeting, 0, 45)
	for i := 0; i < 45; i++ {
		meetings = append(meetings, meeting.Meeting{
			ID:    fmt.Sprintf("evt-%02d", i),
			Start: now.Add(time.Duration(i+1) * time.Hour),
		})
	}
	source := &stubSource{meetings: meetings}
	service := NewMeetingService(source, &stubDirectory{}, 20, logging.NewNop())

	page, err := service.Browse(context.Background(), BrowseRequest{Now: now})
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if len(page.Meetings) != 20 || page.Total != 45 || page.TotalPages != 3 || !page.HasMore {
		t.Fatalf("page = %+v", page)
	}

	last, err := service.Browse(context.Background(), BrowseRequest{Now: now, Page: 3})
	if err != nil {
		t.Fatalf("Browse page 3: %v", err)
	}
	if len(last.Meetings) != 5 || last.HasMore {
		t.Fatalf("page 3 = %+v", last)
	}
}

func TestBrowseRejectsNegativePageSize(t *testing.T) {
	service := NewMeetingService(&stubSource{}, &stubDirectory{}, 20, logging.NewNop())

	_, err := service.Browse(context.Background(), BrowseRequest{PageSize: -1})
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestBrowseUnknownFiltersFallBack(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	source := &stubSource{meetings: []meeting.Meeting{
		{ID: "future", Start: now.Add(time.Hour)},
		{ID: "past", Start: now.Add(-time.Hour)},
	}}
	service := NewMeetingService(source, &stubDirectory{}, 20, logging.NewNop())

	page, err := service.Browse(context.Background(), BrowseRequest{
		Now:    now,
		Status: "definitely-not-a-filter",
		Period: "someday",
	})
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	// Unknown filters behave as all/upcoming.
	if len(page.Meetings) != 1 || page.Meetings[0].ID != "future" {
		t.Fatalf("meetings = %+v", page.Meetings)
	}
}

func TestBrowsePropagatesSourceErrors(t *testing.T) {
	source := &stubSource{err: errors.New("feed unavailable")}
	service := NewMeetingService(source, &stubDirectory{}, 20, logging.NewNop())

	if _, err := service.Browse(context.Background(), BrowseRequest{}); err == nil {
		t.Fatal("Browse succeeded despite source failure")
	}
}
