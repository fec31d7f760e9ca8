package api

import (
	"context"
	"log/slog"
	"time"

	"scribe/internal/calendar"
	"scribe/internal/logging"
	"scribe/internal/meeting"
	"scribe/internal/session"
)

// browseWindow bounds how far the feed is read around "now" when listing
// meetings. Both filters operate inside this horizon.
const browseWindow = 90 * 24 * time.Hour

// SessionDirectory supplies the live session per calendar event.
type SessionDirectory interface {
	LiveByEventID(ctx context.Context) (map[string]*session.Session, error)
}

// BrowseRequest selects and pages meetings. Status and Period accept the
// closed filter vocabularies; unknown values fall back to "all" and
// "upcoming". A zero Page means the first page; a zero PageSize means the
// service's configured default. Negative values are rejected.
type BrowseRequest struct {
	Status   string
	Period   string
	Page     int
	PageSize int
	Now      time.Time
}

// MeetingService joins calendar meetings with sessions and serves the
// listing pipeline.
type MeetingService struct {
	source          calendar.Source
	sessions        SessionDirectory
	defaultPageSize int
	logger          *slog.Logger
}

// NewMeetingService builds a meeting service. defaultPageSize is used when
// a request leaves PageSize unset; values below one fall back to the
// package default.
func NewMeetingService(source calendar.Source, sessions SessionDirectory, defaultPageSize int, logger *slog.Logger) *MeetingService {
	if defaultPageSize < 1 {
		defaultPageSize = meeting.DefaultPageSize
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &MeetingService{
		source:          source,
		sessions:        sessions,
		defaultPageSize: defaultPageSize,
		logger:          logger.With(logging.String(logging.FieldComponent, "api")),
	}
}

// Browse fetches meetings and sessions, matches them, and runs the filter,
// sort, paginate pipeline.
func (s *MeetingService) Browse(ctx context.Context, req BrowseRequest) (MeetingPage, error) {
	now := req.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	page := req.Page
	if page == 0 {
		page = 1
	}
	size := req.PageSize
	if size == 0 {
		size = s.defaultPageSize
	}

	meetings, err := s.source.Meetings(ctx, now.Add(-browseWindow), now.Add(browseWindow))
	if err != nil {
		return MeetingPage{}, err
	}
	sessions, err := s.sessions.LiveByEventID(ctx)
	if err != nil {
		return MeetingPage{}, err
	}

	matched := meeting.MatchSessions(meetings, sessions)
	status := meeting.ParseStatusFilter(req.Status)
	period := meeting.ParseTimeFilter(req.Period)

	result, err := meeting.Browse(matched, status, period, now, page, size)
	if err != nil {
		return MeetingPage{}, err
	}

	s.logger.Debug("meetings browsed",
		logging.String("status_filter", string(status)),
		logging.String("period", string(period)),
		logging.Int("total", result.Total),
		logging.Int("page", result.CurrentPage))
	return FromPage(result, now), nil
}
