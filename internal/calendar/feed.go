package calendar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/meeting"
	"scribe/internal/services"
)

// Feed reads meetings from an ICS feed. URLs are fetched over HTTP; any
// other feed value is treated as a local file path, which keeps tests and
// offline use simple.
type Feed struct {
	client     *http.Client
	feedURL    string
	calendarID string
	location   *time.Location
	logger     *slog.Logger
}

// NewFeed builds a feed reader from configuration.
func NewFeed(cfg *config.Config, logger *slog.Logger) (*Feed, error) {
	if strings.TrimSpace(cfg.Calendar.FeedURL) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "calendar", "new", "calendar.feed_url is not set", nil)
	}
	location, err := cfg.Location()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "calendar", "new", "resolve timezone", err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Feed{
		client:     &http.Client{Timeout: time.Duration(cfg.Calendar.RequestTimeout) * time.Second},
		feedURL:    cfg.Calendar.FeedURL,
		calendarID: cfg.Calendar.CalendarID,
		location:   location,
		logger:     logger.With(logging.String(logging.FieldComponent, "calendar")),
	}, nil
}

// Meetings fetches and parses the feed, returning meetings whose start
// falls inside [from, to). Events the parser cannot use are logged and
// skipped rather than failing the whole sync.
func (f *Feed) Meetings(ctx context.Context, from, to time.Time) ([]meeting.Meeting, error) {
	body, err := f.fetch(ctx)
	if err != nil {
		return nil, err
	}

	parsed, err := parseFeed(body, f.calendarID, f.location, f.logger)
	if err != nil {
		return nil, err
	}

	meetings := make([]meeting.Meeting, 0, len(parsed))
	for _, m := range parsed {
		if m.Start.Before(from) || !m.Start.Before(to) {
			continue
		}
		meetings = append(meetings, m)
	}
	f.logger.Debug("calendar feed synced",
		logging.Int("events", len(parsed)),
		logging.Int("in_window", len(meetings)))
	return meetings, nil
}

func (f *Feed) fetch(ctx context.Context) ([]byte, error) {
	if !strings.HasPrefix(f.feedURL, "http://") && !strings.HasPrefix(f.feedURL, "https://") {
		data, err := os.ReadFile(f.feedURL)
		if err != nil {
			return nil, services.Wrap(services.ErrTransient, "calendar", "fetch", "read feed file", err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.feedURL, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "calendar", "fetch", "build request", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "calendar", "fetch", "fetch feed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrTransient, "calendar", "fetch", fmt.Sprintf("feed returned %s", resp.Status), nil)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "calendar", "fetch", "read feed body", err)
	}
	return data, nil
}

func parseFeed(body []byte, calendarID string, location *time.Location, logger *slog.Logger) ([]meeting.Meeting, error) {
	if len(body) == 0 {
		return nil, services.Wrap(services.ErrTransient, "calendar", "parse", "empty feed body", nil)
	}
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "calendar", "parse", "parse feed", err)
	}

	meetings := make([]meeting.Meeting, 0, len(cal.Events()))
	for _, event := range cal.Events() {
		m, ok := parseEvent(event, calendarID, location, logger)
		if !ok {
			continue
		}
		meetings = append(meetings, m)
	}
	return meetings, nil
}

func parseEvent(event *ical.VEvent, calendarID string, location *time.Location, logger *slog.Logger) (meeting.Meeting, bool) {
	uid := propertyValue(event, ical.ComponentPropertyUniqueId)
	if uid == "" {
		logger.Warn("skipping event without UID")
		return meeting.Meeting{}, false
	}

	if isAllDay(event) {
		// All-day entries are not joinable meetings.
		return meeting.Meeting{}, false
	}

	start, err := event.GetStartAt()
	if err != nil {
		logger.Warn("skipping event with unusable start",
			logging.String(logging.FieldEventID, uid),
			logging.Error(err))
		return meeting.Meeting{}, false
	}
	end, err := event.GetEndAt()
	if err != nil || end.Before(start) {
		end = start.Add(time.Hour)
	}

	m := meeting.Meeting{
		ID:         uid,
		Title:      propertyValue(event, ical.ComponentPropertySummary),
		Start:      normalizeTime(event, ical.ComponentPropertyDtStart, start, location),
		End:        normalizeTime(event, ical.ComponentPropertyDtEnd, end, location),
		Attendees:  attendees(event),
		MeetingURL: meetingURL(event),
		CalendarID: calendarID,
	}
	return m, true
}

// normalizeTime reinterprets floating local times in the configured
// timezone. Values with a TZID or a trailing Z already carry their zone.
func normalizeTime(event *ical.VEvent, prop ical.ComponentProperty, value time.Time, location *time.Location) time.Time {
	p := event.GetProperty(prop)
	if p == nil {
		return value.UTC()
	}
	if tzs, ok := p.ICalParameters["TZID"]; ok && len(tzs) > 0 {
		return value.UTC()
	}
	if strings.HasSuffix(p.Value, "Z") {
		return value.UTC()
	}
	return time.Date(value.Year(), value.Month(), value.Day(),
		value.Hour(), value.Minute(), value.Second(), 0, location).UTC()
}

func isAllDay(event *ical.VEvent) bool {
	p := event.GetProperty(ical.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if values, ok := p.ICalParameters["VALUE"]; ok && len(values) > 0 && strings.EqualFold(values[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func attendees(event *ical.VEvent) []string {
	props := event.GetProperties(ical.ComponentPropertyAttendee)
	if len(props) == 0 {
		return nil
	}
	out := make([]string, 0, len(props))
	for _, p := range props {
		value := strings.TrimSpace(p.Value)
		value = strings.TrimPrefix(value, "mailto:")
		value = strings.TrimPrefix(value, "MAILTO:")
		if value != "" {
			out = append(out, value)
		}
	}
	return out
}

// meetingURL extracts a join URL, preferring an explicit X-MEETING-URL
// property, then the URL property, then an http(s) LOCATION value.
func meetingURL(event *ical.VEvent) string {
	if p := event.GetProperty("X-MEETING-URL"); p != nil && strings.TrimSpace(p.Value) != "" {
		return strings.TrimSpace(p.Value)
	}
	if p := event.GetProperty(ical.ComponentPropertyUrl); p != nil && strings.TrimSpace(p.Value) != "" {
		return strings.TrimSpace(p.Value)
	}
	if p := event.GetProperty(ical.ComponentPropertyLocation); p != nil {
		value := strings.TrimSpace(p.Value)
		if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
			return value
		}
	}
	return ""
}

func propertyValue(event *ical.VEvent, prop ical.ComponentProperty) string {
	if p := event.GetProperty(prop); p != nil {
		return strings.TrimSpace(p.Value)
	}
	return ""
}
