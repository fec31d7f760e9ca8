package api

import (
	"time"

	"scribe/internal/meeting"
	"scribe/internal/session"
	"scribe/internal/store"
)

// FromSession converts a stored session into its transport form.
func FromSession(sess *session.Session) *SessionView {
	if sess == nil {
		return nil
	}
	view := &SessionView{
		ID:              sess.ID,
		CalendarEventID: sess.CalendarEventID,
		ProviderID:      sess.ProviderID,
		Status:          string(sess.Status),
		MeetingURL:      sess.MeetingURL,
		ProjectID:       sess.ProjectID,
		OrganizationID:  sess.OrganizationID,
		UserID:          sess.UserID,
		ErrorMessage:    sess.ErrorMessage,
		RecordingID:     sess.RecordingID,
	}
	if !sess.CreatedAt.IsZero() {
		view.CreatedAt = sess.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !sess.UpdatedAt.IsZero() {
		view.UpdatedAt = sess.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return view
}

// FromMeeting converts a matched record into its transport form. The
// effective status is resolved against the supplied instant.
func FromMeeting(record meeting.WithSession, now time.Time) MeetingView {
	return MeetingView{
		ID:              record.ID,
		Title:           record.Title,
		Start:           record.Start.UTC().Format(dateTimeFormat),
		End:             record.End.UTC().Format(dateTimeFormat),
		Attendees:       record.Attendees,
		MeetingURL:      record.MeetingURL,
		CalendarID:      record.CalendarID,
		EffectiveStatus: string(record.EffectiveStatus(now)),
		Session:         FromSession(record.Session),
	}
}

// FromPage converts a paginated record set into its transport form.
func FromPage(page meeting.Page, now time.Time) MeetingPage {
	views := make([]MeetingView, 0, len(page.Items))
	for _, record := range page.Items {
		views = append(views, FromMeeting(record, now))
	}
	return MeetingPage{
		Meetings:    views,
		Total:       page.Total,
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
		HasMore:     page.HasMore,
	}
}

// FromHealthSummary converts store health counts into their transport form.
func FromHealthSummary(summary store.HealthSummary) SessionsHealth {
	return SessionsHealth{
		Total:          summary.Total,
		Scheduled:      summary.Scheduled,
		InFlight:       summary.InFlight,
		PendingConsent: summary.PendingConsent,
		Completed:      summary.Completed,
		Failed:         summary.Failed,
	}
}
