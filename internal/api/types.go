package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// SessionView describes a bot session in a transport-friendly format.
type SessionView struct {
	ID              string `json:"id"`
	CalendarEventID string `json:"calendarEventId"`
	ProviderID      string `json:"providerId,omitempty"`
	Status          string `json:"status"`
	MeetingURL      string `json:"meetingUrl,omitempty"`
	ProjectID       string `json:"projectId,omitempty"`
	OrganizationID  string `json:"organizationId,omitempty"`
	UserID          string `json:"userId,omitempty"`
	ErrorMessage    string `json:"errorMessage,omitempty"`
	RecordingID     string `json:"recordingId,omitempty"`
	CreatedAt       string `json:"createdAt,omitempty"`
	UpdatedAt       string `json:"updatedAt,omitempty"`
}

// MeetingView describes a meeting with its effective bot status.
type MeetingView struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Start           string       `json:"start"`
	End             string       `json:"end"`
	Attendees       []string     `json:"attendees,omitempty"`
	MeetingURL      string       `json:"meetingUrl,omitempty"`
	CalendarID      string       `json:"calendarId,omitempty"`
	EffectiveStatus string       `json:"effectiveStatus"`
	Session         *SessionView `json:"session,omitempty"`
}

// MeetingPage wraps one page of meetings plus pagination counts.
type MeetingPage struct {
	Meetings    []MeetingView `json:"meetings"`
	Total       int           `json:"total"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
	HasMore     bool          `json:"hasMore"`
}

// SessionListResponse wraps a collection of sessions.
type SessionListResponse struct {
	Sessions []SessionView `json:"sessions"`
}

// SessionsHealth summarizes session counts per lifecycle group.
type SessionsHealth struct {
	Total          int `json:"total"`
	Scheduled      int `json:"scheduled"`
	InFlight       int `json:"inFlight"`
	PendingConsent int `json:"pendingConsent"`
	Completed      int `json:"completed"`
	Failed         int `json:"failed"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool           `json:"running"`
	PID          int            `json:"pid"`
	DBPath       string         `json:"dbPath"`
	LockFilePath string         `json:"lockFilePath"`
	LastSync     string         `json:"lastSync,omitempty"`
	LastError    string         `json:"lastError,omitempty"`
	Sessions     SessionsHealth `json:"sessions"`
}
