package ipc

import (
	"time"

	"scribe/internal/api"
)

// StartRequest triggers daemon workflow startup.
type StartRequest struct{}

// StartResponse indicates whether the daemon was started.
type StartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// StopRequest stops daemon workflow.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// SessionView mirrors the HTTP API session DTO for internal IPC callers.
type SessionView = api.SessionView

// MeetingView mirrors the HTTP API meeting DTO for internal IPC callers.
type MeetingView = api.MeetingView

// StatusResponse represents combined daemon/workflow status information.
type StatusResponse struct {
	Running      bool           `json:"running"`
	SessionStats map[string]int `json:"session_stats"`
	LastError    string         `json:"last_error"`
	LastSync     string         `json:"last_sync"`
	Meetings     int            `json:"meetings"`
	LockPath     string         `json:"lock_path"`
	DBPath       string         `json:"db_path"`
	PID          int            `json:"pid"`
}

// MeetingListRequest filters and paginates the meeting view.
type MeetingListRequest struct {
	Status   string `json:"status"`
	Period   string `json:"period"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// MeetingListResponse contains one page of meetings.
type MeetingListResponse struct {
	Page api.MeetingPage `json:"page"`
}

// SessionListRequest filters session listing by status.
type SessionListRequest struct {
	Statuses []string `json:"statuses"`
}

// SessionListResponse contains session entries.
type SessionListResponse struct {
	Sessions []SessionView `json:"sessions"`
}

// SessionDescribeRequest fetches a single session by id.
type SessionDescribeRequest struct {
	ID string `json:"id"`
}

// SessionDescribeResponse contains a single session entry.
type SessionDescribeResponse struct {
	Session SessionView `json:"session"`
}

// BotScheduleRequest asks for a bot on a calendar event.
type BotScheduleRequest struct {
	EventID        string    `json:"event_id"`
	MeetingTitle   string    `json:"meeting_title"`
	MeetingURL     string    `json:"meeting_url"`
	Start          time.Time `json:"start"`
	ProjectID      string    `json:"project_id"`
	OrganizationID string    `json:"organization_id"`
	UserID         string    `json:"user_id"`
}

// BotScheduleResponse returns the created session.
type BotScheduleResponse struct {
	Session SessionView `json:"session"`
}

// BotUpdateRequest mutates editable fields of a session. Nil fields are
// left unchanged.
type BotUpdateRequest struct {
	ID         string  `json:"id"`
	MeetingURL *string `json:"meeting_url"`
	ProjectID  *string `json:"project_id"`
}

// BotUpdateResponse returns the updated session.
type BotUpdateResponse struct {
	Session SessionView `json:"session"`
}

// BotRemoveRequest removes bots from sessions by id. Empty list is invalid.
type BotRemoveRequest struct {
	IDs []string `json:"ids"`
}

// BotRemoveResponse reports per-session removal outcomes.
type BotRemoveResponse struct {
	RemovedCount int                       `json:"removed_count"`
	Sessions     []api.RemoveSessionResult `json:"sessions"`
}

// SessionsClearRequest removes terminal sessions of one kind.
type SessionsClearRequest struct{}

// SessionsClearResponse reports number of removed entries.
type SessionsClearResponse struct {
	Removed int64 `json:"removed"`
}

// SessionsHealthRequest fetches aggregate diagnostics.
type SessionsHealthRequest struct{}

// SessionsHealthResponse reports session health information.
type SessionsHealthResponse struct {
	Total          int `json:"total"`
	Scheduled      int `json:"scheduled"`
	InFlight       int `json:"in_flight"`
	PendingConsent int `json:"pending_consent"`
	Completed      int `json:"completed"`
	Failed         int `json:"failed"`
}

// DatabaseHealthRequest fetches detailed database diagnostics.
type DatabaseHealthRequest struct{}

// DatabaseHealthResponse reports database health information.
type DatabaseHealthResponse struct {
	DBPath           string   `json:"db_path"`
	DatabaseExists   bool     `json:"database_exists"`
	DatabaseReadable bool     `json:"database_readable"`
	TableExists      bool     `json:"table_exists"`
	ColumnsPresent   []string `json:"columns_present"`
	MissingColumns   []string `json:"missing_columns"`
	IntegrityCheck   bool     `json:"integrity_check"`
	TotalSessions    int      `json:"total_sessions"`
	Error            string   `json:"error"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}
