package session

import "strings"

// Status represents the lifecycle of a bot session as reported by the
// provider and persisted locally.
type Status string

const (
	StatusScheduled      Status = "scheduled"
	StatusJoining        Status = "joining"
	StatusActive         Status = "active"
	StatusLeaving        Status = "leaving"
	StatusCompleted      Status = "completed"
	StatusFailed         Status = "failed"
	StatusPendingConsent Status = "pending_consent"

	// StatusNoBot is the virtual status of a meeting with no session. It is
	// never persisted.
	StatusNoBot Status = "no_bot"
)

// RemovedByUserReason is the error message recorded when a user removes a bot.
const RemovedByUserReason = "removed by user"

var allStatuses = []Status{
	StatusScheduled,
	StatusJoining,
	StatusActive,
	StatusLeaving,
	StatusCompleted,
	StatusFailed,
	StatusPendingConsent,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var inFlightStatuses = map[Status]struct{}{
	StatusJoining: {},
	StatusActive:  {},
	StatusLeaving: {},
}

// AllStatuses returns the ordered list of persistable statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known persistable Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsInFlightStatus reports whether a status reflects a bot the provider is
// actively running for a meeting.
func IsInFlightStatus(status Status) bool {
	_, ok := inFlightStatuses[status]
	return ok
}

// IsTerminalStatus reports whether a status ends the session lifecycle.
func IsTerminalStatus(status Status) bool {
	return status == StatusCompleted || status == StatusFailed
}
