package session

var fieldEditableStatuses = map[Status]struct{}{
	StatusScheduled: {},
	StatusFailed:    {},
}

var providerTerminationStatuses = map[Status]struct{}{
	StatusScheduled:      {},
	StatusJoining:        {},
	StatusPendingConsent: {},
	StatusActive:         {},
	StatusLeaving:        {},
}

// IsFieldEditable reports whether a session in the given status accepts
// meeting URL and project mutations. Anything outside this set must be
// rejected, not silently ignored.
func IsFieldEditable(status Status) bool {
	_, ok := fieldEditableStatuses[status]
	return ok
}

// RequiresProviderTermination reports whether removing a session in the given
// status must first attempt a remote terminate call. Completed and failed
// sessions have nothing left to terminate.
func RequiresProviderTermination(status Status) bool {
	_, ok := providerTerminationStatuses[status]
	return ok
}
