package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput marks malformed caller input: bad recurrence end
	// conditions, non-positive page sizes, non-positive intervals or counts.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotEditable marks a mutation attempted on a session whose status
	// disallows field edits.
	ErrNotEditable = errors.New("session not editable")
	// ErrNotFound marks lookups that matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrProviderTermination marks a failed remote terminate call. Callers log
	// it and continue; the local transition always completes.
	ErrProviderTermination = errors.New("provider termination failed")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrTransient marks retryable failures from external collaborators.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
