package recurrence

import (
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"scribe/internal/services"
)

// NextOccurrences expands a generated rule into its first occurrences so
// users can sanity-check a pattern before an event is created. The calendar
// provider remains the authority for real expansion; this exists for preview
// output and round-trip validation only.
func NextOccurrences(rule string, anchor time.Time, limit int) ([]time.Time, error) {
	if limit < 1 {
		return nil, services.Wrap(services.ErrInvalidInput, "recurrence", "preview", "limit must be at least 1", nil)
	}
	r, err := rrule.StrToRRule(strings.TrimPrefix(rule, "RRULE:"))
	if err != nil {
		return nil, services.Wrap(services.ErrInvalidInput, "recurrence", "preview", "parse rule", err)
	}
	r.DTStart(anchor)

	occurrences := make([]time.Time, 0, limit)
	next := r.Iterator()
	for len(occurrences) < limit {
		value, ok := next()
		if !ok {
			break
		}
		occurrences = append(occurrences, value)
	}
	return occurrences, nil
}
