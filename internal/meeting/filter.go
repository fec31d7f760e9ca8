package meeting

import (
	"sort"
	"strings"
	"time"

	"scribe/internal/session"
)

// StatusFilter selects records by their effective bot status.
type StatusFilter string

const (
	FilterAll            StatusFilter = "all"
	FilterWithBot        StatusFilter = "with_bot"
	FilterWithoutBot     StatusFilter = "without_bot"
	FilterPendingConsent StatusFilter = "pending_consent"
	FilterActive         StatusFilter = "active"
	FilterFailed         StatusFilter = "failed"
)

var statusFilterSet = map[StatusFilter]struct{}{
	FilterAll:            {},
	FilterWithBot:        {},
	FilterWithoutBot:     {},
	FilterPendingConsent: {},
	FilterActive:         {},
	FilterFailed:         {},
}

// withBotGroup covers every status indicating a session exists and has not
// failed. Failed sessions count as "without bot" so users see those
// meetings as available for rescheduling.
var withBotGroup = map[session.Status]struct{}{
	session.StatusScheduled: {},
	session.StatusJoining:   {},
	session.StatusActive:    {},
	session.StatusLeaving:   {},
	session.StatusCompleted: {},
}

// ParseStatusFilter validates a boundary-supplied filter string. Unknown
// values fall back to FilterAll so a typo widens the view instead of
// producing an error or an accidentally narrowed one.
func ParseStatusFilter(value string) StatusFilter {
	candidate := StatusFilter(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := statusFilterSet[candidate]; ok {
		return candidate
	}
	return FilterAll
}

// TimeFilter selects records relative to the supplied reference instant.
type TimeFilter string

const (
	TimeUpcoming TimeFilter = "upcoming"
	TimePast     TimeFilter = "past"
)

// ParseTimeFilter validates a boundary-supplied period string, defaulting
// unknown values to TimeUpcoming.
func ParseTimeFilter(value string) TimeFilter {
	candidate := TimeFilter(strings.ToLower(strings.TrimSpace(value)))
	if candidate == TimePast {
		return candidate
	}
	return TimeUpcoming
}

// Filter keeps the records whose effective status and start time satisfy
// both filters. Order is preserved; the input slice is not modified.
func Filter(records []WithSession, status StatusFilter, period TimeFilter, now time.Time) []WithSession {
	kept := make([]WithSession, 0, len(records))
	for _, record := range records {
		if !matchesPeriod(record, period, now) {
			continue
		}
		if !matchesStatus(record, status, now) {
			continue
		}
		kept = append(kept, record)
	}
	return kept
}

func matchesPeriod(record WithSession, period TimeFilter, now time.Time) bool {
	if period == TimePast {
		return record.Start.Before(now)
	}
	return !record.Start.Before(now)
}

func matchesStatus(record WithSession, status StatusFilter, now time.Time) bool {
	if status == FilterAll {
		return true
	}
	effective := record.EffectiveStatus(now)
	switch status {
	case FilterWithBot:
		_, ok := withBotGroup[effective]
		return ok
	case FilterWithoutBot:
		return effective == session.StatusNoBot
	case FilterPendingConsent:
		return effective == session.StatusPendingConsent
	case FilterActive:
		return effective == session.StatusActive
	case FilterFailed:
		return effective == session.StatusFailed
	default:
		return true
	}
}

// Sort orders records by meeting start, ascending for an upcoming view and
// descending for a past one. The sort is stable so records sharing a start
// keep their relative order.
func Sort(records []WithSession, period TimeFilter) {
	sort.SliceStable(records, func(i, j int) bool {
		if period == TimePast {
			return records[i].Start.After(records[j].Start)
		}
		return records[i].Start.Before(records[j].Start)
	})
}
