package recurrence

import (
	"strings"
	"time"
)

// Frequency is the repeat cadence of a recurrence pattern.
type Frequency string

const (
	FreqDaily   Frequency = "DAILY"
	FreqWeekly  Frequency = "WEEKLY"
	FreqMonthly Frequency = "MONTHLY"
	FreqYearly  Frequency = "YEARLY"
)

// EndType describes how a recurrence terminates.
type EndType string

const (
	EndNever EndType = "never"
	EndOn    EndType = "on"
	EndAfter EndType = "after"
)

// MonthlyType selects between repeating on the anchor's day of month and
// repeating on the anchor's nth weekday of the month.
type MonthlyType string

const (
	MonthlyByMonthDay MonthlyType = "day_of_month"
	MonthlyByWeekday  MonthlyType = "day_of_week"
)

// Pattern describes a repeating meeting. The zero value is not valid; callers
// set at least Frequency and Interval.
type Pattern struct {
	Frequency Frequency
	Interval  int
	EndType   EndType
	// EndDate is required when EndType is EndOn.
	EndDate *time.Time
	// Count is required when EndType is EndAfter.
	Count int
	// WeekDays is the explicit weekday set for weekly patterns, emitted in
	// caller-given order. Empty means "the anchor's weekday".
	WeekDays []time.Weekday
	// MonthlyType defaults to MonthlyByMonthDay when empty.
	MonthlyType MonthlyType
	// MonthWeek is the explicit ordinal (1..5) for MonthlyByWeekday patterns.
	// Zero derives it from the anchor's day of month.
	MonthWeek int
	// MonthWeekday is the explicit weekday for MonthlyByWeekday patterns.
	// Nil derives it from the anchor.
	MonthWeekday *time.Weekday
}

var frequencySet = map[Frequency]struct{}{
	FreqDaily:   {},
	FreqWeekly:  {},
	FreqMonthly: {},
	FreqYearly:  {},
}

var endTypeSet = map[EndType]struct{}{
	EndNever: {},
	EndOn:    {},
	EndAfter: {},
}

// ParseFrequency converts a string into a known Frequency.
func ParseFrequency(value string) (Frequency, bool) {
	normalized := Frequency(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := frequencySet[normalized]
	return normalized, ok
}

// ParseEndType converts a string into a known EndType.
func ParseEndType(value string) (EndType, bool) {
	normalized := EndType(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := endTypeSet[normalized]
	return normalized, ok
}

// weekdayCodes maps time.Weekday (Sunday = 0) to RFC 5545 BYDAY codes.
var weekdayCodes = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// WeekdayCode returns the RFC 5545 two-letter code for a weekday.
func WeekdayCode(day time.Weekday) string {
	return weekdayCodes[int(day)%7]
}
