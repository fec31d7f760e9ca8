package recurrence

import (
	"fmt"
	"strings"
	"time"

	"scribe/internal/services"
)

// untilFormat is the compact UTC basic format RFC 5545 uses for UNTIL.
const untilFormat = "20060102T150405Z"

// Build maps a pattern plus the first occurrence's start into the
// array-of-RRULE-strings form calendar providers accept verbatim. The anchor
// supplies defaults the pattern leaves open: the weekday for weekly rules,
// the day of month and ordinal for monthly rules, month and day for yearly
// rules. Expansion into concrete dates is the provider's job, not ours.
func Build(p Pattern, anchor time.Time) ([]string, error) {
	if err := validate(p, anchor); err != nil {
		return nil, err
	}

	parts := []string{"FREQ=" + string(p.Frequency)}
	if p.Interval > 1 {
		parts = append(parts, fmt.Sprintf("INTERVAL=%d", p.Interval))
	}

	switch p.Frequency {
	case FreqWeekly:
		parts = append(parts, "BYDAY="+weeklyByDay(p, anchor))
	case FreqMonthly:
		if p.MonthlyType == MonthlyByWeekday {
			parts = append(parts, "BYDAY="+monthlyByDay(p, anchor))
		} else {
			parts = append(parts, fmt.Sprintf("BYMONTHDAY=%d", anchor.Day()))
		}
	case FreqYearly:
		parts = append(parts, fmt.Sprintf("BYMONTH=%d", int(anchor.Month())))
		parts = append(parts, fmt.Sprintf("BYMONTHDAY=%d", anchor.Day()))
	}

	switch p.EndType {
	case EndOn:
		parts = append(parts, "UNTIL="+untilTimestamp(*p.EndDate))
	case EndAfter:
		parts = append(parts, fmt.Sprintf("COUNT=%d", p.Count))
	}

	return []string{"RRULE:" + strings.Join(parts, ";")}, nil
}

func validate(p Pattern, anchor time.Time) error {
	if _, ok := frequencySet[p.Frequency]; !ok {
		return services.Wrap(services.ErrInvalidInput, "recurrence", "build", fmt.Sprintf("unknown frequency %q", p.Frequency), nil)
	}
	if p.Interval < 1 {
		return services.Wrap(services.ErrInvalidInput, "recurrence", "build", fmt.Sprintf("interval %d must be at least 1", p.Interval), nil)
	}
	switch p.EndType {
	case EndNever, "":
	case EndOn:
		if p.EndDate == nil {
			return services.Wrap(services.ErrInvalidInput, "recurrence", "build", "end date required when ending on a date", nil)
		}
		// An end date before the first occurrence describes a series that
		// never happens; reject it instead of emitting an unsatisfiable rule.
		if endOfDayUTC(*p.EndDate).Before(anchor) {
			return services.Wrap(services.ErrInvalidInput, "recurrence", "build", "end date is before the first occurrence", nil)
		}
	case EndAfter:
		if p.Count <= 0 {
			return services.Wrap(services.ErrInvalidInput, "recurrence", "build", fmt.Sprintf("count %d must be positive", p.Count), nil)
		}
	default:
		return services.Wrap(services.ErrInvalidInput, "recurrence", "build", fmt.Sprintf("unknown end type %q", p.EndType), nil)
	}
	if p.MonthWeek < 0 || p.MonthWeek > 5 {
		return services.Wrap(services.ErrInvalidInput, "recurrence", "build", fmt.Sprintf("month week %d out of range", p.MonthWeek), nil)
	}
	return nil
}

func weeklyByDay(p Pattern, anchor time.Time) string {
	if len(p.WeekDays) == 0 {
		return WeekdayCode(anchor.Weekday())
	}
	codes := make([]string, 0, len(p.WeekDays))
	for _, day := range p.WeekDays {
		codes = append(codes, WeekdayCode(day))
	}
	return strings.Join(codes, ",")
}

func monthlyByDay(p Pattern, anchor time.Time) string {
	week := p.MonthWeek
	if week == 0 {
		week = (anchor.Day() + 6) / 7
	}
	day := anchor.Weekday()
	if p.MonthWeekday != nil {
		day = *p.MonthWeekday
	}
	return fmt.Sprintf("%d%s", week, WeekdayCode(day))
}

// untilTimestamp renders the end date as the last second of that day in UTC.
func untilTimestamp(endDate time.Time) string {
	return endOfDayUTC(endDate).Format(untilFormat)
}

func endOfDayUTC(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 23, 59, 59, 0, time.UTC)
}
