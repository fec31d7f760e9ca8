package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"scribe/internal/recurrence"
)

func newRecurrenceCommand() *cobra.Command {
	recurrenceCmd := &cobra.Command{
		Use:         "recurrence",
		Short:       "Build and preview RFC 5545 recurrence rules",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}

	recurrenceCmd.AddCommand(newRecurrenceBuildCommand())
	recurrenceCmd.AddCommand(newRecurrencePreviewCommand())

	return recurrenceCmd
}

func newRecurrenceBuildCommand() *cobra.Command {
	var flags recurrenceFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build an RRULE from a recurrence pattern",
		RunE: func(cmd *cobra.Command, args []string) error {
			anchor, pattern, err := flags.resolve()
			if err != nil {
				return err
			}
			rules, err := recurrence.Build(pattern, anchor)
			if err != nil {
				return err
			}
			for _, rule := range rules {
				fmt.Fprintln(cmd.OutOrStdout(), rule)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newRecurrencePreviewCommand() *cobra.Command {
	var flags recurrenceFlags
	var rule string
	var limit int

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview upcoming occurrences of a recurrence rule",
		RunE: func(cmd *cobra.Command, args []string) error {
			anchor, pattern, err := flags.resolve()
			if err != nil {
				return err
			}

			resolved := strings.TrimSpace(rule)
			if resolved == "" {
				rules, err := recurrence.Build(pattern, anchor)
				if err != nil {
					return err
				}
				resolved = rules[0]
			}

			occurrences, err := recurrence.NextOccurrences(resolved, anchor, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !strings.HasPrefix(resolved, "RRULE:") {
				resolved = "RRULE:" + resolved
			}
			fmt.Fprintln(out, resolved)
			for _, occurrence := range occurrences {
				fmt.Fprintln(out, occurrence.Format("2006-01-02 15:04 MST"))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&rule, "rule", "", "Preview an existing RRULE instead of building one")
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Number of occurrences to show")
	return cmd
}

type recurrenceFlags struct {
	freq      string
	interval  int
	end       string
	until     string
	count     int
	byDay     []string
	byWeekday bool
	anchor    string
}

func (f *recurrenceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.freq, "freq", "weekly", "Repeat frequency (daily, weekly, monthly, yearly)")
	cmd.Flags().IntVar(&f.interval, "interval", 1, "Repeat every N periods")
	cmd.Flags().StringVar(&f.end, "end", "never", "End policy (never, on, after)")
	cmd.Flags().StringVar(&f.until, "until", "", "Last occurrence date for --end on (YYYY-MM-DD)")
	cmd.Flags().IntVar(&f.count, "count", 0, "Occurrence count for --end after")
	cmd.Flags().StringSliceVar(&f.byDay, "byday", nil, "Weekdays for weekly patterns (mon, tue, ...)")
	cmd.Flags().BoolVar(&f.byWeekday, "by-weekday", false, "Repeat monthly on the anchor's nth weekday instead of its day of month")
	cmd.Flags().StringVar(&f.anchor, "anchor", "", "First occurrence (RFC3339, defaults to now)")
}

func (f *recurrenceFlags) resolve() (time.Time, recurrence.Pattern, error) {
	anchor := time.Now()
	if value := strings.TrimSpace(f.anchor); value != "" {
		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return time.Time{}, recurrence.Pattern{}, fmt.Errorf("parse --anchor %q: %w", value, err)
		}
		anchor = parsed
	}

	freq, ok := recurrence.ParseFrequency(f.freq)
	if !ok {
		return time.Time{}, recurrence.Pattern{}, fmt.Errorf("unknown frequency %q", f.freq)
	}
	endType, ok := recurrence.ParseEndType(f.end)
	if !ok {
		return time.Time{}, recurrence.Pattern{}, fmt.Errorf("unknown end policy %q", f.end)
	}

	pattern := recurrence.Pattern{
		Frequency: freq,
		Interval:  f.interval,
		EndType:   endType,
		Count:     f.count,
	}

	if endType == recurrence.EndOn {
		value := strings.TrimSpace(f.until)
		if value == "" {
			return time.Time{}, recurrence.Pattern{}, errors.New("--until is required with --end on")
		}
		parsed, err := time.ParseInLocation("2006-01-02", value, anchor.Location())
		if err != nil {
			return time.Time{}, recurrence.Pattern{}, fmt.Errorf("parse --until %q: %w", value, err)
		}
		pattern.EndDate = &parsed
	}

	for _, day := range f.byDay {
		parsed, err := parseWeekday(day)
		if err != nil {
			return time.Time{}, recurrence.Pattern{}, err
		}
		pattern.WeekDays = append(pattern.WeekDays, parsed)
	}

	if f.byWeekday {
		pattern.MonthlyType = recurrence.MonthlyByWeekday
	}

	return anchor, pattern, nil
}

func parseWeekday(value string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "sun", "sunday":
		return time.Sunday, nil
	case "mon", "monday":
		return time.Monday, nil
	case "tue", "tuesday":
		return time.Tuesday, nil
	case "wed", "wednesday":
		return time.Wednesday, nil
	case "thu", "thursday":
		return time.Thursday, nil
	case "fri", "friday":
		return time.Friday, nil
	case "sat", "saturday":
		return time.Saturday, nil
	default:
		return time.Sunday, fmt.Errorf("unknown weekday %q", value)
	}
}
