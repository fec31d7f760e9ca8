package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"scribe/internal/api"
)

var statusCaser = cases.Title(language.English)

// formatStatusLabel turns a snake_case status value into a display label.
func formatStatusLabel(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return ""
	}
	return statusCaser.String(strings.ReplaceAll(strings.ToLower(status), "_", " "))
}

func buildSessionStatusRows(stats map[string]int) [][]string {
	if len(stats) == 0 {
		return nil
	}
	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{formatStatusLabel(key), fmt.Sprintf("%d", stats[key])})
	}
	return rows
}

func buildSessionRows(sessions []api.SessionView) [][]string {
	if len(sessions) == 0 {
		return nil
	}
	sorted := make([]api.SessionView, len(sessions))
	copy(sorted, sessions)

	sort.Slice(sorted, func(i, j int) bool {
		ti := parseDisplayTime(sorted[i].CreatedAt)
		tj := parseDisplayTime(sorted[j].CreatedAt)
		if ti.Equal(tj) {
			return sorted[i].ID > sorted[j].ID
		}
		return ti.After(tj)
	})

	rows := make([][]string, 0, len(sorted))
	for _, sess := range sorted {
		rows = append(rows, []string{
			sess.ID,
			sess.CalendarEventID,
			formatStatusLabel(sess.Status),
			formatDisplayTime(sess.CreatedAt),
			truncate(sess.ErrorMessage, 40),
		})
	}
	return rows
}

func buildMeetingRows(meetings []api.MeetingView) [][]string {
	if len(meetings) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(meetings))
	for _, meet := range meetings {
		title := strings.TrimSpace(meet.Title)
		if title == "" {
			title = "Untitled"
		}
		sessionID := "-"
		if meet.Session != nil {
			sessionID = meet.Session.ID
		}
		rows = append(rows, []string{
			meet.ID,
			title,
			formatDisplayTime(meet.Start),
			formatStatusLabel(meet.EffectiveStatus),
			sessionID,
		})
	}
	return rows
}

func formatDisplayTime(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC().Format("2006-01-02 15:04")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC().Format("2006-01-02 15:04")
	}
	return value
}

func parseDisplayTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	return time.Time{}
}

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	if len(value) > limit {
		return value[:limit-1] + "…"
	}
	return value
}
