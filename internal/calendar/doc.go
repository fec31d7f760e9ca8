// Package calendar adapts external calendars to meeting records. The Feed
// implementation reads an ICS feed; event creation goes through the Writer
// interface so recurrence rules are handed to the provider verbatim and
// never expanded locally.
package calendar
