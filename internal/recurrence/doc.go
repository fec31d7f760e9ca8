// Package recurrence maps repeat patterns for meetings into RFC 5545 RRULE
// strings in the array-of-strings form calendar providers consume on event
// creation.
//
// Build is a pure function of the pattern and the anchor (the first
// occurrence's start); it performs no I/O and refuses to guess when a
// termination clause cannot be satisfied. NextOccurrences wraps an RFC 5545
// parser for preview output so generated rules can be checked against an
// independent implementation.
package recurrence
