package meeting

import (
	"fmt"
	"time"

	"scribe/internal/services"
)

// DefaultPageSize is the page size used when a caller does not configure
// one.
const DefaultPageSize = 20

// Page is one slice of a filtered record set together with the counts a
// caller needs to render pagination controls.
type Page struct {
	Items       []WithSession
	Total       int
	TotalPages  int
	CurrentPage int
	HasMore     bool
}

// Paginate slices records into 1-indexed pages of the given size. A page
// beyond the last returns an empty slice but still reports the true totals.
// Sizes below one are rejected rather than treated as unlimited.
func Paginate(records []WithSession, page, size int) (Page, error) {
	if size < 1 {
		return Page{}, services.Wrap(services.ErrInvalidInput, "meeting", "paginate", fmt.Sprintf("page size %d must be at least 1", size), nil)
	}
	if page < 1 {
		return Page{}, services.Wrap(services.ErrInvalidInput, "meeting", "paginate", fmt.Sprintf("page number %d must be at least 1", page), nil)
	}

	total := len(records)
	totalPages := (total + size - 1) / size

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Items:       records[start:end],
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
		HasMore:     page*size < total,
	}, nil
}

// Browse runs the full filter, sort, paginate pipeline over matched
// records. The input slice is left untouched.
func Browse(records []WithSession, status StatusFilter, period TimeFilter, now time.Time, page, size int) (Page, error) {
	filtered := Filter(records, status, period, now)
	Sort(filtered, period)
	return Paginate(filtered, page, size)
}
