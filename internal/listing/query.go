// Package listing derives the filtered, paginated view of a data page.
package listing

import (
	"strings"
	"time"

	"portal/internal/domain/entity"
)

// StatusAll disables the status filter.
const StatusAll = "all"

// Record is a row of a data page.
type Record interface {
	StatusValue() string
	SearchText() []string
	RecordDate() entity.Date
}

// Query holds the filter, search and pagination controls of a page.
type Query struct {
	Status   string
	Search   string
	From     time.Time
	To       time.Time
	Page     int
	PageSize int
}

// Normalize clamps pagination to sane values.
func (q Query) Normalize(defaultSize, maxSize int) Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultSize
	}
	if q.PageSize > maxSize {
		q.PageSize = maxSize
	}
	q.Status = strings.TrimSpace(q.Status)
	q.Search = strings.TrimSpace(q.Search)

	return q
}

// Filter keeps records matching the status, search text and date range of q.
// The date range is inclusive by calendar day; undated records never match a range.
func Filter[T Record](items []T, q Query) []T {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	status := strings.TrimSpace(q.Status)

	out := make([]T, 0, len(items))
	for _, item := range items {
		if status != "" && !strings.EqualFold(status, StatusAll) && !strings.EqualFold(item.StatusValue(), status) {
			continue
		}
		if search != "" && !matches(item.SearchText(), search) {
			continue
		}
		if !inRange(item.RecordDate(), q.From, q.To) {
			continue
		}
		out = append(out, item)
	}

	return out
}

func matches(fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}

	return false
}

func inRange(d entity.Date, from, to time.Time) bool {
	if from.IsZero() && to.IsZero() {
		return true
	}
	if d.IsZero() {
		return false
	}

	day := truncateDay(d.Time)
	if !from.IsZero() && day.Before(truncateDay(from)) {
		return false
	}
	if !to.IsZero() && day.After(truncateDay(to)) {
		return false
	}

	return true
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
