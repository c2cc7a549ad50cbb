package journal

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/logorama/internal/client/models"
)

// RangeFilter narrows a listing to a creation-time window.
type RangeFilter string

const (
	FilterAll   RangeFilter = "all"
	FilterToday RangeFilter = "today"
	FilterWeek  RangeFilter = "week"
)

const weekWindow = 7 * 24 * time.Hour

// inRange reports whether the entry's CreatedAt falls inside the filter
// window relative to now. Unknown filter values behave like FilterAll.
func inRange(entry models.Entry, filter RangeFilter, now time.Time) bool {
	switch filter {
	case FilterToday:
		return localDayKey(entry.CreatedAt) == localDayKey(now)
	case FilterWeek:
		return now.Sub(entry.CreatedAt) <= weekWindow
	default:
		return true
	}
}

// matchesSearch does a case-insensitive substring match over title and
// content. An empty (or blank) term matches everything.
func matchesSearch(entry models.Entry, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(entry.Title), term) ||
		strings.Contains(strings.ToLower(entry.Content), term)
}
