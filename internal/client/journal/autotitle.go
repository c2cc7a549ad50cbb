package journal

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/logorama/internal/client/models"
)

// TitleSeparator joins the per-day sequence number and the weekday name.
const TitleSeparator = " - "

// weekdayNames holds German weekday names indexed by time.Weekday.
var weekdayNames = [...]string{
	"Sonntag",
	"Montag",
	"Dienstag",
	"Mittwoch",
	"Donnerstag",
	"Freitag",
	"Samstag",
}

// AutoTitle renders the generated title for the n-th entry of a day.
func AutoTitle(n int, createdAt time.Time) string {
	return fmt.Sprintf("%d%s%s", n, TitleSeparator, weekdayNames[createdAt.Local().Weekday()])
}

func localDayKey(t time.Time) string {
	return t.Local().Format("2006-01-02")
}

// ReindexAutoTitles recomputes per-day sequential titles: entries are grouped
// by the local calendar day of CreatedAt and numbered ascending within the
// day. Entries that are auto-titled (IsAutoTitle set, or manual title empty)
// receive "{n} - {Weekday}"; all others get IsAutoTitle forced to false. Entries with
// a zero CreatedAt are excluded from numbering and also forced to
// IsAutoTitle=false.
//
// The input is not mutated. When the recompute produces no value-level
// change, changed is false and callers skip the persistence write.
func ReindexAutoTitles(entries []models.Entry) (result []models.Entry, changed bool) {
	if len(entries) == 0 {
		return entries, false
	}

	cloned := make([]models.Entry, len(entries))
	copy(cloned, entries)

	order := make([]int, len(cloned))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return cloned[order[a]].CreatedAt.Before(cloned[order[b]].CreatedAt)
	})

	counters := make(map[string]int)

	for _, idx := range order {
		entry := &cloned[idx]

		if entry.CreatedAt.IsZero() {
			if entry.IsAutoTitle {
				entry.IsAutoTitle = false
				changed = true
			}
			continue
		}

		shouldAuto := entry.IsAutoTitle || strings.TrimSpace(entry.Title) == ""

		if shouldAuto {
			// Only auto-titled entries consume sequence numbers, so each
			// day's generated titles stay contiguous at 1..k even when
			// manually titled entries are interleaved.
			key := localDayKey(entry.CreatedAt)
			counters[key]++
			n := counters[key]

			generated := AutoTitle(n, entry.CreatedAt)
			if entry.Title != generated {
				entry.Title = generated
				changed = true
			}
			if !entry.IsAutoTitle {
				entry.IsAutoTitle = true
				changed = true
			}
		} else if entry.IsAutoTitle {
			entry.IsAutoTitle = false
			changed = true
		}
	}

	if !changed {
		return entries, false
	}
	return cloned, true
}
