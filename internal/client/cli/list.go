package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/logorama/internal/client/journal"
)

// List prints entries newest first. The first argument may narrow the range
// (all, today, week); anything after it is a case-insensitive search term.
func (a *App) List(ctx context.Context, args []string) error {
	filter := journal.FilterAll
	if len(args) > 0 {
		switch args[0] {
		case "all":
			args = args[1:]
		case "today":
			filter = journal.FilterToday
			args = args[1:]
		case "week":
			filter = journal.FilterWeek
			args = args[1:]
		}
	}
	term := strings.Join(args, " ")

	entries := a.entries.List(filter, term)
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No entries.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(a.out, "%s  %s  %s\n", e.ID, e.CreatedAt.Format("2006-01-02 15:04"), e.Title)
	}
	fmt.Fprintf(a.out, "%d entries\n", len(entries))
	return nil
}

// Show prints a single entry in full.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: show <id>")
		return nil
	}

	entry, ok := a.findEntry(args[0])
	if !ok {
		fmt.Fprintf(a.out, "No entry with id %s\n", args[0])
		return nil
	}

	fmt.Fprintf(a.out, "%s\n", entry.Title)
	fmt.Fprintf(a.out, "created: %s  edited: %s\n",
		entry.CreatedAt.Format("2006-01-02 15:04"), entry.EditedAt.Format("2006-01-02 15:04"))
	fmt.Fprintln(a.out, "")
	fmt.Fprintln(a.out, entry.Content)
	return nil
}

// Counts prints how many entries exist overall, today, and in the last week.
func (a *App) Counts(ctx context.Context) error {
	c := a.entries.Counts()
	fmt.Fprintf(a.out, "total: %d  today: %d  week: %d  trash: %d\n",
		c.Total, c.Today, c.Week, a.trash.Count())
	return nil
}
