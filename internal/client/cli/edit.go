package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/logorama/internal/client/models"
)

// Edit updates an entry interactively. An empty answer keeps the current
// value; "-" clears the title and brings back the automatic day label.
func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: edit <id>")
		return nil
	}

	entry, ok := a.findEntry(args[0])
	if !ok {
		fmt.Fprintf(a.out, "No entry with id %s\n", args[0])
		return nil
	}

	fmt.Fprintf(a.out, "Editing %q\n", entry.Title)

	title, err := GetSimpleText(a.reader, "- New title (empty to keep, '-' to clear)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	content, err := GetMultiline(a.reader, "- New text (empty to keep)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	var upd models.EntryUpdate
	switch title {
	case "":
		// keep
	case "-":
		cleared := ""
		upd.Title = &cleared
	default:
		upd.Title = &title
	}
	if content != "" {
		upd.Content = &content
	}
	if upd.Title == nil && upd.Content == nil {
		fmt.Fprintln(a.out, "Nothing changed.")
		return nil
	}

	if err := a.entries.Update(ctx, entry.ID, upd); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	fmt.Fprintln(a.out, "Updated.")
	return nil
}
