package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/logorama/internal/client/journal"
)

// Delete moves an entry to the trash, where it stays recoverable until the
// retention window runs out.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: delete <id>")
		return nil
	}

	entry, ok := a.findEntry(args[0])
	if !ok {
		fmt.Fprintf(a.out, "No entry with id %s\n", args[0])
		return nil
	}

	if err := a.entries.Delete(ctx, entry.ID); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Moved %q to trash (restore within %d days)\n",
		entry.Title, int(journal.TrashRetention.Hours()/24))
	return nil
}

// Trash lists trashed entries, newest deletion first.
func (a *App) Trash(ctx context.Context) error {
	trashed := a.trash.List()
	if len(trashed) == 0 {
		fmt.Fprintln(a.out, "Trash is empty.")
		return nil
	}
	for _, e := range trashed {
		fmt.Fprintf(a.out, "%s  deleted %s  %s\n", e.ID, e.DeletedAt.Format("2006-01-02 15:04"), e.Title)
	}
	return nil
}

// Restore moves a trashed entry back into the journal.
func (a *App) Restore(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: restore <id>")
		return nil
	}

	id := a.findTrashID(args[0])
	if err := a.entries.Restore(ctx, id); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	fmt.Fprintln(a.out, "Restored.")
	return nil
}

// Purge deletes a trashed entry permanently, ahead of its retention expiry.
func (a *App) Purge(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: purge <id>")
		return nil
	}

	id := a.findTrashID(args[0])
	if err := a.trash.DeleteForever(ctx, id); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	fmt.Fprintln(a.out, "Deleted permanently.")
	return nil
}

// EmptyTrash deletes every trashed entry permanently, after confirmation.
func (a *App) EmptyTrash(ctx context.Context) error {
	n := a.trash.Count()
	if n == 0 {
		fmt.Fprintln(a.out, "Trash is empty.")
		return nil
	}
	if !Confirm(a.reader, fmt.Sprintf("Permanently delete %d trashed entries?", n), a.out) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	a.trash.EmptyAll(ctx)
	fmt.Fprintln(a.out, "Trash emptied.")
	return nil
}

// findTrashID resolves a trashed entry id by full match or unique prefix,
// returning the input unchanged when nothing matches so the store reports the
// error.
func (a *App) findTrashID(id string) string {
	var match string
	var hits int
	for _, e := range a.trash.List() {
		if e.ID == id {
			return id
		}
		if strings.HasPrefix(e.ID, id) {
			match = e.ID
			hits++
		}
	}
	if hits == 1 {
		return match
	}
	return id
}
