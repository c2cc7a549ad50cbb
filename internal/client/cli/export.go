package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/logorama/internal/client/journal"
	"github.com/dmitrijs2005/logorama/internal/client/journal/export"
)

// Export writes the whole journal to a timestamped JSON file, into the
// configured export directory when it is writable.
func (a *App) Export(ctx context.Context) error {
	data, err := journal.ExportAll(a.entries.Snapshot())
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	sink := export.Choose(a.config.ExportDir)
	path, err := sink.Save(journal.ExportFileName(time.Now()), data)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Exported to %s\n", path)
	return nil
}

// Import replaces the whole journal with the entries from a JSON file. The
// trash is left alone; a malformed file changes nothing.
func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: import <file>")
		return nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	if err := a.entries.Import(ctx, data); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Imported %d entries\n", len(a.entries.Snapshot()))
	return nil
}
