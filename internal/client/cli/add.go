package cli

import (
	"context"
	"fmt"
)

// Add prompts for an optional title and the entry text, then creates the
// entry. An empty title gets the automatic day label.
func (a *App) Add(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "- Enter title (empty for automatic)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	content, err := GetMultiline(a.reader, "- Enter text", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	entry, err := a.entries.Create(ctx, title, content)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Created %q (%s)\n", entry.Title, entry.ID)
	return nil
}
