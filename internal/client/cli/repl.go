package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Add(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Trash(ctx context.Context) error
	Restore(ctx context.Context, args []string) error
	Purge(ctx context.Context, args []string) error
	EmptyTrash(ctx context.Context) error
	Export(ctx context.Context) error
	Import(ctx context.Context, args []string) error
	SyncOn(ctx context.Context) error
	SyncOff(ctx context.Context) error
	SyncNow(ctx context.Context) error
	Pull(ctx context.Context) error
	Status(ctx context.Context) error
	Counts(ctx context.Context) error
}

const helpText = `Available commands:
  add                      add a journal entry
  list [all|today|week] [term...]
                           list entries, optionally filtered
  show <id>                show a single entry
  edit <id>                edit an entry
  delete <id>              move an entry to the trash
  trash                    list trashed entries
  restore <id>             restore an entry from the trash
  purge <id>               delete a trashed entry permanently
  emptytrash               delete all trashed entries permanently
  export                   write all entries to a JSON file
  import <file>            replace all entries from a JSON file
  sync on|off              enable or disable the cloud mirror
  syncnow                  upload the journal now
  pull                     replace the journal with the remote backup
  status                   show mirror status
  counts                   show entry counts
  exit | quit              leave the program`

// runREPL starts a simple read–eval–print loop for the journal CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers should
// report their own errors. This keeps the REPL loop resilient and focused on
// I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("logorama %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "add":
			_ = a.Add(ctx)

		case "l", "list":
			_ = a.List(ctx, args)

		case "show":
			_ = a.Show(ctx, args)

		case "edit":
			_ = a.Edit(ctx, args)

		case "delete", "del":
			_ = a.Delete(ctx, args)

		case "trash":
			_ = a.Trash(ctx)

		case "restore":
			_ = a.Restore(ctx, args)

		case "purge":
			_ = a.Purge(ctx, args)

		case "emptytrash":
			_ = a.EmptyTrash(ctx)

		case "export":
			_ = a.Export(ctx)

		case "import":
			_ = a.Import(ctx, args)

		case "sync":
			switch {
			case len(args) == 0:
				printlnFn("Usage: sync on|off")
			case args[0] == "on":
				_ = a.SyncOn(ctx)
			case args[0] == "off":
				_ = a.SyncOff(ctx)
			default:
				printlnFn("Usage: sync on|off")
			}

		case "syncnow":
			_ = a.SyncNow(ctx)

		case "pull":
			_ = a.Pull(ctx)

		case "status":
			_ = a.Status(ctx)

		case "counts":
			_ = a.Counts(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
