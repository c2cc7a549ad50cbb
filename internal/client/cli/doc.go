// Package cli provides the interactive journal command-line client.
//
// It wires configuration, local storage, the cloud mirror, and an interactive
// REPL. Entries live locally first; the mirror, when enabled, keeps a single
// remote backup file in step via debounced uploads.
//
// Key features:
//   - Add / edit / list / show entries with per-day automatic titles
//   - Trash with delayed permanent deletion, restore, purge
//   - JSON export and import
//   - Optional cloud mirror: sync on|off, syncnow, pull, status
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
