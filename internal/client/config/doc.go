// Package config loads runtime configuration for the journal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   path to the local journal database
//	-e string   directory for JSON exports
//	-i int      auto-push debounce (seconds)
//	-s int      trash sweep interval (seconds)
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "2s" or
// integer nanoseconds:
//
//	{
//	  "database_path": "logorama.db",
//	  "drive_client_id": "...",
//	  "drive_client_secret": "...",
//	  "drive_api_key": "...",
//	  "push_debounce": "2s",
//	  "sweep_interval": "1h",
//	  "export_dir": "backups"
//	}
//
// Drive credentials are only needed when the cloud mirror is used; the REPL
// can also prompt for them interactively.
package config
