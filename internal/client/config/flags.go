package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/logorama/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   path to the local journal database
//	-e string   directory receiving JSON exports
//	-i int      auto-push debounce in seconds
//	-s int      trash sweep interval in seconds
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-e", "-i", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the journal database")
	fs.StringVar(&cfg.ExportDir, "e", cfg.ExportDir, "directory for JSON exports")
	pushDebounce := fs.Int("i", int(cfg.PushDebounce.Seconds()), "auto-push debounce (in seconds)")
	sweepInterval := fs.Int("s", int(cfg.SweepInterval.Seconds()), "trash sweep interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PushDebounce = time.Duration(*pushDebounce) * time.Second
	cfg.SweepInterval = time.Duration(*sweepInterval) * time.Second
}
