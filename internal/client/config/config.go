package config

import (
	"time"
)

// Config holds runtime settings for the journal CLI.
//
// Drive fields stay empty unless the user configured the cloud mirror; the
// sync engine reports a configuration error when they are missing.
type Config struct {
	// DatabasePath is the sqlite file holding the local journal.
	DatabasePath string

	// DriveClientID and DriveClientSecret identify the OAuth application
	// used for the cloud mirror.
	DriveClientID     string
	DriveClientSecret string

	// DriveAPIKey is appended to Drive API requests.
	DriveAPIKey string

	// DriveBaseURL and DriveTokenURL override the Drive endpoints; empty
	// means the public Google endpoints.
	DriveBaseURL  string
	DriveTokenURL string

	// PushDebounce is the quiet period between a local change and the
	// automatic upload it triggers.
	PushDebounce time.Duration

	// SweepInterval is how often expired trash entries are purged.
	SweepInterval time.Duration

	// ExportDir receives JSON exports. Empty selects a writable directory
	// automatically.
	ExportDir string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "logorama.db"
	c.PushDebounce = 2 * time.Second
	c.SweepInterval = time.Hour
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
