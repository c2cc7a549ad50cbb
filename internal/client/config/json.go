package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/logorama/internal/flagx"
	"github.com/dmitrijs2005/logorama/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration so the file can specify them either as strings like "2s" or
// as integer nanoseconds.
type JsonConfig struct {
	DatabasePath      string         `json:"database_path"`
	DriveClientID     string         `json:"drive_client_id"`
	DriveClientSecret string         `json:"drive_client_secret"`
	DriveAPIKey       string         `json:"drive_api_key"`
	DriveBaseURL      string         `json:"drive_base_url"`
	DriveTokenURL     string         `json:"drive_token_url"`
	PushDebounce      timex.Duration `json:"push_debounce"`
	SweepInterval     timex.Duration `json:"sweep_interval"`
	ExportDir         string         `json:"export_dir"`
}

// parseJson overlays Config with values loaded from a JSON file selected via
// the -c or -config flags. Absent fields keep their earlier values. Read or
// unmarshal errors panic (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.DriveClientID != "" {
		cfg.DriveClientID = jc.DriveClientID
	}
	if jc.DriveClientSecret != "" {
		cfg.DriveClientSecret = jc.DriveClientSecret
	}
	if jc.DriveAPIKey != "" {
		cfg.DriveAPIKey = jc.DriveAPIKey
	}
	if jc.DriveBaseURL != "" {
		cfg.DriveBaseURL = jc.DriveBaseURL
	}
	if jc.DriveTokenURL != "" {
		cfg.DriveTokenURL = jc.DriveTokenURL
	}
	if jc.PushDebounce.Duration != 0 {
		cfg.PushDebounce = time.Duration(jc.PushDebounce.Duration)
	}
	if jc.SweepInterval.Duration != 0 {
		cfg.SweepInterval = time.Duration(jc.SweepInterval.Duration)
	}
	if jc.ExportDir != "" {
		cfg.ExportDir = jc.ExportDir
	}
}
