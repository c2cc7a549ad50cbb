package sync

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/dmitrijs2005/logorama/internal/client/models"
)

// backupDocument is the remote file layout. Metadata is informational; only
// the entries array feeds back into the journal on pull.
type backupDocument struct {
	Metadata backupMetadata  `json:"metadata"`
	Entries  json.RawMessage `json:"entries,omitempty"`
}

type backupMetadata struct {
	SyncedAt     string `json:"syncedAt"`
	EntriesCount int    `json:"entriesCount"`
}

// encodeSnapshot wraps the current active entries into a backup document.
// The snapshot is taken at call time, after any debounce delay.
func (e *Engine) encodeSnapshot() []byte {
	entries := e.store.Snapshot()
	if entries == nil {
		entries = []models.Entry{}
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		// Entries are plain structs; this cannot fail in practice.
		raw = []byte("[]")
	}
	doc := backupDocument{
		Metadata: backupMetadata{
			SyncedAt:     e.now().UTC().Format("2006-01-02T15:04:05.000Z"),
			EntriesCount: len(entries),
		},
		Entries: raw,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return []byte("{}")
	}
	return data
}

// decodeBackup extracts the entries array from a downloaded document.
// ok is false for documents without one (an empty or foreign file, or an
// entries key holding anything but an array); err is set only when the body
// is not JSON at all.
func decodeBackup(data []byte) (entries json.RawMessage, ok bool, err error) {
	if len(data) == 0 {
		return nil, false, nil
	}
	var doc backupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			// Valid JSON of some other shape; nothing to pull.
			return nil, false, nil
		}
		return nil, false, err
	}
	raw := bytes.TrimSpace(doc.Entries)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false, nil
	}
	return raw, true, nil
}
