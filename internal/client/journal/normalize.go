// Package journal owns the entry/trash lifecycle: normalization of loosely
// typed records, per-day auto titling, the active and trash collections, the
// 30-day retention garbage collector, and JSON import/export.
package journal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/logorama/internal/client/models"
	"github.com/dmitrijs2005/logorama/internal/common"
)

// rawRecord is one loosely typed record as found in the persistent store, an
// import payload, or a remote backup document. Fields of the wrong JSON type
// are coerced to their zero value instead of failing the whole document.
type rawRecord map[string]json.RawMessage

func (r rawRecord) stringField(key string) string {
	raw, ok := r[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func (r rawRecord) boolField(key string) (value, present bool) {
	raw, ok := r[key]
	if !ok {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, false
	}
	return b, true
}

// timeField returns the parsed timestamp and whether the key was present at
// all. A present but unparseable value yields the zero time, which keeps the
// record out of auto-title numbering.
func (r rawRecord) timeField(key string) (value time.Time, present bool) {
	raw, ok := r[key]
	if !ok {
		return time.Time{}, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, true
	}
	return t, true
}

// NormalizeEntry coerces one record into the canonical Entry shape: a missing
// id is generated, missing timestamps default (editedAt falls back to
// createdAt, createdAt to now), and IsAutoTitle is inferred from title
// emptiness unless the record spells it out.
func NormalizeEntry(r rawRecord, now time.Time) models.Entry {
	title := r.stringField("title")

	createdAt, present := r.timeField("createdAt")
	if !present {
		createdAt = now
	}
	editedAt, present := r.timeField("editedAt")
	if !present {
		editedAt = createdAt
	}

	isAuto, present := r.boolField("isAutoTitle")
	if !present {
		isAuto = strings.TrimSpace(title) == ""
	}

	id := r.stringField("id")
	if id == "" {
		id = uuid.NewString()
	}

	return models.Entry{
		ID:          id,
		Title:       title,
		Content:     r.stringField("content"),
		CreatedAt:   createdAt,
		EditedAt:    editedAt,
		IsAutoTitle: isAuto,
	}
}

// NormalizeTrashEntry is NormalizeEntry plus a deletedAt default of now.
func NormalizeTrashEntry(r rawRecord, now time.Time) models.TrashEntry {
	deletedAt, present := r.timeField("deletedAt")
	if !present || deletedAt.IsZero() {
		deletedAt = now
	}
	return models.TrashEntry{
		Entry:     NormalizeEntry(r, now),
		DeletedAt: deletedAt,
	}
}

// NormalizePayload converts a whole import/backup payload into normalized
// entries. Anything that is not a JSON array of objects fails with
// common.ErrFormat; no partial result is ever returned.
func NormalizePayload(data []byte, now time.Time) ([]models.Entry, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrFormat, err)
	}

	entries := make([]models.Entry, 0, len(elements))
	for i, element := range elements {
		var r rawRecord
		if err := json.Unmarshal(element, &r); err != nil {
			return nil, fmt.Errorf("%w: element %d is not an object", common.ErrFormat, i)
		}
		entries = append(entries, NormalizeEntry(r, now))
	}
	return entries, nil
}

// decodeStoredEntries hydrates the active bucket. Any decoding problem yields
// an empty collection so the application keeps running with a fresh state.
func decodeStoredEntries(data []byte, now time.Time) []models.Entry {
	if len(data) == 0 {
		return nil
	}
	entries, err := NormalizePayload(data, now)
	if err != nil {
		return nil
	}
	return entries
}

// decodeStoredTrash hydrates the trash bucket, dropping whatever does not
// decode and defaulting missing deletedAt stamps.
func decodeStoredTrash(data []byte, now time.Time) []models.TrashEntry {
	if len(data) == 0 {
		return nil
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil
	}
	result := make([]models.TrashEntry, 0, len(elements))
	for _, element := range elements {
		var r rawRecord
		if err := json.Unmarshal(element, &r); err != nil {
			continue
		}
		result = append(result, NormalizeTrashEntry(r, now))
	}
	return result
}
