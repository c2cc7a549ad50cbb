// Package models defines client-side data models used by the Logorama CLI.
package models

import "time"

// Entry is a single journal record in the active collection.
type Entry struct {
	// ID is a globally unique identifier, unique across the union of the
	// active and trash collections.
	ID string `json:"id"`

	// Title is either a manual title or an auto-generated one of the form
	// "{n} - {Weekday}".
	Title string `json:"title"`

	// Content is the free-text body. It is never persisted empty.
	Content string `json:"content"`

	// CreatedAt is the creation time. The calendar day of CreatedAt drives
	// auto-title numbering.
	CreatedAt time.Time `json:"createdAt"`

	// EditedAt is re-stamped on every content/title update.
	EditedAt time.Time `json:"editedAt"`

	// IsAutoTitle is true iff no manual title has ever been supplied or the
	// title was cleared.
	IsAutoTitle bool `json:"isAutoTitle"`
}

// TrashEntry is an Entry that has been moved to the trash.
type TrashEntry struct {
	Entry

	// DeletedAt marks when the entry was trashed; always >= CreatedAt.
	// Records older than the retention window are dropped permanently.
	DeletedAt time.Time `json:"deletedAt"`
}

// EntryUpdate carries a partial update for an entry. A nil field means the
// caller did not supply that key, which matters for title handling: a present
// but empty title re-enables auto titling.
type EntryUpdate struct {
	Title   *string
	Content *string
}
