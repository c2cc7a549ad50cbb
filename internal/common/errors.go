// Package common defines shared constants and sentinel errors used across
// Logorama components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Validation errors (rejected before any mutation).
	ErrValidation = errors.New("entry content must not be empty")
	ErrFormat     = errors.New("invalid format: expected an array of entries")

	// Drive sync errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrSyncBusy     = errors.New("sync operation already in progress")
	ErrSyncDisabled = errors.New("sync is disabled")
	ErrNoConfig     = errors.New("drive client id and api key are not configured")
)
