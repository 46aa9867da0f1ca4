package model

import "time"

// Export represents one persisted map-edit sequence export.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
//
// A sequence id maps to exactly one export; re-exporting the same sequence
// fully replaces the previous file and index row (last-write-wins).
type Export struct {
	SequenceID string    `json:"sequence_id"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	ExportedAt time.Time `json:"exported_at"`
}
