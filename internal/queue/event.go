// Package queue defines audit event payloads exchanged over the message
// broker and the consumer that records them.
package queue

import (
	"encoding/json"
	"time"
)

// Event kinds carried in an Envelope.
const (
	KindNoteCreated    = "note.created"
	KindRosterImported = "roster.imported"
)

// Envelope wraps any audit event with its kind so a single queue can carry
// both payload types.
type Envelope struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// NoteCreatedEvent is published after a behavioral note is appended.
type NoteCreatedEvent struct {
	NoteID    uint64    `json:"note_id"`
	StudentID string    `json:"student_id"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// RosterImportedEvent is published after a CSV batch is written.
type RosterImportedEvent struct {
	BatchID    string    `json:"batch_id"`
	SchoolID   string    `json:"school_id"`
	Imported   int       `json:"imported"`
	Skipped    int       `json:"skipped"`
	ImportedBy string    `json:"imported_by"`
	ImportedAt time.Time `json:"imported_at"`
}
