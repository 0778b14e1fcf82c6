package model

import "time"

// Note types accepted by the ledger.
const (
	NoteTypePositive = "positive"
	NoteTypeNegative = "negative"
)

// Note is an append-only behavioral observation attached to a student.
// There is no update or delete path; the ledger only grows, and listings
// are bounded to the most recent entries.
//
// Fields:
//  ID        – primary key identifier.
//  StudentID – canonical student identifier the note belongs to.
//  Type      – "positive" or "negative".
//  Location  – where the behavior was observed (classroom, yard, ...).
//  Category  – school-defined category label.
//  Comment   – free-text observation; required.
//  CreatedBy – email of the staff member who wrote the note.
//  CreatedAt – server-assigned creation timestamp.
type Note struct {
	ID        uint64    `json:"id"`         // notes.id
	StudentID string    `json:"student_id"` // notes.student_id
	Type      string    `json:"type"`       // notes.type
	Location  string    `json:"location"`   // notes.location
	Category  string    `json:"category"`   // notes.category
	Comment   string    `json:"comment"`    // notes.comment
	CreatedBy string    `json:"created_by"` // notes.created_by
	CreatedAt time.Time `json:"created_at"` // notes.created_at
}
