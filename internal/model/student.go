package model

import "time"

// Student represents a row in the `students` table. Records are created by
// an admin (single add or CSV batch) and are never updated or deleted; reads
// come from the scan resolver and the directory listing.
//
// Fields:
//  StudentID – canonical identifier of the form S-<digits>; primary key.
//  Name      – display name of the student.
//  Grade     – grade label (free text, school-specific).
//  Section   – section label within a grade.
//  SchoolID  – school the student belongs to.
//  Via       – how the record was created: "admin" or "csv".
//  CreatedBy – email of the staff member who created the record.
//  CreatedAt – server-assigned creation timestamp.
type Student struct {
	StudentID string    `json:"student_id"` // students.student_id
	Name      string    `json:"name"`       // students.name
	Grade     string    `json:"grade"`      // students.grade
	Section   string    `json:"section"`    // students.section
	SchoolID  string    `json:"school_id"`  // students.school_id
	Via       string    `json:"via"`        // students.via
	CreatedBy string    `json:"created_by"` // students.created_by
	CreatedAt time.Time `json:"created_at"` // students.created_at
}
