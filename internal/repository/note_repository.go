package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/school-qr-register/internal/model"
)

type NoteRepo struct{ DB *sql.DB }

func NewNoteRepo(db *sql.DB) *NoteRepo { return &NoteRepo{DB: db} }

// NotesLimit bounds the recent-history view of a student's ledger.
const NotesLimit = 30

// Append inserts a note and returns its ID. The ledger is append-only:
// there is no update or delete method on this repository.
func (r *NoteRepo) Append(ctx context.Context, n model.Note) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO notes (student_id, type, location, category, comment, created_by) VALUES (?,?,?,?,?,?)",
		n.StudentID, n.Type, n.Location, n.Category, n.Comment, n.CreatedBy)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListRecent returns the most recent notes for a student, newest first.
func (r *NoteRepo) ListRecent(ctx context.Context, studentID string, limit int) ([]model.Note, error) {
	if limit <= 0 {
		limit = NotesLimit
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,student_id,type,location,category,comment,created_by,created_at FROM notes WHERE student_id=? ORDER BY created_at DESC, id DESC LIMIT ?",
		studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Note
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.StudentID, &n.Type, &n.Location, &n.Category, &n.Comment, &n.CreatedBy, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
