package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/school-qr-register/internal/model"
)

type StudentRepo struct{ DB *sql.DB }

func NewStudentRepo(db *sql.DB) *StudentRepo { return &StudentRepo{DB: db} }

// RecentLimit bounds the directory listing.
const RecentLimit = 20

const studentColumns = "student_id,name,grade,section,school_id,via,created_by,created_at"

// Create inserts a student after verifying the identifier is free. On a
// conflict the existing record is left untouched and ErrStudentExists is
// returned. The check and insert run in one transaction so two concurrent
// creates cannot both pass the check.
func (r *StudentRepo) Create(ctx context.Context, s model.Student) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM students WHERE student_id=? FOR UPDATE", s.StudentID).Scan(&exists)
	switch {
	case err == nil:
		return ErrStudentExists
	case err != sql.ErrNoRows:
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO students (student_id, name, grade, section, school_id, via, created_by) VALUES (?,?,?,?,?,?,?)",
		s.StudentID, s.Name, s.Grade, s.Section, s.SchoolID, s.Via, s.CreatedBy); err != nil {
		return err
	}
	return tx.Commit()
}

// BulkImport writes a roster batch in one transaction. Rows whose
// identifier already exists are skipped rather than overwritten; the
// returned slices report what happened to each row.
func (r *StudentRepo) BulkImport(ctx context.Context, rows []model.Student) (imported, skipped []string, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, s := range rows {
		var exists int
		err := tx.QueryRowContext(ctx,
			"SELECT 1 FROM students WHERE student_id=?", s.StudentID).Scan(&exists)
		switch {
		case err == nil:
			skipped = append(skipped, s.StudentID)
			continue
		case err != sql.ErrNoRows:
			return nil, nil, err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO students (student_id, name, grade, section, school_id, via, created_by) VALUES (?,?,?,?,?,?,?)",
			s.StudentID, s.Name, s.Grade, s.Section, s.SchoolID, s.Via, s.CreatedBy); err != nil {
			return nil, nil, err
		}
		imported = append(imported, s.StudentID)
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return imported, skipped, nil
}

// GetByID fetches a student by canonical identifier.
func (r *StudentRepo) GetByID(ctx context.Context, studentID string) (model.Student, error) {
	var s model.Student
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+studentColumns+" FROM students WHERE student_id=? LIMIT 1",
		studentID).Scan(&s.StudentID, &s.Name, &s.Grade, &s.Section, &s.SchoolID, &s.Via, &s.CreatedBy, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Student{}, ErrNotFound
	}
	return s, err
}

// ListRecent returns the most recently created students for a school,
// newest first.
func (r *StudentRepo) ListRecent(ctx context.Context, schoolID string, limit int) ([]model.Student, error) {
	if limit <= 0 {
		limit = RecentLimit
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+studentColumns+" FROM students WHERE school_id=? ORDER BY created_at DESC, student_id DESC LIMIT ?",
		schoolID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.StudentID, &s.Name, &s.Grade, &s.Section, &s.SchoolID, &s.Via, &s.CreatedBy, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
