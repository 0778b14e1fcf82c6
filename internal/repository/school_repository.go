package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/school-qr-register/internal/model"
)

type SchoolRepo struct{ DB *sql.DB }

func NewSchoolRepo(db *sql.DB) *SchoolRepo { return &SchoolRepo{DB: db} }

// Upsert writes the school metadata document with merge semantics: only the
// provided non-empty fields are updated, existing values survive. Called as
// a fire-and-forget side effect of an admin sign-in.
func (r *SchoolRepo) Upsert(ctx context.Context, s model.School) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO schools (id, name, admin_email) VALUES (?,?,?)
		ON DUPLICATE KEY UPDATE
			name = IF(VALUES(name) <> '', VALUES(name), name),
			admin_email = IF(VALUES(admin_email) <> '', VALUES(admin_email), admin_email)`,
		s.ID, s.Name, s.AdminEmail)
	return err
}

// Get fetches a school metadata document.
func (r *SchoolRepo) Get(ctx context.Context, id string) (model.School, error) {
	var s model.School
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,admin_email,updated_at FROM schools WHERE id=? LIMIT 1",
		id).Scan(&s.ID, &s.Name, &s.AdminEmail, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.School{}, ErrNotFound
	}
	return s, err
}
