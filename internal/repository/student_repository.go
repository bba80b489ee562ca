package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Renzzio/bulsu-gate-system/internal/model"
)

// StudentRepo provides read-only access to the `students` table. The
// gate engine never creates or edits students; that belongs to the
// administrative CRUD system.
type StudentRepo struct {
	db *sql.DB
}

// NewStudentRepo returns a new StudentRepo bound to the provided database.
func NewStudentRepo(db *sql.DB) *StudentRepo { return &StudentRepo{db: db} }

// FindActive fetches a student by user ID. Missing rows and inactive
// students both yield ErrNotFound so that callers cannot accidentally
// authorize a deactivated account.
func (r *StudentRepo) FindActive(ctx context.Context, userID string) (model.Student, error) {
	userID = strings.TrimSpace(userID)
	const q = `SELECT id, user_id, full_name, campus_id, program, section, status, created_at, updated_at
	           FROM students WHERE user_id = ? LIMIT 1`
	var s model.Student
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&s.ID, &s.UserID, &s.FullName, &s.CampusID, &s.Program, &s.Section,
		&s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Student{}, ErrNotFound
	}
	if err != nil {
		return model.Student{}, err
	}
	if s.Status != model.StudentStatusActive {
		return model.Student{}, ErrNotFound
	}
	return s, nil
}
