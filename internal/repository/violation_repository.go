package repository

import (
	"context"
	"database/sql"

	"github.com/Renzzio/bulsu-gate-system/internal/model"
)

// ViolationRepo provides append-only persistence for guard-reported
// violations. Violations reference the scan that triggered them but
// live in their own table so that reporting misconduct can never
// interfere with the access log.
type ViolationRepo struct {
	db *sql.DB
}

// NewViolationRepo returns a new ViolationRepo bound to the provided database.
func NewViolationRepo(db *sql.DB) *ViolationRepo { return &ViolationRepo{db: db} }

// Create inserts a violation and populates its generated ID.
func (r *ViolationRepo) Create(ctx context.Context, v *model.Violation) error {
	const q = `INSERT INTO violations (log_id, user_id, user_type, gate_id, scan_type, type, notes, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		v.LogID, v.UserID, v.UserType, v.GateID, v.ScanType, v.Type, v.Notes,
		v.Timestamp.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// ListByUser returns the violations recorded against a student or
// visitor, newest first. Exposed for the guard station's history view.
func (r *ViolationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]model.Violation, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `SELECT id, log_id, user_id, user_type, gate_id, scan_type, type, notes, created_at
	           FROM violations WHERE user_id = ? ORDER BY id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Violation
	for rows.Next() {
		var v model.Violation
		if err := rows.Scan(
			&v.ID, &v.LogID, &v.UserID, &v.UserType, &v.GateID,
			&v.ScanType, &v.Type, &v.Notes, &v.Timestamp,
		); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
