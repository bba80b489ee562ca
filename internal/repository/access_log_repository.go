package repository

import (
	"context"
	"database/sql"

	"github.com/Renzzio/bulsu-gate-system/internal/model"
)

// AccessLogRepo provides append-only persistence for the `access_logs`
// audit trail plus read-only listing for the dashboard collaborator.
// Appends from different gates are safely concurrent; no cross-gate
// ordering is guaranteed beyond each row's auto-increment ID.
type AccessLogRepo struct {
	db *sql.DB
}

// NewAccessLogRepo returns a new AccessLogRepo bound to the provided database.
func NewAccessLogRepo(db *sql.DB) *AccessLogRepo { return &AccessLogRepo{db: db} }

// Append inserts one access log entry and populates its generated ID.
// Rows are never updated or deleted afterwards.
func (r *AccessLogRepo) Append(ctx context.Context, e *model.AccessLogEntry) error {
	const q = `INSERT INTO access_logs (user_id, user_type, gate_id, campus_id, scan_type, allowed, schedule_summary, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		e.UserID, e.UserType, e.GateID, e.CampusID, e.ScanType, e.Allowed,
		e.ScheduleSummary, e.Timestamp.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// LogFilter narrows ListRecent results. Zero values mean "no filter";
// Allowed is a pointer so that filtering on denied scans is possible.
type LogFilter struct {
	GateID  string
	UserID  string
	Allowed *bool
	Limit   int
}

// ListRecent returns the newest access log entries matching the filter,
// newest first. The limit is clamped to 1..500 with a default of 50.
func (r *AccessLogRepo) ListRecent(ctx context.Context, f LogFilter) ([]model.AccessLogEntry, error) {
	q := `SELECT id, user_id, user_type, gate_id, campus_id, scan_type, allowed, schedule_summary, created_at
	      FROM access_logs WHERE 1=1`
	args := make([]interface{}, 0, 4)
	if f.GateID != "" {
		q += " AND gate_id = ?"
		args = append(args, f.GateID)
	}
	if f.UserID != "" {
		q += " AND user_id = ?"
		args = append(args, f.UserID)
	}
	if f.Allowed != nil {
		q += " AND allowed = ?"
		args = append(args, *f.Allowed)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	q += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []model.AccessLogEntry
	for rows.Next() {
		var e model.AccessLogEntry
		var summary sql.NullString
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.UserType, &e.GateID, &e.CampusID,
			&e.ScanType, &e.Allowed, &summary, &e.Timestamp,
		); err != nil {
			return nil, err
		}
		if summary.Valid {
			s := summary.String
			e.ScheduleSummary = &s
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByID fetches a single access log entry. Used when a guard
// attaches a violation to an earlier scan.
func (r *AccessLogRepo) FindByID(ctx context.Context, logID uint64) (model.AccessLogEntry, error) {
	const q = `SELECT id, user_id, user_type, gate_id, campus_id, scan_type, allowed, schedule_summary, created_at
	           FROM access_logs WHERE id = ? LIMIT 1`
	var e model.AccessLogEntry
	var summary sql.NullString
	err := r.db.QueryRowContext(ctx, q, logID).Scan(
		&e.ID, &e.UserID, &e.UserType, &e.GateID, &e.CampusID,
		&e.ScanType, &e.Allowed, &summary, &e.Timestamp,
	)
	if err == sql.ErrNoRows {
		return model.AccessLogEntry{}, ErrNotFound
	}
	if err != nil {
		return model.AccessLogEntry{}, err
	}
	if summary.Valid {
		s := summary.String
		e.ScheduleSummary = &s
	}
	return e, nil
}
