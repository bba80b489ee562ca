package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Renzzio/bulsu-gate-system/internal/model"
)

// VisitorRepo provides access to the `visitors` table. Besides plain
// lookups it exposes the conditional counter update the pass tracker
// relies on: two guards can scan the same QR code at different gates
// within the same second, and usage_count must still never exceed
// max_uses. All timestamps are stored in UTC.
type VisitorRepo struct {
	db *sql.DB
}

// NewVisitorRepo returns a new VisitorRepo bound to the provided database.
func NewVisitorRepo(db *sql.DB) *VisitorRepo { return &VisitorRepo{db: db} }

// Create inserts a freshly issued visitor pass and populates its ID.
// The caller supplies the generated VIS- token, quota and issue day.
func (r *VisitorRepo) Create(ctx context.Context, v *model.Visitor) error {
	const q = `INSERT INTO visitors (visitor_id, full_name, campus_id, max_uses, usage_count, status, created_date)
	           VALUES (?, ?, ?, ?, 0, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		v.VisitorID, v.FullName, v.CampusID, v.MaxUses, v.Status,
		v.CreatedDate.UTC().Format("2006-01-02"),
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

// Find fetches a visitor pass by its token regardless of status. The
// pass tracker needs expired and exhausted rows too, so unlike the
// student lookup this does not filter on status; only a missing row
// yields ErrNotFound.
func (r *VisitorRepo) Find(ctx context.Context, visitorID string) (model.Visitor, error) {
	visitorID = strings.TrimSpace(visitorID)
	const q = `SELECT id, visitor_id, full_name, campus_id, max_uses, usage_count, status, created_date, created_at
	           FROM visitors WHERE visitor_id = ? LIMIT 1`
	var v model.Visitor
	err := r.db.QueryRowContext(ctx, q, visitorID).Scan(
		&v.ID, &v.VisitorID, &v.FullName, &v.CampusID, &v.MaxUses,
		&v.UsageCount, &v.Status, &v.CreatedDate, &v.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Visitor{}, ErrNotFound
	}
	if err != nil {
		return model.Visitor{}, err
	}
	return v, nil
}

// ConsumeUse increments usage_count by one, but only if the stored
// count still equals expected, the pass is still active and the quota
// is not yet exhausted. When no row matches, either a concurrent scan
// got there first or the pass state changed; ErrUsageConflict is
// returned and the caller re-reads the row to find out which.
func (r *VisitorRepo) ConsumeUse(ctx context.Context, visitorID string, expected uint32) error {
	const q = `UPDATE visitors SET usage_count = usage_count + 1
	           WHERE visitor_id = ? AND usage_count = ? AND usage_count < max_uses AND status = ?`
	res, err := r.db.ExecContext(ctx, q, visitorID, expected, model.VisitorStatusActive)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUsageConflict
	}
	return nil
}

// MarkExpired transitions a pass to the expired status. Used by the
// pass tracker when a scan arrives after the issue day rolled over.
// Expiring an already-expired pass is a no-op.
func (r *VisitorRepo) MarkExpired(ctx context.Context, visitorID string) error {
	const q = `UPDATE visitors SET status = ? WHERE visitor_id = ?`
	_, err := r.db.ExecContext(ctx, q, model.VisitorStatusExpired, visitorID)
	return err
}
