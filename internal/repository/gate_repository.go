package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Renzzio/bulsu-gate-system/internal/model"
)

// GateRepo provides read-only access to the `gates` and `campuses`
// tables. Gate rows are managed by the administrative CRUD system.
type GateRepo struct {
	db *sql.DB
}

// NewGateRepo returns a new GateRepo bound to the provided database.
func NewGateRepo(db *sql.DB) *GateRepo { return &GateRepo{db: db} }

// FindByID fetches an in-service gate by its gate code. Missing and
// deactivated gates both yield ErrNotFound. A gate row carrying a type
// value the engine does not recognize behaves like a normal gate.
func (r *GateRepo) FindByID(ctx context.Context, gateID string) (model.Gate, error) {
	gateID = strings.TrimSpace(gateID)
	const q = `SELECT id, gate_id, name, campus_id, type, is_active, created_at
	           FROM gates WHERE gate_id = ? LIMIT 1`
	var g model.Gate
	var typ string
	err := r.db.QueryRowContext(ctx, q, gateID).Scan(
		&g.ID, &g.GateID, &g.Name, &g.CampusID, &typ, &g.IsActive, &g.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Gate{}, ErrNotFound
	}
	if err != nil {
		return model.Gate{}, err
	}
	if !g.IsActive {
		return model.Gate{}, ErrNotFound
	}
	g.Type = model.GateType(typ)
	return g, nil
}

// FindCampus fetches a campus by its campus code.
func (r *GateRepo) FindCampus(ctx context.Context, campusID string) (model.Campus, error) {
	const q = `SELECT id, campus_id, name FROM campuses WHERE campus_id = ? LIMIT 1`
	var c model.Campus
	err := r.db.QueryRowContext(ctx, q, campusID).Scan(&c.ID, &c.CampusID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Campus{}, ErrNotFound
	}
	if err != nil {
		return model.Campus{}, err
	}
	return c, nil
}
