package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Renzzio/bulsu-gate-system/internal/model"
)

// ScheduleRepo provides read-only access to the `schedules` table.
// Ordering is not guaranteed by the query; the schedule matcher sorts
// candidates itself.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo returns a new ScheduleRepo bound to the provided database.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// ListByStudent fetches every schedule entry of the given student. A
// student with no entries gets an empty slice, not an error.
func (r *ScheduleRepo) ListByStudent(ctx context.Context, userID string) ([]model.ScheduleEntry, error) {
	const q = `SELECT id, user_id, day_of_week, start_time, end_time, room, instructor, subject_code, subject_name, created_at, updated_at
	           FROM schedules WHERE user_id = ?`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []model.ScheduleEntry
	for rows.Next() {
		var e model.ScheduleEntry
		var day int
		if err := rows.Scan(
			&e.ID, &e.UserID, &day, &e.StartTime, &e.EndTime, &e.Room,
			&e.Instructor, &e.SubjectCode, &e.SubjectName, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		e.DayOfWeek = time.Weekday(day)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
