package model

import "time"

// ScheduleEntry represents one weekly class session of a student as
// stored in the `schedules` table. Start and end times are stored as
// "HH:mm" wall-clock strings; the invariant start < end is enforced by
// the administrative CRUD at write time, never at scan time. The gate
// engine treats schedule rows as read-only and tolerates staleness (a
// schedule edited mid-day is picked up on the next scan).
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – owning student's user ID.
//  DayOfWeek   – weekday of the session (time.Weekday, Sunday = 0).
//  StartTime   – session start, "HH:mm".
//  EndTime     – session end, "HH:mm".
//  Room        – assigned room label.
//  Instructor  – instructor name.
//  SubjectCode – subject code (e.g. IT 302).
//  SubjectName – subject title.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last edit.
type ScheduleEntry struct {
	ID          uint64       // schedules.id
	UserID      string       // schedules.user_id
	DayOfWeek   time.Weekday // schedules.day_of_week
	StartTime   string       // schedules.start_time
	EndTime     string       // schedules.end_time
	Room        string       // schedules.room
	Instructor  string       // schedules.instructor
	SubjectCode string       // schedules.subject_code
	SubjectName string       // schedules.subject_name
	CreatedAt   time.Time    // schedules.created_at
	UpdatedAt   time.Time    // schedules.updated_at
}

// Summary renders the one-line description of the session that is
// written to the access log and shown to the guard.
func (s ScheduleEntry) Summary() string {
	return s.SubjectCode + " " + s.SubjectName + " @ " + s.Room + " (" + s.StartTime + "-" + s.EndTime + ")"
}
