package model

import "time"

// Student status values stored in the `students.status` column. Only
// active students can be authorized at a gate; inactive records are
// treated as not found by the directory lookups.
const (
	StudentStatusActive   = "active"
	StudentStatusInactive = "inactive"
)

// Student represents an enrolled student as stored in the `students`
// table. The record is created and edited by the administrative CRUD
// system; the gate engine only ever reads it.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – unique campus-issued student number printed on the ID card.
//  FullName  – display name shown to the guard after a scan.
//  CampusID  – campus the student is enrolled at.
//  Program   – degree program (e.g. BSIT).
//  Section   – class section label.
//  Status    – account status (active, inactive).
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last administrative edit.
type Student struct {
	ID        uint64    // students.id
	UserID    string    // students.user_id
	FullName  string    // students.full_name
	CampusID  string    // students.campus_id
	Program   string    // students.program
	Section   string    // students.section
	Status    string    // students.status
	CreatedAt time.Time // students.created_at
	UpdatedAt time.Time // students.updated_at
}
