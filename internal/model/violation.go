package model

import "time"

// Violation types a guard can report. The set mirrors the options
// offered by the guard station UI.
const (
	ViolationUniform    = "Inappropriate Uniform"
	ViolationNoID       = "No Student ID"
	ViolationLate       = "Late"
	ViolationItem       = "Unauthorized Item"
	ViolationDisruptive = "Disrupting Behavior"
	ViolationOther      = "Other"
)

// ValidViolationType reports whether t is one of the enumerated
// violation types.
func ValidViolationType(t string) bool {
	switch t {
	case ViolationUniform, ViolationNoID, ViolationLate,
		ViolationItem, ViolationDisruptive, ViolationOther:
		return true
	}
	return false
}

// Violation is a guard-reported misconduct note attached to a scan,
// stored in the `violations` table. A violation never changes the
// access verdict that was already issued; it is an audit annotation
// created only by a guard action and never auto-deleted.
//
// Fields:
//  ID        – primary key identifier.
//  LogID     – access log entry of the triggering scan.
//  UserID    – scanned student user ID or visitor pass token.
//  UserType  – identity kind (student, visitor).
//  GateID    – gate where the scan happened.
//  ScanType  – scan direction (entry, exit).
//  Type      – one of the enumerated violation types.
//  Notes     – free text, required when Type is "Other".
//  Timestamp – server clock, UTC.
type Violation struct {
	ID        uint64    // violations.id
	LogID     uint64    // violations.log_id
	UserID    string    // violations.user_id
	UserType  string    // violations.user_type
	GateID    string    // violations.gate_id
	ScanType  string    // violations.scan_type
	Type      string    // violations.type
	Notes     string    // violations.notes
	Timestamp time.Time // violations.created_at
}
