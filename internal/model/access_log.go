package model

import "time"

// Scan directions accepted at a gate.
const (
	ScanTypeEntry = "entry"
	ScanTypeExit  = "exit"
)

// Identity kinds recorded in the access log.
const (
	UserTypeStudent = "student"
	UserTypeVisitor = "visitor"
)

// AccessLogEntry is one row of the append-only `access_logs` audit
// trail. Every scan produces exactly one entry, allowed or not, and a
// verdict is never returned to the guard before its entry is durable.
// Entries are immutable once written.
//
// Fields:
//  ID              – engine-generated log identifier (monotonic per table).
//  UserID          – scanned student user ID or visitor pass token.
//  UserType        – identity kind (student, visitor).
//  GateID          – gate where the scan happened.
//  CampusID        – campus of the gate, denormalized at write time.
//  ScanType        – scan direction (entry, exit).
//  Allowed         – the verdict that was returned.
//  ScheduleSummary – class session that justified an allowed student
//                    entry, when one matched.
//  Timestamp       – server clock, UTC.
type AccessLogEntry struct {
	ID              uint64    // access_logs.id
	UserID          string    // access_logs.user_id
	UserType        string    // access_logs.user_type
	GateID          string    // access_logs.gate_id
	CampusID        string    // access_logs.campus_id
	ScanType        string    // access_logs.scan_type
	Allowed         bool      // access_logs.allowed
	ScheduleSummary *string   // access_logs.schedule_summary (nullable)
	Timestamp       time.Time // access_logs.created_at
}
