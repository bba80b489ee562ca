package model

import "time"

// GateType enumerates the behavior variants of a physical gate. The
// variant decides which scan directions the gate accepts and whether
// schedule checks apply. New gate behaviors should be added here as
// variants rather than as boolean flags on Gate.
type GateType string

const (
	// GateTypeNormal accepts both directions and applies the full
	// schedule policy.
	GateTypeNormal GateType = "normal"
	// GateTypeEntrance accepts entry scans only.
	GateTypeEntrance GateType = "entrance"
	// GateTypeExit accepts exit scans only.
	GateTypeExit GateType = "exit"
	// GateTypeEmergency accepts both directions and bypasses schedule
	// checks entirely. Fail-open for safety.
	GateTypeEmergency GateType = "emergency"
)

// AcceptsScan reports whether the gate variant permits a scan in the
// given direction. Unknown variants behave like a normal gate.
func (t GateType) AcceptsScan(scanType string) bool {
	switch t {
	case GateTypeEntrance:
		return scanType == ScanTypeEntry
	case GateTypeExit:
		return scanType == ScanTypeExit
	default:
		return true
	}
}

// BypassesSchedule reports whether student scans at this gate skip the
// schedule matcher.
func (t GateType) BypassesSchedule() bool { return t == GateTypeEmergency }

// Gate represents a physical campus gate as stored in the `gates`
// table.
//
// Fields:
//  ID        – primary key identifier.
//  GateID    – unique gate code scanned devices identify themselves with.
//  Name      – human-readable gate name (e.g. "Main Gate").
//  CampusID  – campus that owns the gate.
//  Type      – behavior variant (normal, entrance, exit, emergency).
//  IsActive  – whether the gate is in service.
//  CreatedAt – timestamp of creation.
type Gate struct {
	ID        uint64    // gates.id
	GateID    string    // gates.gate_id
	Name      string    // gates.name
	CampusID  string    // gates.campus_id
	Type      GateType  // gates.type
	IsActive  bool      // gates.is_active
	CreatedAt time.Time // gates.created_at
}

// Campus is a row in the `campuses` table. Gates and identities both
// reference a campus; a scan only matches when the two agree.
type Campus struct {
	ID       uint64 // campuses.id
	CampusID string // campuses.campus_id
	Name     string // campuses.name
}
