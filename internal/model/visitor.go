package model

import "time"

// VisitorIDPrefix distinguishes visitor pass tokens from student user IDs
// at the external interface. Any scanned credential beginning with this
// prefix is routed to the visitor pass tracker.
const VisitorIDPrefix = "VIS-"

// Visitor status values stored in `visitors.status`. A pass becomes
// expired when its issue day rolls over or its usage quota is consumed.
const (
	VisitorStatusActive  = "active"
	VisitorStatusExpired = "expired"
)

// Visitor represents a day-scoped visitor pass as stored in the
// `visitors` table. A pass is valid only on the calendar day it was
// issued and for a limited number of scans (default two: one entry and
// one exit). UsageCount is monotonic and must never exceed MaxUses,
// even when the same QR code is scanned at two gates at once; the
// repository enforces this with a conditional update on UsageCount.
//
// Fields:
//  ID          – primary key identifier.
//  VisitorID   – unique pass token ("VIS-" prefixed), encoded in the QR code.
//  FullName    – visitor name captured at issuance.
//  CampusID    – campus the pass was issued for.
//  MaxUses     – scan quota for the pass.
//  UsageCount  – number of scans consumed so far.
//  Status      – pass status (active, expired).
//  CreatedDate – calendar day the pass was issued (UTC).
//  CreatedAt   – timestamp of issuance.
type Visitor struct {
	ID          uint64    // visitors.id
	VisitorID   string    // visitors.visitor_id
	FullName    string    // visitors.full_name
	CampusID    string    // visitors.campus_id
	MaxUses     uint32    // visitors.max_uses
	UsageCount  uint32    // visitors.usage_count
	Status      string    // visitors.status
	CreatedDate time.Time // visitors.created_date
	CreatedAt   time.Time // visitors.created_at
}
