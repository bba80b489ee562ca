// Package service implements the gate access authorization engine: the
// decision function that turns a scanned credential, a gate, a scan
// direction and the current time into an allow/deny verdict backed by
// an immutable audit log entry. The package depends only on the small
// store interfaces below; internal/repository provides the MySQL
// implementations and tests provide in-memory ones.
package service

import (
	"context"

	"github.com/Renzzio/bulsu-gate-system/internal/model"
)

// StudentDirectory resolves active students by their campus user ID.
// Implementations return repository.ErrNotFound for missing and
// inactive students alike.
type StudentDirectory interface {
	FindActive(ctx context.Context, userID string) (model.Student, error)
}

// VisitorStore provides visitor pass reads plus the conditional
// counter update the pass tracker's quota invariant rests on.
// ConsumeUse must increment usage_count only when the stored value
// still equals expected and the quota is not exhausted, returning
// repository.ErrUsageConflict otherwise.
type VisitorStore interface {
	Find(ctx context.Context, visitorID string) (model.Visitor, error)
	ConsumeUse(ctx context.Context, visitorID string, expected uint32) error
	MarkExpired(ctx context.Context, visitorID string) error
}

// GateDirectory resolves in-service gates by their gate code.
type GateDirectory interface {
	FindByID(ctx context.Context, gateID string) (model.Gate, error)
}

// ScheduleStore lists the schedule entries of a student, in no
// particular order.
type ScheduleStore interface {
	ListByStudent(ctx context.Context, userID string) ([]model.ScheduleEntry, error)
}

// AccessLogStore appends immutable audit entries. Append populates the
// entry's generated ID.
type AccessLogStore interface {
	Append(ctx context.Context, e *model.AccessLogEntry) error
}

// ViolationStore appends guard-reported violations. Create populates
// the violation's generated ID.
type ViolationStore interface {
	Create(ctx context.Context, v *model.Violation) error
}
