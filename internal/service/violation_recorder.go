package service

import (
	"context"
	"time"

	"github.com/Renzzio/bulsu-gate-system/internal/model"
)

// ScanContext identifies the scan a violation is attached to. It is a
// plain value so callers holding either a fresh verdict or an earlier
// access log entry can build one.
type ScanContext struct {
	LogID    uint64
	UserID   string
	UserType string
	GateID   string
	ScanType string
}

// ViolationRecorder appends guard-reported misconduct notes. Recording
// a violation is independent of the access verdict by design: the
// guard station only offers the violation form after a verdict has
// been shown, and reporting misconduct must never block physical
// access. The recorder has no business failure modes; it either
// appends or surfaces a retryable StorageError, and the caller must
// not re-run the already completed access decision.
type ViolationRecorder struct {
	violations ViolationStore
}

// NewViolationRecorder returns a recorder over the given store.
func NewViolationRecorder(violations ViolationStore) *ViolationRecorder {
	return &ViolationRecorder{violations: violations}
}

// Record appends one violation and returns its generated ID.
func (r *ViolationRecorder) Record(ctx context.Context, scan ScanContext, violationType, notes string, now time.Time) (uint64, error) {
	v := model.Violation{
		LogID:     scan.LogID,
		UserID:    scan.UserID,
		UserType:  scan.UserType,
		GateID:    scan.GateID,
		ScanType:  scan.ScanType,
		Type:      violationType,
		Notes:     notes,
		Timestamp: now.UTC(),
	}
	if err := r.violations.Create(ctx, &v); err != nil {
		return 0, storageErr("violation append", err)
	}
	return v.ID, nil
}
