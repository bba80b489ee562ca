package service

import (
	"context"
	"errors"
	"time"

	"github.com/Renzzio/bulsu-gate-system/internal/model"
	"github.com/Renzzio/bulsu-gate-system/internal/repository"
)

// Deny reasons produced by the pass tracker.
const (
	ReasonPassNotFound = "pass not found or inactive"
	ReasonPassExpired  = "pass expired - valid for issue day only"
	ReasonUsageLimit   = "usage limit reached"
	ReasonScanConflict = "concurrent scan conflict"
)

// casRetries bounds the read-check-write retry cycle when two gates
// scan the same pass simultaneously. After the budget is exhausted the
// scan is rejected and the guard rescans.
const casRetries = 3

// ConsumeResult is the outcome of attempting to consume one use of a
// visitor pass. When Consumed is false, Reason carries the
// guard-facing explanation. Visitor is populated whenever the pass row
// was found, so callers can display the visitor's name either way.
type ConsumeResult struct {
	Consumed      bool
	Reason        string
	NewUsageCount uint32
	Visitor       model.Visitor
}

// PassTracker enforces the validity window and usage quota of visitor
// passes. Its core invariant: usage_count never exceeds max_uses, even
// when the same pass is scanned concurrently at several gates. The
// invariant rests entirely on the store's conditional increment; the
// tracker itself keeps no state.
type PassTracker struct {
	visitors VisitorStore
}

// NewPassTracker returns a tracker over the given visitor store.
func NewPassTracker(visitors VisitorStore) *PassTracker {
	return &PassTracker{visitors: visitors}
}

// Consume evaluates the pass decision table in order: unknown or
// inactive pass, issue-day expiry (which also transitions the stored
// status), exhausted quota, then the atomic increment. A lost
// increment race re-reads the row and re-evaluates, up to casRetries
// times. Returns an error only for storage failures; every business
// outcome is a ConsumeResult.
func (t *PassTracker) Consume(ctx context.Context, visitorID string, now time.Time) (ConsumeResult, error) {
	v, err := t.visitors.Find(ctx, visitorID)
	if errors.Is(err, repository.ErrNotFound) {
		return ConsumeResult{Reason: ReasonPassNotFound}, nil
	}
	if err != nil {
		return ConsumeResult{}, storageErr("visitor lookup", err)
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		if v.Status != model.VisitorStatusActive {
			return ConsumeResult{Reason: ReasonPassNotFound, Visitor: v}, nil
		}
		if !sameDay(v.CreatedDate, now) {
			if err := t.visitors.MarkExpired(ctx, v.VisitorID); err != nil {
				return ConsumeResult{}, storageErr("visitor expiry", err)
			}
			return ConsumeResult{Reason: ReasonPassExpired, Visitor: v}, nil
		}
		if v.UsageCount >= v.MaxUses {
			return ConsumeResult{Reason: ReasonUsageLimit, Visitor: v}, nil
		}

		err := t.visitors.ConsumeUse(ctx, v.VisitorID, v.UsageCount)
		if err == nil {
			res := ConsumeResult{Consumed: true, NewUsageCount: v.UsageCount + 1, Visitor: v}
			res.Visitor.UsageCount = res.NewUsageCount
			return res, nil
		}
		if !errors.Is(err, repository.ErrUsageConflict) {
			return ConsumeResult{}, storageErr("visitor counter update", err)
		}

		// Lost the race; reload and re-evaluate against the fresh row.
		v, err = t.visitors.Find(ctx, v.VisitorID)
		if errors.Is(err, repository.ErrNotFound) {
			return ConsumeResult{Reason: ReasonPassNotFound}, nil
		}
		if err != nil {
			return ConsumeResult{}, storageErr("visitor lookup", err)
		}
	}
	return ConsumeResult{Reason: ReasonScanConflict, Visitor: v}, nil
}

// sameDay reports whether both timestamps fall on the same UTC
// calendar day. Visitor passes are valid only on their issue day.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
