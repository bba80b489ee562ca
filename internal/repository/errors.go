// Package repository defines error values that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// authorization engine to distinguish between failure scenarios. For
// example, ErrNotFound covers both a missing row and an entity whose
// status makes it invisible to the gate engine (an inactive student, a
// deactivated gate), while ErrUsageConflict signals that a conditional
// visitor counter update lost a race and should be retried.
package repository

import "errors"

// ErrNotFound is returned by lookup methods when the requested entity
// does not exist or is not in a state the gate engine may act on.
// Callers must treat it as "cannot authorize", never as a silent deny.
var ErrNotFound = errors.New("not found")

// ErrUsageConflict is returned by VisitorRepo.ConsumeUse when the
// stored usage count no longer matches the expected value, meaning a
// concurrent scan consumed the pass first. Callers re-read the row and
// retry a bounded number of times.
var ErrUsageConflict = errors.New("usage count changed concurrently")
