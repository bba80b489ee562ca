// Package memory provides in-memory implementations of the service
// store interfaces. They mirror the semantics of the MySQL
// repositories, including the conditional visitor counter update, and
// are intended for tests and dev environments.
package memory

import (
	"context"
	"sync"

	"github.com/Renzzio/bulsu-gate-system/internal/model"
	"github.com/Renzzio/bulsu-gate-system/internal/repository"
)

// StudentStore is an in-memory student directory.
type StudentStore struct {
	mu   sync.Mutex
	rows map[string]model.Student
}

// NewStudentStore returns a store seeded with the given students.
func NewStudentStore(students ...model.Student) *StudentStore {
	s := &StudentStore{rows: make(map[string]model.Student)}
	for _, st := range students {
		s.rows[st.UserID] = st
	}
	return s
}

// FindActive mirrors repository.StudentRepo: missing and inactive
// students both yield repository.ErrNotFound.
func (s *StudentStore) FindActive(_ context.Context, userID string) (model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.rows[userID]
	if !ok || st.Status != model.StudentStatusActive {
		return model.Student{}, repository.ErrNotFound
	}
	return st, nil
}

// VisitorStore is an in-memory visitor pass store with the same
// compare-and-swap counter semantics as the MySQL repository.
type VisitorStore struct {
	mu   sync.Mutex
	rows map[string]*model.Visitor
}

// NewVisitorStore returns a store seeded with the given passes.
func NewVisitorStore(visitors ...model.Visitor) *VisitorStore {
	s := &VisitorStore{rows: make(map[string]*model.Visitor)}
	for i := range visitors {
		v := visitors[i]
		s.rows[v.VisitorID] = &v
	}
	return s
}

func (s *VisitorStore) Find(_ context.Context, visitorID string) (model.Visitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.rows[visitorID]
	if !ok {
		return model.Visitor{}, repository.ErrNotFound
	}
	return *v, nil
}

// ConsumeUse increments the counter only when the stored value still
// equals expected, the pass is active and the quota is not exhausted,
// exactly like the conditional UPDATE in the MySQL repository.
func (s *VisitorStore) ConsumeUse(_ context.Context, visitorID string, expected uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.rows[visitorID]
	if !ok {
		return repository.ErrUsageConflict
	}
	if v.Status != model.VisitorStatusActive || v.UsageCount != expected || v.UsageCount >= v.MaxUses {
		return repository.ErrUsageConflict
	}
	v.UsageCount++
	return nil
}

func (s *VisitorStore) MarkExpired(_ context.Context, visitorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.rows[visitorID]; ok {
		v.Status = model.VisitorStatusExpired
	}
	return nil
}

// Get returns the current state of a pass. Test-only helper.
func (s *VisitorStore) Get(visitorID string) (model.Visitor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.rows[visitorID]
	if !ok {
		return model.Visitor{}, false
	}
	return *v, true
}

// GateStore is an in-memory gate directory.
type GateStore struct {
	mu   sync.Mutex
	rows map[string]model.Gate
}

// NewGateStore returns a store seeded with the given gates.
func NewGateStore(gates ...model.Gate) *GateStore {
	s := &GateStore{rows: make(map[string]model.Gate)}
	for _, g := range gates {
		s.rows[g.GateID] = g
	}
	return s
}

// FindByID mirrors repository.GateRepo: missing and out-of-service
// gates both yield repository.ErrNotFound.
func (s *GateStore) FindByID(_ context.Context, gateID string) (model.Gate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.rows[gateID]
	if !ok || !g.IsActive {
		return model.Gate{}, repository.ErrNotFound
	}
	return g, nil
}

// ScheduleStore is an in-memory schedule listing.
type ScheduleStore struct {
	mu      sync.Mutex
	entries map[string][]model.ScheduleEntry
}

// NewScheduleStore returns an empty schedule store.
func NewScheduleStore() *ScheduleStore {
	return &ScheduleStore{entries: make(map[string][]model.ScheduleEntry)}
}

// Add appends schedule entries for their respective students.
func (s *ScheduleStore) Add(entries ...model.ScheduleEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.entries[e.UserID] = append(s.entries[e.UserID], e)
	}
}

func (s *ScheduleStore) ListByStudent(_ context.Context, userID string) ([]model.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ScheduleEntry, len(s.entries[userID]))
	copy(out, s.entries[userID])
	return out, nil
}

// AccessLogStore is an in-memory append-only log of scan outcomes.
type AccessLogStore struct {
	mu      sync.Mutex
	entries []model.AccessLogEntry
	nextID  uint64
}

// NewAccessLogStore returns an empty log store.
func NewAccessLogStore() *AccessLogStore {
	return &AccessLogStore{}
}

func (s *AccessLogStore) Append(_ context.Context, e *model.AccessLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e.ID = s.nextID
	s.entries = append(s.entries, *e)
	return nil
}

// Entries returns a copy of all recorded entries. Test-only helper.
func (s *AccessLogStore) Entries() []model.AccessLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.AccessLogEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// ViolationStore is an in-memory append-only violation store.
type ViolationStore struct {
	mu     sync.Mutex
	rows   []model.Violation
	nextID uint64
}

// NewViolationStore returns an empty violation store.
func NewViolationStore() *ViolationStore {
	return &ViolationStore{}
}

func (s *ViolationStore) Create(_ context.Context, v *model.Violation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	v.ID = s.nextID
	s.rows = append(s.rows, *v)
	return nil
}

// Violations returns a copy of all recorded violations. Test-only helper.
func (s *ViolationStore) Violations() []model.Violation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Violation, len(s.rows))
	copy(out, s.rows)
	return out
}
