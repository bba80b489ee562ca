package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Renzzio/bulsu-gate-system/internal/model"
	"github.com/Renzzio/bulsu-gate-system/internal/repository"
)

// Deny reasons produced by the authorizer itself.
const (
	ReasonUnknownGate     = "unknown gate"
	ReasonWrongDirection  = "wrong gate direction"
	ReasonInvalidScanType = "invalid scan type"
	ReasonUnknownStudent  = "unknown or inactive student"
)

// Guard-facing verdict messages.
const (
	MsgGranted = "Access granted"
	MsgDenied  = "Access denied"
)

// ViolationReport is an optional misconduct note a guard attaches to a
// scan in the same request.
type ViolationReport struct {
	Type  string
	Notes string
}

// Request is one scan to authorize. Kind is the identity kind resolved
// by the caller (the VIS- prefix convention lives at the HTTP
// boundary, not here).
type Request struct {
	IdentityRef string
	Kind        string // model.UserTypeStudent or model.UserTypeVisitor
	GateID      string
	ScanType    string // model.ScanTypeEntry or model.ScanTypeExit
	Violation   *ViolationReport
}

// Verdict is the outcome of one scan. A Verdict is only ever returned
// together with a durable access log entry; LogID identifies it.
type Verdict struct {
	Allowed           bool
	Message           string
	Reasons           []string
	LogID             uint64
	DisplayName       string
	ScheduleSummary   string
	UsageCount        uint32 // visitor scans: usage count after this scan
	EmergencyBypass   bool
	ViolationRecorded bool
}

// Authorizer orchestrates the scan decision: directory lookups, the
// schedule matcher or pass tracker depending on identity kind, the
// audit log append, and the optional violation. Each scan is a single
// evaluation pass with no persisted intermediate state; the only
// narrower critical section is the visitor counter inside the tracker.
type Authorizer struct {
	students StudentDirectory
	gates    GateDirectory
	matcher  *ScheduleMatcher
	tracker  *PassTracker
	recorder *ViolationRecorder
	logs     AccessLogStore
}

// NewAuthorizer wires the engine. All dependencies must be non-nil.
func NewAuthorizer(
	students StudentDirectory,
	gates GateDirectory,
	matcher *ScheduleMatcher,
	tracker *PassTracker,
	recorder *ViolationRecorder,
	logs AccessLogStore,
) *Authorizer {
	if students == nil || gates == nil || matcher == nil || tracker == nil || recorder == nil || logs == nil {
		panic("nil dependency passed to NewAuthorizer")
	}
	return &Authorizer{
		students: students,
		gates:    gates,
		matcher:  matcher,
		tracker:  tracker,
		recorder: recorder,
		logs:     logs,
	}
}

// Authorize runs the decision state machine for one scan and returns
// the verdict. The access log append happens before the verdict is
// returned; when the append fails the engine returns a StorageError
// and no verdict, so the guard retries rather than trusting an
// unlogged grant. Business denials (unknown identity, wrong direction,
// no matching class, exhausted pass) are verdicts, never errors.
func (a *Authorizer) Authorize(ctx context.Context, req Request, now time.Time) (Verdict, error) {
	now = now.UTC()
	v := Verdict{}
	var campusID string

	switch {
	case req.ScanType != model.ScanTypeEntry && req.ScanType != model.ScanTypeExit:
		v.deny(ReasonInvalidScanType)
	default:
		gate, err := a.gates.FindByID(ctx, req.GateID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			v.deny(ReasonUnknownGate)
		case err != nil:
			return Verdict{}, storageErr("gate lookup", err)
		case !gate.Type.AcceptsScan(req.ScanType):
			campusID = gate.CampusID
			v.deny(ReasonWrongDirection)
		default:
			campusID = gate.CampusID
			if err := a.decide(ctx, req, gate, now, &v); err != nil {
				return Verdict{}, err
			}
		}
	}

	entry := model.AccessLogEntry{
		UserID:    req.IdentityRef,
		UserType:  req.Kind,
		GateID:    req.GateID,
		CampusID:  campusID,
		ScanType:  req.ScanType,
		Allowed:   v.Allowed,
		Timestamp: now,
	}
	if v.ScheduleSummary != "" {
		s := v.ScheduleSummary
		entry.ScheduleSummary = &s
	}
	if err := a.logs.Append(ctx, &entry); err != nil {
		return Verdict{}, storageErr("access log append", err)
	}
	v.LogID = entry.ID

	if req.Violation != nil {
		_, err := a.recorder.Record(ctx, ScanContext{
			LogID:    entry.ID,
			UserID:   req.IdentityRef,
			UserType: req.Kind,
			GateID:   req.GateID,
			ScanType: req.ScanType,
		}, req.Violation.Type, req.Violation.Notes, now)
		if err != nil {
			// The verdict is already logged and must reach the guard.
			// The annotation can be retried through the violations
			// endpoint, so the failure is reported, not propagated.
			log.Printf("authorizer: violation append failed for log %d: %v", entry.ID, err)
		} else {
			v.ViolationRecorded = true
		}
	}

	return v, nil
}

// decide evaluates the identity-specific branch of the state machine
// and fills the verdict in place. It never writes the access log.
func (a *Authorizer) decide(ctx context.Context, req Request, gate model.Gate, now time.Time, v *Verdict) error {
	switch req.Kind {
	case model.UserTypeStudent:
		student, err := a.students.FindActive(ctx, req.IdentityRef)
		if errors.Is(err, repository.ErrNotFound) {
			v.deny(ReasonUnknownStudent)
			return nil
		}
		if err != nil {
			return storageErr("student lookup", err)
		}
		v.DisplayName = student.FullName
		if gate.Type.BypassesSchedule() {
			v.allow()
			v.EmergencyBypass = true
			return nil
		}
		match, reasons, err := a.matcher.MatchActiveSession(ctx, student, gate, now)
		if err != nil {
			return err
		}
		if match == nil {
			v.deny(reasons...)
			return nil
		}
		v.allow()
		v.ScheduleSummary = match.Summary
		return nil

	case model.UserTypeVisitor:
		res, err := a.tracker.Consume(ctx, req.IdentityRef, now)
		if err != nil {
			return err
		}
		v.DisplayName = res.Visitor.FullName
		if !res.Consumed {
			v.deny(res.Reason)
			return nil
		}
		v.allow()
		v.UsageCount = res.NewUsageCount
		return nil

	default:
		v.deny(ReasonUnknownStudent)
		return nil
	}
}

func (v *Verdict) allow() {
	v.Allowed = true
	v.Message = MsgGranted
}

func (v *Verdict) deny(reasons ...string) {
	v.Allowed = false
	v.Message = MsgDenied
	v.Reasons = append(v.Reasons, reasons...)
}
