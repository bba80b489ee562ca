package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Renzzio/bulsu-gate-system/internal/model"
	"github.com/Renzzio/bulsu-gate-system/internal/service"
	"github.com/Renzzio/bulsu-gate-system/internal/service/memory"
)

// engineFixture bundles an Authorizer with the stores behind it so
// tests can seed data and inspect what was persisted.
type engineFixture struct {
	engine     *service.Authorizer
	students   *memory.StudentStore
	visitors   *memory.VisitorStore
	gates      *memory.GateStore
	schedules  *memory.ScheduleStore
	logs       *memory.AccessLogStore
	violations *memory.ViolationStore
}

func newEngine(t *testing.T) *engineFixture {
	t.Helper()
	f := &engineFixture{
		students: memory.NewStudentStore(testStudent()),
		visitors: memory.NewVisitorStore(testVisitor(2)),
		gates: memory.NewGateStore(
			model.Gate{GateID: "G1", Name: "Main Gate", CampusID: "MAIN", Type: model.GateTypeNormal, IsActive: true},
			model.Gate{GateID: "G-IN", Name: "Turnstile In", CampusID: "MAIN", Type: model.GateTypeEntrance, IsActive: true},
			model.Gate{GateID: "G-OUT", Name: "Turnstile Out", CampusID: "MAIN", Type: model.GateTypeExit, IsActive: true},
			model.Gate{GateID: "G-FIRE", Name: "Fire Exit", CampusID: "MAIN", Type: model.GateTypeEmergency, IsActive: true},
			model.Gate{GateID: "G-OFF", Name: "Old Gate", CampusID: "MAIN", Type: model.GateTypeNormal, IsActive: false},
			model.Gate{GateID: "G-NEW", Name: "Pilot Gate", CampusID: "MAIN", Type: model.GateType("turnstile_v2"), IsActive: true},
		),
		schedules:  memory.NewScheduleStore(),
		logs:       memory.NewAccessLogStore(),
		violations: memory.NewViolationStore(),
	}
	matcher := service.NewScheduleMatcher(f.schedules, 15*time.Minute, 0)
	tracker := service.NewPassTracker(f.visitors)
	recorder := service.NewViolationRecorder(f.violations)
	f.engine = service.NewAuthorizer(f.students, f.gates, matcher, tracker, recorder, f.logs)
	return f
}

func studentScan(gateID, scanType string) service.Request {
	return service.Request{
		IdentityRef: "2021-00123",
		Kind:        model.UserTypeStudent,
		GateID:      gateID,
		ScanType:    scanType,
	}
}

func visitorScan(gateID, scanType string) service.Request {
	return service.Request{
		IdentityRef: "VIS-test-pass",
		Kind:        model.UserTypeVisitor,
		GateID:      gateID,
		ScanType:    scanType,
	}
}

// requireOneLog asserts exactly one log entry exists and returns it.
func requireOneLog(t *testing.T, f *engineFixture) model.AccessLogEntry {
	t.Helper()
	entries := f.logs.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected exactly 1 access log entry, got %d", len(entries))
	}
	return entries[0]
}

func TestAuthorize_StudentAllowedDuringClass(t *testing.T) {
	f := newEngine(t)
	f.schedules.Add(mondayClass("R101", "08:00", "10:00"))

	v, err := f.engine.Authorize(context.Background(), studentScan("G1", model.ScanTypeEntry), mondayAt(8, 30))
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if !v.Allowed {
		t.Fatalf("expected allow, got deny with reasons %v", v.Reasons)
	}
	if v.Message != service.MsgGranted {
		t.Errorf("expected message %q, got %q", service.MsgGranted, v.Message)
	}
	if v.DisplayName != "Test Student" {
		t.Errorf("expected display name for the student, got %q", v.DisplayName)
	}
	if v.ScheduleSummary == "" {
		t.Error("expected a schedule summary on an allowed student entry")
	}
	if v.LogID == 0 {
		t.Error("expected the verdict to carry the log ID")
	}

	entry := requireOneLog(t, f)
	if !entry.Allowed || entry.GateID != "G1" || entry.ScanType != model.ScanTypeEntry {
		t.Errorf("log entry does not match verdict: %+v", entry)
	}
	if entry.UserType != model.UserTypeStudent {
		t.Errorf("expected user type student, got %q", entry.UserType)
	}
	if entry.ScheduleSummary == nil {
		t.Error("expected the log entry to carry the schedule summary")
	}
	if entry.CampusID != "MAIN" {
		t.Errorf("expected campus MAIN on the log entry, got %q", entry.CampusID)
	}
}

func TestAuthorize_StudentDeniedOutsideSchedule(t *testing.T) {
	f := newEngine(t)
	f.schedules.Add(mondayClass("R101", "08:00", "10:00"))

	v, err := f.engine.Authorize(context.Background(), studentScan("G1", model.ScanTypeEntry), mondayAt(14, 0))
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if v.Allowed {
		t.Fatal("expected deny outside the scheduled session")
	}
	if len(v.Reasons) != 1 || v.Reasons[0] != service.ReasonNoClass {
		t.Errorf("expected reason %q, got %v", service.ReasonNoClass, v.Reasons)
	}

	entry := requireOneLog(t, f)
	if entry.Allowed {
		t.Error("denied scan must be logged as denied")
	}
	if entry.ScheduleSummary != nil {
		t.Error("denied scan must not carry a schedule summary")
	}
}

func TestAuthorize_UnknownStudent(t *testing.T) {
	f := newEngine(t)

	req := studentScan("G1", model.ScanTypeEntry)
	req.IdentityRef = "1999-99999"
	v, err := f.engine.Authorize(context.Background(), req, mondayAt(8, 30))
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if v.Allowed {
		t.Fatal("expected deny for an unknown student")
	}
	if len(v.Reasons) != 1 || v.Reasons[0] != service.ReasonUnknownStudent {
		t.Errorf("expected reason %q, got %v", service.ReasonUnknownStudent, v.Reasons)
	}
	requireOneLog(t, f)
}

func TestAuthorize_EmergencyGateBypassesSchedule(t *testing.T) {
	f := newEngine(t)
	// No schedule entries at all; an emergency gate still opens.

	v, err := f.engine.Authorize(context.Background(), studentScan("G-FIRE", model.ScanTypeExit), mondayAt(23, 30))
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if !v.Allowed {
		t.Fatalf("expected emergency gate to allow, got reasons %v", v.Reasons)
	}
	if !v.EmergencyBypass {
		t.Error("expected the verdict to flag the emergency bypass")
	}
	if v.ScheduleSummary != "" {
		t.Error("emergency bypass must not fabricate a schedule summary")
	}
}

func TestAuthorize_GateDirection(t *testing.T) {
	f := newEngine(t)
	f.schedules.Add(mondayClass("R101", "08:00", "10:00"))

	cases := []struct {
		gateID   string
		scanType string
		allowed  bool
	}{
		{"G-IN", model.ScanTypeEntry, true},
		{"G-IN", model.ScanTypeExit, false},
		{"G-OUT", model.ScanTypeExit, true},
		{"G-OUT", model.ScanTypeEntry, false},
		{"G1", model.ScanTypeEntry, true},
		{"G1", model.ScanTypeExit, true},
		// An unrecognized gate type behaves like a normal gate.
		{"G-NEW", model.ScanTypeEntry, true},
		{"G-NEW", model.ScanTypeExit, true},
	}
	for _, tc := range cases {
		v, err := f.engine.Authorize(context.Background(), studentScan(tc.gateID, tc.scanType), mondayAt(8, 30))
		if err != nil {
			t.Fatalf("Authorize(%s %s): %v", tc.gateID, tc.scanType, err)
		}
		if v.Allowed != tc.allowed {
			t.Errorf("%s %s: expected allowed=%v, got %v (reasons %v)", tc.gateID, tc.scanType, tc.allowed, v.Allowed, v.Reasons)
		}
		if !tc.allowed && (len(v.Reasons) != 1 || v.Reasons[0] != service.ReasonWrongDirection) {
			t.Errorf("%s %s: expected reason %q, got %v", tc.gateID, tc.scanType, service.ReasonWrongDirection, v.Reasons)
		}
	}
}

func TestAuthorize_UnknownOrInactiveGate(t *testing.T) {
	f := newEngine(t)

	for _, gateID := range []string{"G-MISSING", "G-OFF"} {
		v, err := f.engine.Authorize(context.Background(), studentScan(gateID, model.ScanTypeEntry), mondayAt(8, 30))
		if err != nil {
			t.Fatalf("Authorize(%s): %v", gateID, err)
		}
		if v.Allowed {
			t.Errorf("%s: expected deny", gateID)
		}
		if len(v.Reasons) != 1 || v.Reasons[0] != service.ReasonUnknownGate {
			t.Errorf("%s: expected reason %q, got %v", gateID, service.ReasonUnknownGate, v.Reasons)
		}
	}
	// Both denied scans still reach the log.
	if got := len(f.logs.Entries()); got != 2 {
		t.Errorf("expected 2 log entries, got %d", got)
	}
}

func TestAuthorize_InvalidScanType(t *testing.T) {
	f := newEngine(t)

	req := studentScan("G1", "sideways")
	v, err := f.engine.Authorize(context.Background(), req, mondayAt(8, 30))
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if v.Allowed {
		t.Fatal("expected deny for an invalid scan type")
	}
	if len(v.Reasons) != 1 || v.Reasons[0] != service.ReasonInvalidScanType {
		t.Errorf("expected reason %q, got %v", service.ReasonInvalidScanType, v.Reasons)
	}
	requireOneLog(t, f)
}

func TestAuthorize_VisitorEntryThenExit(t *testing.T) {
	f := newEngine(t)

	v, err := f.engine.Authorize(context.Background(), visitorScan("G1", model.ScanTypeEntry), mondayAt(9, 0))
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if !v.Allowed || v.UsageCount != 1 {
		t.Fatalf("entry: expected allow with usage 1, got allowed=%v usage=%d", v.Allowed, v.UsageCount)
	}
	if v.DisplayName != "Test Visitor" {
		t.Errorf("expected visitor name on the verdict, got %q", v.DisplayName)
	}

	v, err = f.engine.Authorize(context.Background(), visitorScan("G1", model.ScanTypeExit), mondayAt(17, 0))
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if !v.Allowed || v.UsageCount != 2 {
		t.Fatalf("exit: expected allow with usage 2, got allowed=%v usage=%d", v.Allowed, v.UsageCount)
	}

	v, err = f.engine.Authorize(context.Background(), visitorScan("G1", model.ScanTypeEntry), mondayAt(18, 0))
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if v.Allowed {
		t.Fatal("expected third visitor scan to be denied")
	}
	if len(v.Reasons) != 1 || v.Reasons[0] != service.ReasonUsageLimit {
		t.Errorf("expected reason %q, got %v", service.ReasonUsageLimit, v.Reasons)
	}

	if got := len(f.logs.Entries()); got != 3 {
		t.Errorf("expected 3 log entries, got %d", got)
	}
}

func TestAuthorize_InlineViolationDoesNotFlipVerdict(t *testing.T) {
	f := newEngine(t)
	f.schedules.Add(mondayClass("R101", "08:00", "10:00"))

	req := studentScan("G1", model.ScanTypeEntry)
	req.Violation = &service.ViolationReport{Type: model.ViolationUniform}
	v, err := f.engine.Authorize(context.Background(), req, mondayAt(8, 30))
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if !v.Allowed {
		t.Fatal("a violation report must not turn an allow into a deny")
	}
	if !v.ViolationRecorded {
		t.Error("expected the violation to be recorded")
	}

	recorded := f.violations.Violations()
	if len(recorded) != 1 {
		t.Fatalf("expected 1 recorded violation, got %d", len(recorded))
	}
	if recorded[0].LogID != v.LogID {
		t.Errorf("violation log_id %d does not match verdict log %d", recorded[0].LogID, v.LogID)
	}
	if recorded[0].Type != model.ViolationUniform {
		t.Errorf("expected type %q, got %q", model.ViolationUniform, recorded[0].Type)
	}
}

func TestAuthorize_ViolationOnDeniedScan(t *testing.T) {
	f := newEngine(t)

	req := studentScan("G1", model.ScanTypeEntry) // no schedule: denied
	req.Violation = &service.ViolationReport{Type: model.ViolationDisruptive}
	v, err := f.engine.Authorize(context.Background(), req, mondayAt(8, 30))
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if v.Allowed {
		t.Fatal("expected deny")
	}
	if !v.ViolationRecorded {
		t.Error("violations attach to denied scans too")
	}
	if got := len(f.violations.Violations()); got != 1 {
		t.Errorf("expected 1 recorded violation, got %d", got)
	}
}

// failingLogStore rejects every append, simulating a database outage at
// the worst possible moment.
type failingLogStore struct{}

func (failingLogStore) Append(context.Context, *model.AccessLogEntry) error {
	return errors.New("connection refused")
}

func TestAuthorize_LogAppendFailureYieldsNoVerdict(t *testing.T) {
	f := newEngine(t)
	f.schedules.Add(mondayClass("R101", "08:00", "10:00"))
	matcher := service.NewScheduleMatcher(f.schedules, 15*time.Minute, 0)
	tracker := service.NewPassTracker(f.visitors)
	recorder := service.NewViolationRecorder(f.violations)
	engine := service.NewAuthorizer(f.students, f.gates, matcher, tracker, recorder, failingLogStore{})

	_, err := engine.Authorize(context.Background(), studentScan("G1", model.ScanTypeEntry), mondayAt(8, 30))
	if err == nil {
		t.Fatal("expected an error when the log append fails")
	}
	var se *service.StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected a *service.StorageError, got %T", err)
	}
}

// failingViolationStore rejects every violation append.
type failingViolationStore struct{}

func (failingViolationStore) Create(context.Context, *model.Violation) error {
	return errors.New("connection refused")
}

func TestAuthorize_InlineViolationFailureKeepsVerdict(t *testing.T) {
	f := newEngine(t)
	f.schedules.Add(mondayClass("R101", "08:00", "10:00"))
	matcher := service.NewScheduleMatcher(f.schedules, 15*time.Minute, 0)
	tracker := service.NewPassTracker(f.visitors)
	recorder := service.NewViolationRecorder(failingViolationStore{})
	engine := service.NewAuthorizer(f.students, f.gates, matcher, tracker, recorder, f.logs)

	req := studentScan("G1", model.ScanTypeEntry)
	req.Violation = &service.ViolationReport{Type: model.ViolationLate}
	v, err := engine.Authorize(context.Background(), req, mondayAt(8, 30))
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if !v.Allowed {
		t.Fatal("the logged verdict must survive a violation append failure")
	}
	if v.ViolationRecorded {
		t.Error("expected ViolationRecorded to be false after the append failure")
	}
	requireOneLog(t, f)
}
