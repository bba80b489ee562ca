package service

import (
	"context"
	"time"

	"github.com/Renzzio/bulsu-gate-system/internal/model"
)

// ReasonNoClass is the deny reason used when no schedule entry covers
// the scan time.
const ReasonNoClass = "no class scheduled at this time"

// ReasonWrongCampus is the deny reason used when the student is
// enrolled at a different campus than the one owning the gate.
const ReasonWrongCampus = "gate belongs to a different campus"

// Match describes the schedule entry that justifies a student's
// presence at a gate, with the one-line summary written to the access
// log.
type Match struct {
	Entry   model.ScheduleEntry
	Summary string
}

// ScheduleMatcher decides whether a student has an active class
// session at the time of a scan. Grace windows around the session
// start and end are configuration, not business logic, so institutions
// can tune how early students may arrive and how long they may linger.
type ScheduleMatcher struct {
	schedules   ScheduleStore
	graceBefore time.Duration
	graceAfter  time.Duration
}

// NewScheduleMatcher returns a matcher using the given grace windows.
// The recommended defaults are 15 minutes before a session starts and
// none after it ends.
func NewScheduleMatcher(schedules ScheduleStore, graceBefore, graceAfter time.Duration) *ScheduleMatcher {
	return &ScheduleMatcher{schedules: schedules, graceBefore: graceBefore, graceAfter: graceAfter}
}

// MatchActiveSession returns the schedule entry justifying the scan,
// or nil plus the deny reasons when nothing matches. Cross-campus
// scans never match regardless of the student's schedule. When several
// sessions overlap the scan time, the one whose start is closest to
// now wins, with the lexicographically smaller room as tie-break so
// the selection is deterministic.
func (m *ScheduleMatcher) MatchActiveSession(ctx context.Context, student model.Student, gate model.Gate, now time.Time) (*Match, []string, error) {
	if student.CampusID != gate.CampusID {
		return nil, []string{ReasonWrongCampus}, nil
	}

	entries, err := m.schedules.ListByStudent(ctx, student.UserID)
	if err != nil {
		return nil, nil, storageErr("schedule lookup", err)
	}

	nowMin := now.Hour()*60 + now.Minute()
	graceBefore := int(m.graceBefore / time.Minute)
	graceAfter := int(m.graceAfter / time.Minute)

	var best *model.ScheduleEntry
	bestDist := 0
	for i := range entries {
		e := entries[i]
		if e.DayOfWeek != now.Weekday() {
			continue
		}
		start, ok := parseClock(e.StartTime)
		if !ok {
			continue // start < end and format are enforced at write time
		}
		end, ok := parseClock(e.EndTime)
		if !ok {
			continue
		}
		if nowMin < start-graceBefore || nowMin > end+graceAfter {
			continue
		}
		dist := start - nowMin
		if dist < 0 {
			dist = -dist
		}
		if best == nil || dist < bestDist || (dist == bestDist && e.Room < best.Room) {
			entry := e
			best = &entry
			bestDist = dist
		}
	}
	if best == nil {
		return nil, []string{ReasonNoClass}, nil
	}
	return &Match{Entry: *best, Summary: best.Summary()}, nil, nil
}

// parseClock converts an "HH:mm" wall-clock string to minutes of day.
func parseClock(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
