// Package queue defines message payloads exchanged over the message broker
// plus the publisher and background consumer for scan events. The MySQL
// access_logs row is the durable audit record; the broker event is an
// advisory copy for downstream consumers, so publish failures are logged
// and otherwise ignored.
package queue

// ScanRecordedEvent is published after every scan verdict, allowed or
// denied. It carries enough information for downstream consumers to
// log, notify, or feed analytics without querying the primary database.
type ScanRecordedEvent struct {
	LogID           uint64   `json:"log_id"`
	UserID          string   `json:"user_id"`
	UserType        string   `json:"user_type"`
	UserName        string   `json:"user_name,omitempty"`
	GateID          string   `json:"gate_id"`
	CampusID        string   `json:"campus_id,omitempty"`
	ScanType        string   `json:"scan_type"`
	Allowed         bool     `json:"allowed"`
	Reasons         []string `json:"reasons,omitempty"`
	ScheduleSummary string   `json:"schedule_summary,omitempty"`
	UsageCount      uint32   `json:"usage_count,omitempty"`
	ScannedAt       string   `json:"scanned_at"`
}
