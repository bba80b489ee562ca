package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Renzzio/bulsu-gate-system/internal/repository"
)

// LogsHandler exposes the read-only access log listing consumed by the
// dashboard. Entries are immutable; there is no write surface here.
type LogsHandler struct {
	Logs *repository.AccessLogRepo
}

// NewLogsHandler constructs a LogsHandler.
func NewLogsHandler(logs *repository.AccessLogRepo) *LogsHandler {
	if logs == nil {
		panic("nil repository passed to NewLogsHandler")
	}
	return &LogsHandler{Logs: logs}
}

// logView is one row of the access log listing.
type logView struct {
	LogID           uint64 `json:"log_id"`
	UserID          string `json:"user_id"`
	UserType        string `json:"user_type"`
	GateID          string `json:"gate_id"`
	CampusID        string `json:"campus_id,omitempty"`
	ScanType        string `json:"scan_type"`
	Allowed         bool   `json:"allowed"`
	ScheduleSummary string `json:"schedule_summary,omitempty"`
	ScannedAt       string `json:"scanned_at"`
}

// List handles GET /v1/logs. Optional query parameters: gate_id,
// user_id, allowed (true|false), limit. Results are newest first.
func (h *LogsHandler) List(c echo.Context) error {
	f := repository.LogFilter{
		GateID: strings.TrimSpace(c.QueryParam("gate_id")),
		UserID: strings.TrimSpace(c.QueryParam("user_id")),
	}
	if s := c.QueryParam("allowed"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "allowed must be true or false"})
		}
		f.Allowed = &b
	}
	if s := c.QueryParam("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			f.Limit = n
		}
	}

	rows, err := h.Logs.ListRecent(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable, please retry"})
	}
	out := make([]logView, 0, len(rows))
	for _, e := range rows {
		v := logView{
			LogID:     e.ID,
			UserID:    e.UserID,
			UserType:  e.UserType,
			GateID:    e.GateID,
			CampusID:  e.CampusID,
			ScanType:  e.ScanType,
			Allowed:   e.Allowed,
			ScannedAt: e.Timestamp.UTC().Format(time.RFC3339),
		}
		if e.ScheduleSummary != nil {
			v.ScheduleSummary = *e.ScheduleSummary
		}
		out = append(out, v)
	}
	return c.JSON(http.StatusOK, echo.Map{"logs": out})
}
