package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Renzzio/bulsu-gate-system/internal/model"
	"github.com/Renzzio/bulsu-gate-system/internal/repository"
	"github.com/Renzzio/bulsu-gate-system/internal/service"
)

// ViolationHandler exposes the two-phase annotation flow: the guard
// first receives a verdict, then optionally reports misconduct against
// that scan. Attaching a violation never alters the verdict already
// issued.
type ViolationHandler struct {
	Recorder   *service.ViolationRecorder
	Logs       *repository.AccessLogRepo
	Violations *repository.ViolationRepo
}

// NewViolationHandler constructs a ViolationHandler. All dependencies
// must be non-nil.
func NewViolationHandler(recorder *service.ViolationRecorder, logs *repository.AccessLogRepo, violations *repository.ViolationRepo) *ViolationHandler {
	if recorder == nil || logs == nil || violations == nil {
		panic("nil dependency passed to NewViolationHandler")
	}
	return &ViolationHandler{Recorder: recorder, Logs: logs, Violations: violations}
}

type violationRequest struct {
	ViolationType  string `json:"violation_type" validate:"required"`
	ViolationNotes string `json:"violation_notes"`
}

// Attach handles POST /v1/scans/:id/violations. The path parameter is
// the access log ID returned with the verdict. Returns 201 with the
// violation ID, 404 when the scan does not exist, and 503 when storage
// is unavailable; in the 503 case the guard retries the annotation
// only, never the scan itself.
func (h *ViolationHandler) Attach(c echo.Context) error {
	logID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || logID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid scan log id"})
	}
	var body violationRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "violation_type is required"})
	}
	if !model.ValidViolationType(body.ViolationType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown violation type"})
	}
	if body.ViolationType == model.ViolationOther && strings.TrimSpace(body.ViolationNotes) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "violation_notes is required for type Other"})
	}

	ctx := c.Request().Context()
	entry, err := h.Logs.FindByID(ctx, logID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "scan not found"})
	}
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable, please retry"})
	}

	id, err := h.Recorder.Record(ctx, service.ScanContext{
		LogID:    entry.ID,
		UserID:   entry.UserID,
		UserType: entry.UserType,
		GateID:   entry.GateID,
		ScanType: entry.ScanType,
	}, body.ViolationType, body.ViolationNotes, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable, please retry"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"violation_id": id})
}

// violationView is one row of the violation history listing.
type violationView struct {
	ViolationID uint64 `json:"violation_id"`
	LogID       uint64 `json:"log_id"`
	UserID      string `json:"user_id"`
	UserType    string `json:"user_type"`
	GateID      string `json:"gate_id"`
	ScanType    string `json:"scan_type"`
	Type        string `json:"type"`
	Notes       string `json:"notes,omitempty"`
	ReportedAt  string `json:"reported_at"`
}

// ListByUser handles GET /v1/violations?user_id=...&limit=... and
// returns the newest violations reported against a student or visitor.
func (h *ViolationHandler) ListByUser(c echo.Context) error {
	userID := strings.TrimSpace(c.QueryParam("user_id"))
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id is required"})
	}
	limit := 0
	if s := c.QueryParam("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}
	rows, err := h.Violations.ListByUser(c.Request().Context(), userID, limit)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable, please retry"})
	}
	out := make([]violationView, 0, len(rows))
	for _, v := range rows {
		out = append(out, violationView{
			ViolationID: v.ID,
			LogID:       v.LogID,
			UserID:      v.UserID,
			UserType:    v.UserType,
			GateID:      v.GateID,
			ScanType:    v.ScanType,
			Type:        v.Type,
			Notes:       v.Notes,
			ReportedAt:  v.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"violations": out})
}
