package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Renzzio/bulsu-gate-system/internal/model"
	"github.com/Renzzio/bulsu-gate-system/internal/queue"
	"github.com/Renzzio/bulsu-gate-system/internal/service"
)

// validate is shared by all handlers in this package. validator tags on
// the request DTOs replace hand-rolled field checks.
var validate = validator.New()

// ScanHandler exposes the gate scan endpoint. It owns no business
// logic; the authorization engine decides, and the handler translates
// between the HTTP contract and the engine's types. The VIS- prefix
// convention for visitor passes is resolved here, at the boundary.
type ScanHandler struct {
	Engine *service.Authorizer
}

// NewScanHandler constructs a ScanHandler. The engine must be non-nil.
func NewScanHandler(engine *service.Authorizer) *ScanHandler {
	if engine == nil {
		panic("nil engine passed to NewScanHandler")
	}
	return &ScanHandler{Engine: engine}
}

// scanRequest is the request body of POST /v1/scan. A guard may attach
// a violation in the same request; the violation never influences the
// verdict.
type scanRequest struct {
	IdentityRef    string `json:"identity_ref" validate:"required"`
	ScanType       string `json:"scan_type" validate:"required,oneof=entry exit"`
	GateID         string `json:"gate_id" validate:"required"`
	ViolationType  string `json:"violation_type"`
	ViolationNotes string `json:"violation_notes"`
}

// scanLogView is the log portion of the scan response.
type scanLogView struct {
	LogID           uint64 `json:"log_id"`
	UserName        string `json:"user_name,omitempty"`
	VisitorName     string `json:"visitor_name,omitempty"`
	ScheduleSummary string `json:"schedule_summary,omitempty"`
}

// scanResponse is the verdict returned to the guard station.
type scanResponse struct {
	Allowed           bool        `json:"allowed"`
	Message           string      `json:"message"`
	Reasons           []string    `json:"reasons,omitempty"`
	Log               scanLogView `json:"log"`
	UsageCount        uint32      `json:"usage_count,omitempty"`
	EmergencyBypass   bool        `json:"emergency_bypass,omitempty"`
	ViolationRecorded *bool       `json:"violation_recorded,omitempty"`
}

// Scan handles POST /v1/scan. Deny verdicts are 200 responses with
// allowed=false and a reason list; only infrastructure failures
// produce a 503, with a generic retry prompt and never a denial
// reason, so the guard can tell "denied" apart from "unknown, rescan".
func (h *ScanHandler) Scan(c echo.Context) error {
	var body scanRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.IdentityRef = strings.TrimSpace(body.IdentityRef)
	if err := validate.Struct(body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "identity_ref, scan_type (entry|exit) and gate_id are required"})
	}

	req := service.Request{
		IdentityRef: body.IdentityRef,
		Kind:        model.UserTypeStudent,
		GateID:      strings.TrimSpace(body.GateID),
		ScanType:    body.ScanType,
	}
	if strings.HasPrefix(body.IdentityRef, model.VisitorIDPrefix) {
		req.Kind = model.UserTypeVisitor
	}

	if body.ViolationType != "" {
		if !model.ValidViolationType(body.ViolationType) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown violation type"})
		}
		if body.ViolationType == model.ViolationOther && strings.TrimSpace(body.ViolationNotes) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "violation_notes is required for type Other"})
		}
		req.Violation = &service.ViolationReport{Type: body.ViolationType, Notes: body.ViolationNotes}
	}

	now := time.Now().UTC()
	verdict, err := h.Engine.Authorize(c.Request().Context(), req, now)
	if err != nil {
		var se *service.StorageError
		if errors.As(err, &se) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable, please rescan"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	// Advisory copy for downstream consumers; the access_logs row is
	// already durable, so a lost event is acceptable.
	ev := queue.ScanRecordedEvent{
		LogID:           verdict.LogID,
		UserID:          req.IdentityRef,
		UserType:        req.Kind,
		UserName:        verdict.DisplayName,
		GateID:          req.GateID,
		ScanType:        req.ScanType,
		Allowed:         verdict.Allowed,
		Reasons:         verdict.Reasons,
		ScheduleSummary: verdict.ScheduleSummary,
		UsageCount:      verdict.UsageCount,
		ScannedAt:       now.Format(time.RFC3339),
	}
	go func() { _ = queue.PublishScanRecorded(context.Background(), ev) }()

	resp := scanResponse{
		Allowed:         verdict.Allowed,
		Message:         verdict.Message,
		Reasons:         verdict.Reasons,
		UsageCount:      verdict.UsageCount,
		EmergencyBypass: verdict.EmergencyBypass,
		Log: scanLogView{
			LogID:           verdict.LogID,
			ScheduleSummary: verdict.ScheduleSummary,
		},
	}
	if req.Kind == model.UserTypeVisitor {
		resp.Log.VisitorName = verdict.DisplayName
	} else {
		resp.Log.UserName = verdict.DisplayName
	}
	if req.Violation != nil {
		recorded := verdict.ViolationRecorded
		resp.ViolationRecorded = &recorded
	}
	return c.JSON(http.StatusOK, resp)
}
