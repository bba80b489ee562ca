package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Renzzio/bulsu-gate-system/internal/model"
	"github.com/Renzzio/bulsu-gate-system/internal/repository"
)

// VisitorHandler issues day-scoped visitor passes. The returned token
// is what the admin station renders as a QR code; this service only
// generates and stores it.
type VisitorHandler struct {
	Visitors       *repository.VisitorRepo
	Gates          *repository.GateRepo
	DefaultMaxUses uint32
}

// NewVisitorHandler constructs a VisitorHandler. The gate repository is
// used to validate the campus a pass is issued for.
func NewVisitorHandler(visitors *repository.VisitorRepo, gates *repository.GateRepo, defaultMaxUses uint32) *VisitorHandler {
	if visitors == nil || gates == nil {
		panic("nil repository passed to NewVisitorHandler")
	}
	if defaultMaxUses == 0 {
		defaultMaxUses = 2
	}
	return &VisitorHandler{Visitors: visitors, Gates: gates, DefaultMaxUses: defaultMaxUses}
}

type issuePassRequest struct {
	FullName string `json:"full_name" validate:"required"`
	CampusID string `json:"campus_id" validate:"required"`
	MaxUses  uint32 `json:"max_uses"`
}

// Issue handles POST /v1/visitors. It generates a fresh VIS- token,
// valid for the rest of the current UTC day and for the requested
// number of scans (default: one entry plus one exit).
func (h *VisitorHandler) Issue(c echo.Context) error {
	var body issuePassRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name and campus_id are required"})
	}
	maxUses := body.MaxUses
	if maxUses == 0 {
		maxUses = h.DefaultMaxUses
	}

	ctx := c.Request().Context()
	if _, err := h.Gates.FindCampus(ctx, body.CampusID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown campus"})
		}
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable, please retry"})
	}

	now := time.Now().UTC()
	v := model.Visitor{
		VisitorID:   model.VisitorIDPrefix + uuid.NewString(),
		FullName:    body.FullName,
		CampusID:    body.CampusID,
		MaxUses:     maxUses,
		Status:      model.VisitorStatusActive,
		CreatedDate: now,
	}
	if err := h.Visitors.Create(ctx, &v); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable, please retry"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"visitor_id":   v.VisitorID,
		"full_name":    v.FullName,
		"campus_id":    v.CampusID,
		"max_uses":     v.MaxUses,
		"created_date": now.Format("2006-01-02"),
	})
}
