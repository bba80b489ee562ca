package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/Renzzio/bulsu-gate-system/internal/handler"
	"github.com/Renzzio/bulsu-gate-system/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication on
// the provided Echo instance. Currently that is only the health check,
// which load balancers and monitoring probe directly.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterGate registers the gate access API under /v1. Every route
// requires a bearer token issued by the administrative system; the
// scan and annotation endpoints accept guard and admin tokens, while
// pass issuance and the listings are admin surfaces that guards may
// also read. The extra middleware (typically the Redis token bucket)
// wraps the whole group.
func RegisterGate(
	e *echo.Echo,
	scan *handler.ScanHandler,
	violations *handler.ViolationHandler,
	visitors *handler.VisitorHandler,
	logs *handler.LogsHandler,
	jwtSecret string,
	extra ...echo.MiddlewareFunc,
) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(middleware.RoleGuard, middleware.RoleAdmin))
	for _, mw := range extra {
		g.Use(mw)
	}

	// The scan flow is two-phase: the guard gets a verdict, then may
	// annotate the same scan with a violation.
	g.POST("/scan", scan.Scan)
	g.POST("/scans/:id/violations", violations.Attach)

	// Read surfaces for the guard station and dashboard.
	g.GET("/logs", logs.List)
	g.GET("/violations", violations.ListByUser)

	// Day-pass issuance for the visitor desk.
	g.POST("/visitors", visitors.Issue)
}
