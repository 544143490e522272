// Package router wires HTTP routes to handlers.  Public endpoints are split
// from the admin surface, which sits behind bearer-token authentication.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-ticketing/internal/config"
	"github.com/iliyamo/event-ticketing/internal/handler"
	"github.com/iliyamo/event-ticketing/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication and no domain
// handlers.  Currently that is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the guest-facing endpoints under /v1.  These have
// no authentication: guests identify themselves in request bodies.  Read
// endpoints sit behind the short-TTL response cache; the write endpoints get
// the token-bucket rate limiter so a burst cannot exhaust an event's
// capacity checks.
func RegisterPublic(e *echo.Echo, ev *handler.EventHandler, g *handler.GuestHandler,
	t *handler.TicketHandler, rdb *redis.Client) {
	cache := middleware.ResponseCache(config.LoadCacheConfig(), rdb)
	limit := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)

	// Event browsing
	e.GET("/v1/events", ev.List, cache)
	e.GET("/v1/events/:id", ev.Get, cache)
	e.GET("/v1/events/:id/tickets/available", ev.Availability, cache)

	// Guest registration and self service
	e.POST("/v1/events/:id/guests", g.Register, limit)
	e.POST("/v1/events/:id/guests/lookup", g.Lookup, limit)
	e.POST("/v1/guests/status", g.StatusLookup, limit)
	e.PUT("/v1/guests/status", g.UpdateStatusByEmail, limit)

	// Ticket purchase and holder lookups
	e.POST("/v1/tickets", t.Issue, limit)
	e.POST("/v1/tickets/lookup", t.Consult, limit)
	e.GET("/v1/tickets/hash/:hash", t.GetByHash, limit)
}

// RegisterAdmin registers login/verify plus every protected admin endpoint.
// The protected group runs the AdminAuth middleware, which validates the
// bearer token's signature, expiry and role before any handler executes.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, ev *handler.EventHandler,
	g *handler.GuestHandler, t *handler.TicketHandler, jwtSecret string) {
	// Token issuance and verification are reachable without a session.
	e.POST("/v1/admin/login", a.Login)
	e.POST("/v1/admin/verify", a.Verify)

	auth := e.Group("/v1")
	auth.Use(middleware.AdminAuth(jwtSecret))

	// Event management
	auth.POST("/events", ev.Create)
	auth.PATCH("/events/:id", ev.Update)
	auth.DELETE("/events/:id", ev.Delete)
	auth.GET("/events/:id/guests", ev.ListGuests)

	// Guest management
	auth.PATCH("/guests/:id/status", g.UpdateStatusByID)

	// Ticket management
	auth.GET("/tickets", t.List)
	auth.GET("/tickets/stats", t.Stats)
	auth.PATCH("/tickets/:id/status", t.UpdateStatus)
	auth.DELETE("/tickets/:id", t.Delete)

	// Aggregated read models
	auth.GET("/admin/dashboard", a.Dashboard)
	auth.GET("/admin/parties", a.ListParties)
	auth.GET("/admin/statistics", a.Statistics)
}
