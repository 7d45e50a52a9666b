package router // package router wires HTTP routes to handlers and middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Salaheddine-dev01/factory/internal/config"
	"github.com/Salaheddine-dev01/factory/internal/handler"
	"github.com/Salaheddine-dev01/factory/internal/middleware"
	"github.com/Salaheddine-dev01/factory/internal/model"
)

// RegisterRoutes registers the unauthenticated health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the login and verify endpoints under /api/auth.
// Login is rate limited per client IP; verify checks the token in-handler
// so it needs no middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rdb *redis.Client) {
	g := e.Group("/api/auth")
	g.POST("/login", a.Login, middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	g.GET("/verify", a.Verify)
}

// RegisterInterventions registers the CRUD endpoints under
// /api/interventions.  Every route requires a valid session token; role
// and ownership rules are enforced inside the handlers because they
// depend on the target row.  The list endpoint carries the identity-keyed
// response cache.
func RegisterInterventions(e *echo.Echo, h *handler.InterventionHandler, jwtSecret string, rdb *redis.Client) {
	g := e.Group("/api/interventions")
	g.Use(middleware.JWTAuth(jwtSecret))

	g.GET("", h.List, middleware.NewListCache(config.LoadCacheConfig(), rdb))
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// RegisterExport registers the admin-only CSV export.
func RegisterExport(e *echo.Echo, h *handler.ExportHandler, jwtSecret string) {
	g := e.Group("/api/export")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))
	g.GET("/excel", h.Excel)
}
