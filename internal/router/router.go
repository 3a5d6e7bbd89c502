package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // the Echo web framework handles routing
	"github.com/redis/go-redis/v9"

	"github.com/kelechi-obi/orgvault/internal/config"     // rate limiter settings
	"github.com/kelechi-obi/orgvault/internal/handler"    // the handlers implementing business logic
	"github.com/kelechi-obi/orgvault/internal/middleware" // JWT gate and rate limiting
	"github.com/kelechi-obi/orgvault/internal/repository" // user lookup for the gate
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the unauthenticated registration and login
// endpoints under /auth.  Both sit behind the redis token bucket since they
// are the natural brute-force target; the limiter degrades to pass-through
// when rdb is nil.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/auth", middleware.NewTokenBucket(rlCfg, rdb))
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
}

// RegisterAPI registers all protected endpoints under /api.  Every route in
// the group passes through the JWT gate, which verifies the bearer token
// and re-resolves the caller against the store before any handler runs.
func RegisterAPI(e *echo.Echo, jwtSecret string, users *repository.UserRepo, u *handler.UserHandler, o *handler.OrganisationHandler) {
	api := e.Group("/api")
	api.Use(middleware.JWTAuth(jwtSecret, users))

	api.GET("/users/:id", u.GetUser)
	api.PUT("/users/:id", u.UpdateUser)
	api.DELETE("/users/:id", u.DeleteUser)

	api.GET("/organisations", o.GetOrganisations)
	api.POST("/organisations", o.CreateOrganisation)
	api.GET("/organisations/:orgId", o.GetOrganisation)
	api.POST("/organisations/:orgId/users", o.AddUser)
}
