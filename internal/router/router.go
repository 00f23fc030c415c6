package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/recycle-connect/internal/config"
	"github.com/iliyamo/recycle-connect/internal/handler"
	"github.com/iliyamo/recycle-connect/internal/middleware"
	"github.com/iliyamo/recycle-connect/internal/model"
	"github.com/iliyamo/recycle-connect/internal/repository"
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance. Currently it exposes only a health
// check, used by load balancers to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI wires every marketplace endpoint. Register and login are
// public; everything else sits behind the session middleware.
// Listing mutations are restricted to collectors; transaction creation
// is restricted to transporters and buyers inside the handler, where
// the role also decides which party column the caller fills.
func RegisterAPI(
	e *echo.Echo,
	a *handler.AuthHandler,
	l *handler.ListingHandler,
	t *handler.TransactionHandler,
	users repository.UserStore,
	sessions repository.SessionStore,
	rdb *redis.Client,
	cacheCfg config.CacheConfig,
) {
	// Public auth endpoints.
	e.POST("/api/auth/register", a.Register)
	e.POST("/api/auth/login", a.Login)

	// Everything below requires a valid session cookie.
	api := e.Group("/api")
	api.Use(middleware.SessionAuth(sessions, users))

	api.POST("/auth/logout", a.Logout)
	api.GET("/auth/me", a.Me)
	api.PUT("/users/profile", a.UpdateProfile)

	// The marketplace browse endpoint is read-heavy; cache it when
	// Redis is around.
	api.GET("/listings/available", l.ListAvailable, middleware.ResponseCache(cacheCfg, rdb))

	collector := api.Group("/listings", middleware.RequireRole(model.RoleCollector))
	collector.POST("", l.Create)
	collector.GET("/collector", l.ListMine)
	collector.PUT("/:id", l.Update)
	collector.DELETE("/:id", l.Delete)

	api.POST("/transactions", t.Create)
	api.GET("/transactions", t.ListMine)
	api.PUT("/transactions/:id", t.Update)
}
