package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-checks/internal/config"
	"github.com/iliyamo/restaurant-checks/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/restaurant-checks/internal/middleware" // JWT gate, request logging, cache and rate limit
	"github.com/iliyamo/restaurant-checks/internal/repository"
)

// Deps carries everything the routes need.  Redis may be nil, in which case
// caching and rate limiting are disabled; Events may be nil to skip
// publishing.
type Deps struct {
	Config    config.Config
	Store     *repository.Store
	Events    handler.EventPublisher
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Log       logrus.FieldLogger
}

// New builds an echo instance with the error handler, the global middleware
// and every route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler(d.Log)

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log))

	RegisterRoutes(e, d)
	return e
}

// RegisterRoutes maps every endpoint.  Only /healthz, user registration and
// login are reachable without a token.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health(d.Store.Ping))

	users := handler.NewUserHandler(d.Store.Users, d.Config.BcryptCost)
	auth := handler.NewAuthHandler(d.Store.Users, d.Config.JWTSecret, d.Config.JWTExpiry)
	checks := handler.NewCheckHandler(d.Store, d.Events, d.Log)
	catalog := handler.NewCatalogHandler(d.Store.Tables, d.Store.Items)

	api := e.Group("/api")
	api.POST("/users", users.Register)
	api.POST("/auth/login", auth.Login)

	// Everything below requires a valid Bearer token.
	gate := middleware.JWTAuth(d.Config.JWTSecret)
	api.POST("/auth/refresh", auth.Refresh, gate)
	api.GET("/protected", handler.Protected, gate)

	cache := middleware.NewRedisCache(d.Cache, d.Redis, d.Log)
	api.GET("/tables", catalog.ListTables, gate, cache)
	api.GET("/items", catalog.ListItems, gate, cache)

	g := api.Group("/checks", gate)
	g.GET("", checks.List)
	g.GET("/:id", checks.Get)
	g.POST("", checks.Create)
	g.PUT("/:id/addItem", checks.AddItem)
	g.PUT("/:id/removeItem", checks.RemoveItem)
	g.PUT("/:id/close", checks.Close)
}
