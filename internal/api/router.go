package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/coderr/marketplace/internal/api/handler"
	"github.com/coderr/marketplace/internal/api/middleware"
	"github.com/coderr/marketplace/internal/core/ports"
)

// Deps carries everything the router needs. Services are built in main.
type Deps struct {
	Logger    zerolog.Logger
	JWTSecret string

	Auth     ports.AuthService
	Profiles ports.ProfileService
	Offers   ports.OfferService
	Orders   ports.OrderService
	Reviews  ports.ReviewService
	Stats    ports.StatsService

	// Health maps a dependency name to its ping.
	Health map[string]handler.Pinger
	// Metrics enables the Prometheus middleware and /metrics. Off in tests
	// because the collectors live in the default registry.
	Metrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Logger))
	if d.Metrics {
		e.Use(echoprometheus.NewMiddleware("marketplace_http"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Health probes and docs (no auth) ---
	health := handler.NewHealthHandler(d.Health)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authHandler := handler.NewAuthHandler(d.Auth)
	profileHandler := handler.NewProfileHandler(d.Profiles)
	offerHandler := handler.NewOfferHandler(d.Offers)
	orderHandler := handler.NewOrderHandler(d.Orders)
	reviewHandler := handler.NewReviewHandler(d.Reviews)
	statsHandler := handler.NewStatsHandler(d.Stats)

	// Every /api route sees the token if there is one. Whether an anonymous
	// caller may proceed is decided by the access policy in the services.
	g := e.Group("/api", middleware.Auth(d.JWTSecret))

	g.POST("/registration", authHandler.Register)
	g.POST("/login", authHandler.Login)

	g.GET("/profile/:user_id", profileHandler.Get)
	g.PATCH("/profile/:user_id", profileHandler.Update)
	g.GET("/profiles/business", profileHandler.ListBusiness)
	g.GET("/profiles/customer", profileHandler.ListCustomer)

	g.GET("/offers", offerHandler.List)
	g.POST("/offers", offerHandler.Create)
	g.GET("/offers/:id", offerHandler.Get)
	g.PATCH("/offers/:id", offerHandler.Update)
	g.DELETE("/offers/:id", offerHandler.Delete)
	g.GET("/offerdetails/:id", offerHandler.GetPackage)

	g.GET("/orders", orderHandler.List)
	g.POST("/orders", orderHandler.Create)
	g.GET("/orders/:id", orderHandler.Get)
	g.PATCH("/orders/:id", orderHandler.Update)
	g.DELETE("/orders/:id", orderHandler.Delete)
	g.GET("/order-count/:business_user_id", orderHandler.OrderCount)
	g.GET("/completed-order-count/:business_user_id", orderHandler.CompletedOrderCount)

	g.GET("/reviews", reviewHandler.List)
	g.POST("/reviews", reviewHandler.Create)
	g.PATCH("/reviews/:id", reviewHandler.Update)
	g.DELETE("/reviews/:id", reviewHandler.Delete)

	g.GET("/base-info", statsHandler.BaseInfo)

	return e
}
