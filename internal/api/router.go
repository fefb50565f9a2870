package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/manaable/leave-api/docs"
	"github.com/manaable/leave-api/internal/api/handler"
	"github.com/manaable/leave-api/internal/api/middleware"
	"github.com/manaable/leave-api/internal/core/domain"
	"github.com/manaable/leave-api/internal/core/ports"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Auth    ports.AuthService
	Leave   ports.LeaveService
	Pingers []handler.Pinger
	Log     zerolog.Logger

	// CORSOrigins defaults to "*" when empty.
	CORSOrigins []string
	// Registerer receives the HTTP request metrics; nil means the default
	// Prometheus registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "leave_api",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	leaveHandler := handler.NewLeaveHandler(d.Leave)
	authMiddleware := middleware.Auth(d.Auth)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// --- Leave routes ---
	leave := e.Group("/api/leave", authMiddleware)
	leave.POST("", leaveHandler.Create)
	leave.GET("", leaveHandler.List)
	leave.PATCH("/:id", leaveHandler.Update, middleware.RBAC(domain.RoleManager, domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(d.Pingers...).Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
