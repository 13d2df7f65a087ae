package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/clientdesk/portal/internal/api/docs"
	"github.com/clientdesk/portal/internal/api/handler"
	"github.com/clientdesk/portal/internal/api/middleware"
	"github.com/clientdesk/portal/internal/core/domain"
	"github.com/clientdesk/portal/internal/core/ports"
	"github.com/clientdesk/portal/internal/core/service"
)

// Deps is everything the HTTP surface needs from the process.
type Deps struct {
	Store     *service.Store
	Portal    ports.PortalDataService
	Audit     handler.ActivityQueue
	Substrate handler.Substrate
	Database  handler.DatabaseState
	JWTSecret string
	RateLimit float64 // requests per second per client IP; 0 disables
	Log       zerolog.Logger

	// Registerer and Gatherer back the HTTP metrics. Nil uses the
	// prometheus defaults.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLog(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/swagger")
		},
	}))
	e.Use(middleware.RateLimit(d.RateLimit))

	// --- Probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Substrate, d.Database)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – is the store reachable?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	auth := middleware.Auth(d.JWTSecret)

	// --- Back office ---
	users := handler.NewUserHandler(d.Store.Users)
	clients := handler.NewClientHandler(d.Store.Clients)
	projects := handler.NewProjectHandler(d.Store.Projects)
	resources := handler.NewResourceHandler(d.Store.Resources)
	activities := handler.NewActivityHandler(d.Store.Activities)
	notifications := handler.NewNotificationHandler(d.Store.Notifications)
	stats := handler.NewStatsHandler(d.Store.Stats)

	staff := e.Group("/v1", auth, middleware.RBAC(domain.RoleAdmin, domain.RoleManager))

	staff.GET("/users", users.List)
	staff.POST("/users", users.Create)
	staff.GET("/users/:id", users.Get)
	staff.PATCH("/users/:id", users.Update)
	staff.PUT("/users/:id/active", users.SetActive)
	staff.PUT("/users/:id/permissions", users.SetPermissions)
	staff.DELETE("/users/:id", users.Delete)

	staff.GET("/clients", clients.List)
	staff.POST("/clients", clients.Create)
	staff.POST("/clients/with-account", clients.CreateWithAccount)
	staff.GET("/clients/:id", clients.Get)
	staff.PATCH("/clients/:id", clients.Update)
	staff.PUT("/clients/:id/status", clients.UpdateStatus)
	staff.DELETE("/clients/:id", clients.Delete)
	staff.GET("/clients/:id/notifications", notifications.ByClient)
	staff.POST("/clients/:id/notifications/read-all", notifications.MarkAllReadForClient)

	staff.GET("/projects", projects.List)
	staff.POST("/projects", projects.Create)
	staff.GET("/projects/:id", projects.Get)
	staff.PATCH("/projects/:id", projects.Update)
	staff.DELETE("/projects/:id", projects.Delete)

	staff.GET("/resources", resources.List)
	staff.POST("/resources", resources.Create)
	staff.GET("/resources/:id", resources.Get)
	staff.PATCH("/resources/:id", resources.Update)
	staff.DELETE("/resources/:id", resources.Delete)

	staff.GET("/activities", activities.List)
	staff.GET("/activities/:entity_type/:entity_id", activities.ByEntity)

	staff.GET("/notifications", notifications.Mine)
	staff.POST("/notifications", notifications.Create)
	staff.GET("/notifications/unread-count", notifications.UnreadCount)
	staff.POST("/notifications/read-all", notifications.MarkAllRead)
	staff.POST("/notifications/:id/read", notifications.MarkRead)

	staff.GET("/stats", stats.Dashboard)
	staff.GET("/stats/clients", stats.Clients)
	staff.GET("/stats/projects", stats.Projects)
	staff.GET("/stats/resources", stats.Resources)
	staff.GET("/stats/users", stats.Users)

	// --- Portal database, back-office mirror ---
	portal := handler.NewPortalHandler(d.Portal, d.Audit)

	remote := staff.Group("/remote")
	remote.GET("/clients", portal.ListClients)
	remote.POST("/clients", portal.CreateClient)
	remote.GET("/clients/:id", portal.GetClient)
	remote.DELETE("/clients/:id", portal.DeleteClient)
	remote.GET("/clients/:id/projects", portal.ClientProjects)
	remote.POST("/projects", portal.CreateProject)
	remote.GET("/activities", portal.RecentActivities)
	remote.POST("/notifications", portal.CreateNotification)
	remote.GET("/stats/clients", portal.ClientStats)

	// --- Client portal ---
	clientArea := e.Group("/v1/portal", auth, middleware.RBAC(domain.RoleClient))
	clientArea.GET("/client", portal.Client)
	clientArea.GET("/projects", portal.Projects)
	clientArea.GET("/activities", portal.Activities)
	clientArea.GET("/notifications", portal.Notifications)
	clientArea.POST("/notifications/:id/read", portal.MarkNotificationRead)

	return e
}
