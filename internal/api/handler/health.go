package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler handles GET /health, the liveness probe. It answers 200 as
// long as the process is serving.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Substrate is the embedded store's backend as seen by the readiness probe.
type Substrate interface {
	Name() string
	Ping(ctx context.Context) error
}

// DatabaseState reports whether the portal database has been declared
// unreachable.
type DatabaseState interface {
	InFallback() bool
}

// HealthDependenciesHandler handles GET /health/ready, the readiness probe.
// The embedded store must answer a ping. The portal database is reported but
// only degrades the status: the back office keeps working without it.
type HealthDependenciesHandler struct {
	store    Substrate
	database DatabaseState
}

func NewHealthDependenciesHandler(store Substrate, database DatabaseState) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{store: store, database: database}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness returns 200 "ok", 200 "degraded" when only the database is in
// fallback, or 503 "unavailable" when the store does not answer.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus, 2)
	status, httpStatus := "ok", http.StatusOK

	name := "store:" + h.store.Name()
	if err := h.store.Ping(ctx); err != nil {
		deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		status, httpStatus = "unavailable", http.StatusServiceUnavailable
	} else {
		deps[name] = dependencyStatus{Status: "ok"}
	}

	if h.database.InFallback() {
		deps["database"] = dependencyStatus{Status: "fallback"}
		if httpStatus == http.StatusOK {
			status = "degraded"
		}
	} else {
		deps["database"] = dependencyStatus{Status: "ok"}
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
