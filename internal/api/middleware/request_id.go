package middleware

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/clientdesk/portal/internal/pkg/ids"
)

// RequestID tags every request with a UUIDv4 unless the caller sent one.
func RequestID() echo.MiddlewareFunc {
	return echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: ids.NewRequestID,
	})
}
