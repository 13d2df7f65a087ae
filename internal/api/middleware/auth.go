package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/clientdesk/portal/internal/core/domain"
)

// Keys under which Auth stores the token claims on the echo context.
const (
	CtxUserID   = "user_id"
	CtxRole     = "role"
	CtxClientID = "client_id"
)

// Auth validates an HS256 bearer token issued by the session provider. The
// "sub" claim becomes the acting user on the request context; "role" and
// "client_id" are copied onto the echo context for RBAC and portal scoping.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (any, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, _ := claims.GetSubject()
			if strings.TrimSpace(sub) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
			}
			role, _ := claims["role"].(string)
			clientID, _ := claims["client_id"].(string)

			c.Set(CtxUserID, sub)
			c.Set(CtxRole, role)
			c.Set(CtxClientID, clientID)

			ctx := domain.WithActor(c.Request().Context(), sub)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
