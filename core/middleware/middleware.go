package middleware

import (
	"strings"

	"meetup-api/core/controller"
	"meetup-api/core/errors"
	"meetup-api/core/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "role"

	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Middleware struct{}

func New() *Middleware {
	return &Middleware{}
}

// AuthMiddleware validates the Bearer token and injects user id and role
// into the request context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return controller.NewErrorResponse(401, errors.ErrMissingAuthorizationHeader, "missing authorization header")
			}

			token := strings.TrimPrefix(header, "Bearer ")
			if token == header {
				return controller.NewErrorResponse(401, errors.ErrInvalidTokenFormat, "invalid token format")
			}

			tokenData, err := utils.ValidateAndParseToken(token)
			if err != nil {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "invalid or expired token")
			}

			c.Set(ContextKeyUserID, tokenData.UserID)
			c.Set(ContextKeyRole, tokenData.Role)
			return next(c)
		}
	}
}

// AdminMiddleware requires an authenticated admin. Must be chained after
// AuthMiddleware.
func (m *Middleware) AdminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if RoleFromContext(c) != RoleAdmin {
				return controller.NewErrorResponse(403, errors.ErrForbidden, "admin access required")
			}
			return next(c)
		}
	}
}

// UserIDFromContext returns the authenticated user's id, or uuid.Nil.
func UserIDFromContext(c echo.Context) uuid.UUID {
	if id, ok := c.Get(ContextKeyUserID).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// RoleFromContext returns the authenticated user's role, or "".
func RoleFromContext(c echo.Context) string {
	if role, ok := c.Get(ContextKeyRole).(string); ok {
		return role
	}
	return ""
}
