package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-deflection/internal/domain"
)

// RequireOperator ensures an OPERATOR principal is present.
func RequireOperator() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeOperator || principal.Operator == nil {
			return fiber.NewError(http.StatusForbidden, "operator required")
		}
		return c.Next()
	}
}

// Optional returns the given handlers when enabled, or a pass-through otherwise.
func Optional(enabled bool, handlers ...fiber.Handler) []fiber.Handler {
	if enabled {
		return handlers
	}
	return []fiber.Handler{func(c *fiber.Ctx) error { return c.Next() }}
}
