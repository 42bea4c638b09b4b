package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-deflection/internal/domain"
	apperrors "github.com/spec-kit/ticket-deflection/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	SubjectType domain.SubjectType
	Operator    *domain.Operator
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	operator string
}

// NewAuthMiddleware constructs middleware for the configured operator account.
func NewAuthMiddleware(tokens *TokenManager, operatorUsername string) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, operator: operatorUsername}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	principal := &Principal{SubjectType: claims.SubjectType}

	switch claims.SubjectType {
	case domain.SubjectTypeOperator:
		if claims.Subject != m.operator {
			return apperrors.NewUnauthorized("operator not recognized")
		}
		principal.Operator = &domain.Operator{Username: claims.Subject}
	default:
		return apperrors.NewUnauthorized("unknown subject")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// OperatorFromContext returns the authenticated operator, or nil.
func OperatorFromContext(c *fiber.Ctx) *domain.Operator {
	principal, ok := PrincipalFromContext(c)
	if !ok {
		return nil
	}
	return principal.Operator
}
