package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/driveshare/auth-service/internal/auth/service"
	authconstant "github.com/driveshare/auth-service/pkg/constant"
)

const claimsCtxKey = "auth_claims"

// RequireAuth verifies the bearer access token and rejects requests whose
// session has been revoked.
func (h *AuthHandler) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != authconstant.BearerScheme || parts[1] == "" {
			return fail(c, fiber.StatusUnauthorized, "missing or malformed bearer token")
		}

		claims, err := h.userService.AuthorizeAccess(c.Context(), parts[1])
		if err != nil {
			return respondError(c, err)
		}

		c.Locals(claimsCtxKey, claims)
		return c.Next()
	}
}

func claimsFromCtx(c *fiber.Ctx) *service.JWTCustomClaims {
	claims, _ := c.Locals(claimsCtxKey).(*service.JWTCustomClaims)
	if claims == nil {
		return &service.JWTCustomClaims{}
	}
	return claims
}
