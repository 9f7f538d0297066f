package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront-admin/internal/domain"
	apperrors "github.com/spec-kit/storefront-admin/pkg/util"
)

// RequireLevel ensures the authenticated principal meets the required tier.
func RequireLevel(required domain.AccessLevel) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized(apperrors.CodeMissingCredential, "authentication required")
		}
		if !domain.Sufficient(principal.AccessLevel, required) {
			return apperrors.NewForbidden(apperrors.CodeInsufficientPrivilege, "insufficient privilege")
		}
		return c.Next()
	}
}
