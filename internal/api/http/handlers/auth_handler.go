package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront-admin/internal/api/dto"
	"github.com/spec-kit/storefront-admin/internal/auth"
	"github.com/spec-kit/storefront-admin/internal/service"
	apperrors "github.com/spec-kit/storefront-admin/pkg/util"
)

// AuthHandler exposes login and logout endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	admin, token, expiresAt, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"admin": dto.NewAdminResponse(admin),
			"auth":  dto.AuthResponse{Token: token, ExpiresAt: expiresAt},
		},
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized(apperrors.CodeMissingCredential, "authentication required")
	}

	if err := h.authService.Logout(c.UserContext(), principal); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "logged out",
	})
}
