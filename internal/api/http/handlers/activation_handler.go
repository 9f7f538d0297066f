package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront-admin/internal/api/dto"
	"github.com/spec-kit/storefront-admin/internal/service"
)

// ActivationHandler exposes the invitation consumption endpoints. Both are
// unauthenticated: the activation token is the credential.
type ActivationHandler struct {
	adminService *service.AdminService
}

// NewActivationHandler constructs handler.
func NewActivationHandler(adminService *service.AdminService) *ActivationHandler {
	return &ActivationHandler{adminService: adminService}
}

// Lookup handles GET /activation?token=...
func (h *ActivationHandler) Lookup(c *fiber.Ctx) error {
	admin, err := h.adminService.LookupActivation(c.UserContext(), c.Query("token"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": dto.PendingAccountResponse{
			Name:      admin.Name,
			Email:     admin.Email,
			Status:    string(admin.Status),
			ExpiresAt: *admin.ActivationTokenExpiry,
		},
	})
}

// Activate handles POST /activation.
func (h *ActivationHandler) Activate(c *fiber.Ctx) error {
	var req dto.ActivateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	admin, err := h.adminService.ActivateAccount(c.UserContext(), req.Token, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "account activated",
		"data":    dto.NewAdminResponse(admin),
	})
}
