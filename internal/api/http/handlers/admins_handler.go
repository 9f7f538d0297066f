package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront-admin/internal/api/dto"
	"github.com/spec-kit/storefront-admin/internal/auth"
	"github.com/spec-kit/storefront-admin/internal/domain"
	"github.com/spec-kit/storefront-admin/internal/service"
	apperrors "github.com/spec-kit/storefront-admin/pkg/util"
)

// AdminsHandler exposes administrator management endpoints.
type AdminsHandler struct {
	adminService *service.AdminService
}

// NewAdminsHandler constructs handler.
func NewAdminsHandler(adminService *service.AdminService) *AdminsHandler {
	return &AdminsHandler{adminService: adminService}
}

// Invite handles POST /administrators.
func (h *AdminsHandler) Invite(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized(apperrors.CodeMissingCredential, "authentication required")
	}

	var req dto.InviteAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.adminService.InviteAdmin(c.UserContext(), principal, req.Name, req.Email, req.AccessLevel)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"admin":     dto.NewAdminResponse(result.Admin),
			"emailSent": result.EmailSent,
		},
	})
}

// List handles GET /administrators.
func (h *AdminsHandler) List(c *fiber.Ctx) error {
	admins, err := h.adminService.ListAdmins(c.UserContext())
	if err != nil {
		return err
	}

	resp := make([]dto.AdminResponse, 0, len(admins))
	for i := range admins {
		resp = append(resp, dto.NewAdminResponse(&admins[i]))
	}
	return c.JSON(fiber.Map{
		"success": true,
		"admins":  resp,
	})
}

// Get handles GET /administrators/:id.
func (h *AdminsHandler) Get(c *fiber.Ctx) error {
	id, err := parseAdminID(c)
	if err != nil {
		return err
	}
	admin, err := h.adminService.GetAdmin(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewAdminResponse(admin),
	})
}

// SetStatus handles PATCH /administrators/:id/status.
func (h *AdminsHandler) SetStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized(apperrors.CodeMissingCredential, "authentication required")
	}

	id, err := parseAdminID(c)
	if err != nil {
		return err
	}

	var req dto.SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	admin, err := h.adminService.SetStatus(c.UserContext(), principal, id, domain.AdminStatus(req.Status))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "status updated",
		"data":    dto.NewAdminResponse(admin),
	})
}

func parseAdminID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewNotFound(apperrors.CodeTargetNotFound, "administrator not found")
	}
	return id, nil
}
