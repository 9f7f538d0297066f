package dto

import (
	"time"

	"github.com/spec-kit/storefront-admin/internal/domain"
)

// InviteAdminRequest payload for creating an invitation.
type InviteAdminRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	AccessLevel string `json:"accessLevel"`
}

// SetStatusRequest payload for status transitions.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// ActivateRequest payload for consuming an invitation.
type ActivateRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries an issued bearer token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AdminResponse exposes the public fields of an administrator record.
type AdminResponse struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	AccessLevel   string     `json:"accessLevel"`
	Status        string     `json:"status"`
	Active        bool       `json:"active"`
	EmailVerified bool       `json:"emailVerified"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`
	LastLogout    *time.Time `json:"lastLogout,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// PendingAccountResponse summarizes an invitation awaiting activation.
type PendingAccountResponse struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewAdminResponse maps the domain record onto the wire shape.
func NewAdminResponse(admin *domain.Administrator) AdminResponse {
	return AdminResponse{
		ID:            admin.ID,
		Name:          admin.Name,
		Email:         admin.Email,
		AccessLevel:   string(admin.AccessLevel),
		Status:        string(admin.Status),
		Active:        admin.Active,
		EmailVerified: admin.EmailVerified,
		LastLogin:     admin.LastLogin,
		LastLogout:    admin.LastLogout,
		CreatedAt:     admin.CreatedAt,
		UpdatedAt:     admin.UpdatedAt,
	}
}
