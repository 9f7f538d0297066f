package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/storefront-admin/internal/auth"
	"github.com/spec-kit/storefront-admin/internal/config"
	"github.com/spec-kit/storefront-admin/internal/domain"
	"github.com/spec-kit/storefront-admin/internal/events"
	"github.com/spec-kit/storefront-admin/internal/repository"
	apperrors "github.com/spec-kit/storefront-admin/pkg/util"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AdminService governs the administrator lifecycle: invitations, activation
// and status transitions.
type AdminService struct {
	admins        repository.AdminRepository
	mailer        Mailer
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	bcryptCost    int
	invitationTTL time.Duration
}

// AdminDependencies encapsulates collaborators for the admin service.
type AdminDependencies struct {
	AdminRepo  repository.AdminRepository
	Mailer     Mailer
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAdminService builds the service.
func NewAdminService(cfg config.Config, deps AdminDependencies) *AdminService {
	return &AdminService{
		admins:        deps.AdminRepo,
		mailer:        deps.Mailer,
		dispatcher:    deps.Dispatcher,
		logger:        deps.Logger,
		bcryptCost:    cfg.Auth.BcryptCost,
		invitationTTL: cfg.Auth.InvitationTTL(),
	}
}

// InviteResult reports the created record and whether the activation email
// went out.
type InviteResult struct {
	Admin     *domain.Administrator
	EmailSent bool
}

func requireSuperadmin(actor *auth.Principal) error {
	if actor == nil || !domain.Sufficient(actor.AccessLevel, domain.AccessLevelSuperadmin) {
		return apperrors.NewForbidden(apperrors.CodeInsufficientPrivilege, "superadmin privilege required")
	}
	return nil
}

// InviteAdmin creates a pending administrator and requests delivery of the
// activation email. If delivery fails the record is removed again before the
// error is reported, so no unreachable pending account is ever left behind.
func (s *AdminService) InviteAdmin(ctx context.Context, actor *auth.Principal, name, email, accessLevel string) (*InviteResult, error) {
	if err := requireSuperadmin(actor); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if len(name) < 3 {
		return nil, apperrors.NewValidation(apperrors.CodeInvalidName, "name must be at least 3 characters")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, apperrors.NewValidation(apperrors.CodeInvalidEmail, "invalid email address")
	}

	level := domain.AccessLevelEditor
	if accessLevel != "" {
		level = domain.AccessLevel(accessLevel)
		if !level.Valid() {
			return nil, apperrors.NewValidation(apperrors.CodeInvalidLevel, "invalid access level")
		}
	}

	if _, err := s.admins.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict(apperrors.CodeEmailTaken, "email already registered")
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	token, err := generateActivationToken()
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	expiry := time.Now().Add(s.invitationTTL)

	active, _ := domain.StatusFlags(domain.AdminStatusPending)
	admin := &domain.Administrator{
		Name:                  name,
		Email:                 email,
		PasswordHash:          "",
		AccessLevel:           level,
		Status:                domain.AdminStatusPending,
		Active:                active,
		EmailVerified:         false,
		ActivationToken:       &token,
		ActivationTokenExpiry: &expiry,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.mailer.SendActivationEmail(ctx, admin.Email, admin.Name, token); err != nil {
		s.logger.Error("activation email delivery failed, rolling back invitation",
			zap.Int64("admin_id", admin.ID),
			zap.Error(err))
		if delErr := s.admins.Delete(ctx, admin.ID); delErr != nil {
			s.logger.Error("failed to roll back pending administrator",
				zap.Int64("admin_id", admin.ID),
				zap.Error(delErr))
		}
		return nil, apperrors.NewDomainError(apperrors.CodeEmailDeliveryFailed,
			"failed to send activation email", http.StatusInternalServerError)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventAdminInvited,
		AdminID: admin.ID,
		Actor:   events.Actor{ActorID: &actor.ID, Email: actor.Email},
		Payload: events.AdminInvitedPayload{
			Email:       admin.Email,
			AccessLevel: admin.AccessLevel,
			ExpiresAt:   expiry,
		},
	})

	return &InviteResult{Admin: admin, EmailSent: true}, nil
}

// ActivateAccount consumes an activation token, sets the first password and
// moves the account to ACTIVE. The token is single-use: the update clears it.
func (s *AdminService) ActivateAccount(ctx context.Context, token, password string) (*domain.Administrator, error) {
	admin, err := s.lookupToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := auth.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	updated, err := s.admins.Activate(ctx, admin.ID, hash)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventAdminActivated,
		AdminID: updated.ID,
		Actor:   events.Actor{Email: updated.Email},
	})

	return updated, nil
}

// LookupActivation resolves a token to its pending account without consuming it.
func (s *AdminService) LookupActivation(ctx context.Context, token string) (*domain.Administrator, error) {
	return s.lookupToken(ctx, token)
}

func (s *AdminService) lookupToken(ctx context.Context, token string) (*domain.Administrator, error) {
	if token == "" {
		return nil, apperrors.NewValidation(apperrors.CodeInvalidToken, "invalid activation token")
	}
	admin, err := s.admins.GetByActivationToken(ctx, token)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewValidation(apperrors.CodeInvalidToken, "invalid activation token")
		}
		return nil, apperrors.MapError(err)
	}
	if admin.ActivationTokenExpiry == nil || time.Now().After(*admin.ActivationTokenExpiry) {
		return nil, apperrors.NewValidation(apperrors.CodeExpiredToken, "activation token expired")
	}
	return admin, nil
}

// SetStatus transitions an administrator's lifecycle status. Guards are
// evaluated in a fixed order: privilege, status validity, target existence,
// self-protection. The derived flags are written together with the status.
func (s *AdminService) SetStatus(ctx context.Context, actor *auth.Principal, targetID int64, newStatus domain.AdminStatus) (*domain.Administrator, error) {
	if err := requireSuperadmin(actor); err != nil {
		return nil, err
	}

	if !newStatus.Valid() {
		return nil, apperrors.NewValidation(apperrors.CodeInvalidStatus, "invalid status value")
	}

	target, err := s.admins.GetByID(ctx, targetID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound(apperrors.CodeTargetNotFound, "administrator not found")
		}
		return nil, apperrors.MapError(err)
	}

	// An administrator may reactivate themselves but never take down their
	// own live session.
	if actor.ID == targetID && newStatus != domain.AdminStatusActive {
		return nil, apperrors.NewForbidden(apperrors.CodeSelfDeactivationForbidden,
			"administrators cannot deactivate their own account")
	}

	active, emailVerified := domain.StatusFlags(newStatus)
	updated, err := s.admins.UpdateStatus(ctx, targetID, newStatus, active, emailVerified)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventAdminStatusChanged,
		AdminID: updated.ID,
		Actor:   events.Actor{ActorID: &actor.ID, Email: actor.Email},
		Payload: events.AdminStatusChangedPayload{
			OldStatus: target.Status,
			NewStatus: updated.Status,
		},
	})

	return updated, nil
}

// ListAdmins returns all administrator records.
func (s *AdminService) ListAdmins(ctx context.Context) ([]domain.Administrator, error) {
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return admins, nil
}

// GetAdmin fetches a single administrator.
func (s *AdminService) GetAdmin(ctx context.Context, id int64) (*domain.Administrator, error) {
	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound(apperrors.CodeTargetNotFound, "administrator not found")
		}
		return nil, apperrors.MapError(err)
	}
	return admin, nil
}

func (s *AdminService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}

func generateActivationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
