package service

import (
	"context"
	"fmt"
	"net/http"
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

// AuthService coordinates login and logout flows and issues bearer tokens.
type AuthService struct {
	admins     repository.AdminRepository
	tokenMgr   *auth.TokenManager
	verifier   *auth.Verifier
	limiter    LoginLimiter
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	AdminRepo  repository.AdminRepository
	Verifier   *auth.Verifier
	Limiter    LoginLimiter
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, tokenMgr *auth.TokenManager, deps AuthDependencies) *AuthService {
	return &AuthService{
		admins:     deps.AdminRepo,
		tokenMgr:   tokenMgr,
		verifier:   deps.Verifier,
		limiter:    deps.Limiter,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Login authenticates an administrator and mints a bearer token. A superadmin
// with a drifted status is repaired rather than rejected.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Administrator, string, time.Time, error) {
	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, email)
		if err != nil {
			// Throttle storage being down must not lock operators out.
			s.logger.Warn("login limiter unavailable, failing open", zap.Error(err))
		} else if !allowed {
			return nil, "", time.Time{}, apperrors.NewDomainError("TOO_MANY_ATTEMPTS",
				"too many login attempts, try again later", http.StatusTooManyRequests)
		}
	}

	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized(apperrors.CodeInvalidCredential, "invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	if admin.PasswordHash == "" {
		return nil, "", time.Time{}, apperrors.NewForbidden(apperrors.CodeAccountNotActive,
			"account is pending activation")
	}

	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized(apperrors.CodeInvalidCredential, "invalid credentials")
	}

	if admin.Status != domain.AdminStatusActive {
		if admin.AccessLevel == domain.AccessLevelSuperadmin {
			if err := s.verifier.RepairSuperadminStatus(ctx, admin); err != nil {
				return nil, "", time.Time{}, apperrors.MapError(err)
			}
		} else {
			return nil, "", time.Time{}, apperrors.NewForbidden(apperrors.CodeAccountNotActive,
				fmt.Sprintf("account is not active (status: %s)", admin.Status))
		}
	}

	token, expiresAt, err := s.tokenMgr.GenerateToken(admin)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	if err := s.admins.RecordLogin(ctx, admin.ID); err != nil {
		s.logger.Warn("failed to record login timestamp", zap.Int64("admin_id", admin.ID), zap.Error(err))
	}
	if s.limiter != nil {
		_ = s.limiter.Reset(ctx, email)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventAdminLoggedIn,
			AdminID:   admin.ID,
			Actor:     events.Actor{ActorID: &admin.ID, Email: admin.Email},
			Timestamp: time.Now(),
		})
	}

	return admin, token, expiresAt, nil
}

// Logout records the logout timestamp. Tokens are stateless and simply lapse.
func (s *AuthService) Logout(ctx context.Context, principal *auth.Principal) error {
	if principal == nil {
		return apperrors.NewUnauthorized(apperrors.CodeMissingCredential, "authentication required")
	}
	if err := s.admins.RecordLogout(ctx, principal.ID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
