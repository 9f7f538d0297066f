package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/storefront-admin/internal/domain"
	"github.com/spec-kit/storefront-admin/internal/events"
	"github.com/spec-kit/storefront-admin/internal/repository"
	apperrors "github.com/spec-kit/storefront-admin/pkg/util"
)

// Principal represents the authenticated caller.
type Principal struct {
	ID          int64
	Email       string
	AccessLevel domain.AccessLevel
}

// Verifier turns a bearer credential into an authenticated principal. It is
// read-only except for the superadmin status repair.
type Verifier struct {
	tokens     *TokenManager
	admins     repository.AdminRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewVerifier constructs the verifier.
func NewVerifier(tokens *TokenManager, admins repository.AdminRepository, dispatcher events.Dispatcher, logger *zap.Logger) *Verifier {
	return &Verifier{tokens: tokens, admins: admins, dispatcher: dispatcher, logger: logger}
}

// Verify validates the credential, loads the administrator record and checks
// its lifecycle status. Superadmins are never rejected for a stale status;
// the record is repaired instead.
func (v *Verifier) Verify(ctx context.Context, credential string) (*Principal, error) {
	if credential == "" {
		return nil, apperrors.NewUnauthorized(apperrors.CodeMissingCredential, "missing credentials")
	}

	claims, err := v.tokens.ParseToken(credential)
	if err != nil {
		if err == ErrTokenExpired {
			return nil, apperrors.NewUnauthorized(apperrors.CodeExpiredCredential, "credentials expired")
		}
		return nil, apperrors.NewUnauthorized(apperrors.CodeInvalidCredential, "invalid credentials")
	}

	admin, err := v.admins.GetByID(ctx, claims.AdminID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound(apperrors.CodeSubjectNotFound, "administrator not found")
		}
		return nil, apperrors.MapError(err)
	}

	if admin.AccessLevel == domain.AccessLevelSuperadmin {
		if admin.Status != domain.AdminStatusActive {
			if err := v.RepairSuperadminStatus(ctx, admin); err != nil {
				return nil, apperrors.MapError(err)
			}
		}
	} else if admin.Status != domain.AdminStatusActive {
		return nil, apperrors.NewForbidden(apperrors.CodeAccountNotActive,
			fmt.Sprintf("account is not active (status: %s)", admin.Status))
	}

	return &Principal{ID: admin.ID, Email: admin.Email, AccessLevel: admin.AccessLevel}, nil
}

// RepairSuperadminStatus resets a superadmin whose status field has drifted
// back to ACTIVE. The repair is logged and published as an audit event so the
// mutation stays visible to operators.
func (v *Verifier) RepairSuperadminStatus(ctx context.Context, admin *domain.Administrator) error {
	previous := admin.Status
	verified := true
	updated, err := v.admins.UpdateStatus(ctx, admin.ID, domain.AdminStatusActive, true, &verified)
	if err != nil {
		return err
	}
	*admin = *updated

	v.logger.Warn("repaired superadmin status",
		zap.Int64("admin_id", admin.ID),
		zap.String("previous_status", string(previous)))

	if v.dispatcher != nil {
		_ = v.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventSuperadminRepaired,
			AdminID:   admin.ID,
			Actor:     events.Actor{ActorID: &admin.ID, Email: admin.Email},
			Timestamp: time.Now(),
			Payload:   events.SuperadminRepairedPayload{PreviousStatus: previous},
		})
	}
	return nil
}
