package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/storefront-admin/internal/auth"
	"github.com/spec-kit/storefront-admin/internal/domain"
	"github.com/spec-kit/storefront-admin/internal/repository/repotest"
	"github.com/spec-kit/storefront-admin/internal/service"
	apperrors "github.com/spec-kit/storefront-admin/pkg/util"
)

type fakeLimiter struct {
	allowed bool
	resets  []string
}

func (l *fakeLimiter) Allow(context.Context, string) (bool, error) {
	return l.allowed, nil
}

func (l *fakeLimiter) Reset(_ context.Context, email string) error {
	l.resets = append(l.resets, email)
	return nil
}

func newTestAuthService(repo *repotest.MemAdminRepo, limiter service.LoginLimiter) (*service.AuthService, *auth.TokenManager) {
	tm := auth.NewTokenManager("test-secret", 60)
	dispatcher := &recordingDispatcher{}
	verifier := auth.NewVerifier(tm, repo, dispatcher, zap.NewNop())
	svc := service.NewAuthService(testConfig(), tm, service.AuthDependencies{
		AdminRepo:  repo,
		Verifier:   verifier,
		Limiter:    limiter,
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})
	return svc, tm
}

func seedWithPassword(t *testing.T, repo *repotest.MemAdminRepo, email string, level domain.AccessLevel, status domain.AdminStatus) domain.Administrator {
	t.Helper()
	hash, err := auth.HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)
	return repo.Seed(domain.Administrator{
		Name:          "Operator",
		Email:         email,
		PasswordHash:  hash,
		AccessLevel:   level,
		Status:        status,
		Active:        status == domain.AdminStatusActive,
		EmailVerified: true,
	})
}

func TestLoginSuccess(t *testing.T) {
	repo := repotest.NewMemAdminRepo()
	limiter := &fakeLimiter{allowed: true}
	svc, tm := newTestAuthService(repo, limiter)

	seeded := seedWithPassword(t, repo, "carla@example.com", domain.AccessLevelAdmin, domain.AdminStatusActive)

	admin, token, expiresAt, err := svc.Login(context.Background(), "carla@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, admin.ID)
	assert.False(t, expiresAt.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, claims.AdminID)
	assert.Equal(t, domain.AccessLevelAdmin, claims.AccessLevel)

	stored, err := repo.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)

	assert.Equal(t, []string{"carla@example.com"}, limiter.resets)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := repotest.NewMemAdminRepo()
	svc, _ := newTestAuthService(repo, nil)
	seedWithPassword(t, repo, "carla@example.com", domain.AccessLevelAdmin, domain.AdminStatusActive)

	_, _, _, err := svc.Login(context.Background(), "carla@example.com", "wrong")
	assert.Equal(t, apperrors.CodeInvalidCredential, apperrors.CodeOf(err))
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService(repotest.NewMemAdminRepo(), nil)
	_, _, _, err := svc.Login(context.Background(), "ghost@example.com", "secret123")
	assert.Equal(t, apperrors.CodeInvalidCredential, apperrors.CodeOf(err))
}

func TestLoginPendingAccountRejected(t *testing.T) {
	repo := repotest.NewMemAdminRepo()
	svc, _ := newTestAuthService(repo, nil)
	repo.Seed(domain.Administrator{
		Email:       "pending@example.com",
		AccessLevel: domain.AccessLevelEditor,
		Status:      domain.AdminStatusPending,
	})

	_, _, _, err := svc.Login(context.Background(), "pending@example.com", "secret123")
	assert.Equal(t, apperrors.CodeAccountNotActive, apperrors.CodeOf(err))
}

func TestLoginSuspendedEditorRejected(t *testing.T) {
	repo := repotest.NewMemAdminRepo()
	svc, _ := newTestAuthService(repo, nil)
	seedWithPassword(t, repo, "editor@example.com", domain.AccessLevelEditor, domain.AdminStatusSuspended)

	_, _, _, err := svc.Login(context.Background(), "editor@example.com", "secret123")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeAccountNotActive, apperrors.CodeOf(err))
	assert.Contains(t, err.Error(), string(domain.AdminStatusSuspended))
}

func TestLoginSuspendedSuperadminIsRepaired(t *testing.T) {
	repo := repotest.NewMemAdminRepo()
	svc, _ := newTestAuthService(repo, nil)
	seeded := seedWithPassword(t, repo, "root@example.com", domain.AccessLevelSuperadmin, domain.AdminStatusSuspended)

	admin, token, _, err := svc.Login(context.Background(), "root@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, domain.AdminStatusActive, admin.Status)

	stored, err := repo.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AdminStatusActive, stored.Status)
	assert.True(t, stored.Active)
}

func TestLoginThrottled(t *testing.T) {
	repo := repotest.NewMemAdminRepo()
	svc, _ := newTestAuthService(repo, &fakeLimiter{allowed: false})
	seedWithPassword(t, repo, "carla@example.com", domain.AccessLevelAdmin, domain.AdminStatusActive)

	_, _, _, err := svc.Login(context.Background(), "carla@example.com", "secret123")
	require.Error(t, err)
	assert.Equal(t, "TOO_MANY_ATTEMPTS", apperrors.CodeOf(err))
}

func TestLogoutRecordsTimestamp(t *testing.T) {
	repo := repotest.NewMemAdminRepo()
	svc, _ := newTestAuthService(repo, nil)
	seeded := seedWithPassword(t, repo, "carla@example.com", domain.AccessLevelAdmin, domain.AdminStatusActive)

	err := svc.Logout(context.Background(), &auth.Principal{ID: seeded.ID, Email: seeded.Email, AccessLevel: seeded.AccessLevel})
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogout)
}
