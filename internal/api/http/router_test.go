package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apihttp "github.com/spec-kit/storefront-admin/internal/api/http"
	"github.com/spec-kit/storefront-admin/internal/api/http/handlers"
	"github.com/spec-kit/storefront-admin/internal/auth"
	"github.com/spec-kit/storefront-admin/internal/config"
	"github.com/spec-kit/storefront-admin/internal/domain"
	"github.com/spec-kit/storefront-admin/internal/events"
	"github.com/spec-kit/storefront-admin/internal/observability"
	"github.com/spec-kit/storefront-admin/internal/repository/repotest"
	"github.com/spec-kit/storefront-admin/internal/service"
)

type testEnv struct {
	app    *fiber.App
	repo   *repotest.MemAdminRepo
	tokens *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			InvitationTTLHours:    24,
			BcryptCost:            bcrypt.MinCost,
		},
		Mailer: config.MailerConfig{
			EmailFrom:         "ops@example.com",
			ActivationBaseURL: "https://admin.example.com/activate",
		},
	}

	logger := zap.NewNop()
	repo := repotest.NewMemAdminRepo()
	dispatcher := events.NewInMemoryDispatcher(logger)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	verifier := auth.NewVerifier(tokens, repo, dispatcher, logger)

	adminService := service.NewAdminService(cfg, service.AdminDependencies{
		AdminRepo:  repo,
		Mailer:     service.NewLogMailer(cfg.Mailer, logger),
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	authService := service.NewAuthService(cfg, tokens, service.AuthDependencies{
		AdminRepo:  repo,
		Verifier:   verifier,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	app := fiber.New()
	apihttp.RegisterMiddlewares(app, logger, observability.NewMetrics(), 5*time.Second)
	apihttp.RegisterRoutes(app, apihttp.RouteConfig{
		Health:         handlers.NewHealthHandler("storefront-admin", "test", nil, nil),
		Auth:           handlers.NewAuthHandler(authService),
		Admins:         handlers.NewAdminsHandler(adminService),
		Activation:     handlers.NewActivationHandler(adminService),
		AuthMiddleware: auth.NewAuthMiddleware(verifier),
	})

	return &testEnv{app: app, repo: repo, tokens: tokens}
}

func (e *testEnv) seed(t *testing.T, email string, level domain.AccessLevel, status domain.AdminStatus) domain.Administrator {
	t.Helper()
	hash, err := auth.HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)
	return e.repo.Seed(domain.Administrator{
		Name:          "Operator",
		Email:         email,
		PasswordHash:  hash,
		AccessLevel:   level,
		Status:        status,
		Active:        status == domain.AdminStatusActive,
		EmailVerified: true,
	})
}

func (e *testEnv) bearer(t *testing.T, admin domain.Administrator) string {
	t.Helper()
	token, _, err := e.tokens.GenerateToken(&admin)
	require.NoError(t, err)
	return "Bearer " + token
}

func (e *testEnv) do(t *testing.T, method, path, authorization string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp, parsed
}

func TestRoutesRequireBearerToken(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/administrators", "/administrators/1"} {
		resp, body := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		assert.Equal(t, false, body["success"], path)
		assert.NotEmpty(t, body["error"], path)
	}
}

func TestInviteRequiresSuperadmin(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seed(t, "manager@shop.test", domain.AccessLevelAdmin, domain.AdminStatusActive)

	resp, body := env.do(t, http.MethodPost, "/administrators", env.bearer(t, admin), map[string]any{
		"name":  "New Hire",
		"email": "hire@shop.test",
	})

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestInviteCreatesPendingAdministrator(t *testing.T) {
	env := newTestEnv(t)
	root := env.seed(t, "root@shop.test", domain.AccessLevelSuperadmin, domain.AdminStatusActive)

	resp, body := env.do(t, http.MethodPost, "/administrators", env.bearer(t, root), map[string]any{
		"name":        "New Hire",
		"email":       "Hire@Shop.Test",
		"accessLevel": "ADMIN",
	})

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["emailSent"])
	created := data["admin"].(map[string]any)
	assert.Equal(t, "hire@shop.test", created["email"])
	assert.Equal(t, "PENDING", created["status"])
	assert.Equal(t, "ADMIN", created["accessLevel"])
	assert.Equal(t, true, created["active"])
	assert.Equal(t, false, created["emailVerified"])
}

func TestInviteRejectsInvalidPayload(t *testing.T) {
	env := newTestEnv(t)
	root := env.seed(t, "root@shop.test", domain.AccessLevelSuperadmin, domain.AdminStatusActive)

	resp, body := env.do(t, http.MethodPost, "/administrators", env.bearer(t, root), map[string]any{
		"name":  "ab",
		"email": "hire@shop.test",
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestListAllowsAdminLevel(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "root@shop.test", domain.AccessLevelSuperadmin, domain.AdminStatusActive)
	manager := env.seed(t, "manager@shop.test", domain.AccessLevelAdmin, domain.AdminStatusActive)

	resp, body := env.do(t, http.MethodGet, "/administrators", env.bearer(t, manager), nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["admins"], 2)
}

func TestListRejectsEditorLevel(t *testing.T) {
	env := newTestEnv(t)
	editor := env.seed(t, "editor@shop.test", domain.AccessLevelEditor, domain.AdminStatusActive)

	resp, body := env.do(t, http.MethodGet, "/administrators", env.bearer(t, editor), nil)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestSetStatusTransitionsTarget(t *testing.T) {
	env := newTestEnv(t)
	root := env.seed(t, "root@shop.test", domain.AccessLevelSuperadmin, domain.AdminStatusActive)
	target := env.seed(t, "editor@shop.test", domain.AccessLevelEditor, domain.AdminStatusActive)

	path := fmt.Sprintf("/administrators/%d/status", target.ID)
	resp, body := env.do(t, http.MethodPatch, path, env.bearer(t, root), map[string]any{
		"status": "SUSPENDED",
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	updated := body["data"].(map[string]any)
	assert.Equal(t, "SUSPENDED", updated["status"])
	assert.Equal(t, false, updated["active"])
}

func TestSetStatusForbidsSelfDeactivation(t *testing.T) {
	env := newTestEnv(t)
	root := env.seed(t, "root@shop.test", domain.AccessLevelSuperadmin, domain.AdminStatusActive)

	path := fmt.Sprintf("/administrators/%d/status", root.ID)
	resp, body := env.do(t, http.MethodPatch, path, env.bearer(t, root), map[string]any{
		"status": "SUSPENDED",
	})

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestSetStatusUnknownTarget(t *testing.T) {
	env := newTestEnv(t)
	root := env.seed(t, "root@shop.test", domain.AccessLevelSuperadmin, domain.AdminStatusActive)

	resp, body := env.do(t, http.MethodPatch, "/administrators/999/status", env.bearer(t, root), map[string]any{
		"status": "SUSPENDED",
	})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestActivationFlow(t *testing.T) {
	env := newTestEnv(t)
	root := env.seed(t, "root@shop.test", domain.AccessLevelSuperadmin, domain.AdminStatusActive)

	resp, _ := env.do(t, http.MethodPost, "/administrators", env.bearer(t, root), map[string]any{
		"name":  "New Hire",
		"email": "hire@shop.test",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	stored, err := env.repo.GetByEmail(context.Background(), "hire@shop.test")
	require.NoError(t, err)
	require.NotNil(t, stored.ActivationToken)
	token := *stored.ActivationToken

	resp, body := env.do(t, http.MethodGet, "/activation?token="+token, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pending := body["data"].(map[string]any)
	assert.Equal(t, "hire@shop.test", pending["email"])

	resp, body = env.do(t, http.MethodPost, "/activation", "", map[string]any{
		"token":    token,
		"password": "strong-pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	activated := body["data"].(map[string]any)
	assert.Equal(t, "ACTIVE", activated["status"])
	assert.Equal(t, true, activated["emailVerified"])

	// Tokens are single-use.
	resp, _ = env.do(t, http.MethodPost, "/activation", "", map[string]any{
		"token":    token,
		"password": "another-pass",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginAndLogout(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seed(t, "manager@shop.test", domain.AccessLevelAdmin, domain.AdminStatusActive)

	resp, body := env.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    admin.Email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	authData := data["auth"].(map[string]any)
	token, _ := authData["token"].(string)
	require.NotEmpty(t, token)

	resp, body = env.do(t, http.MethodPost, "/auth/logout", "Bearer "+token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seed(t, "manager@shop.test", domain.AccessLevelAdmin, domain.AdminStatusActive)

	resp, body := env.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    admin.Email,
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestHealthLive(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", body["status"])
}
