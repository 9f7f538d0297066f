package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/storefront-admin/internal/api/http"
	"github.com/spec-kit/storefront-admin/internal/api/http/handlers"
	"github.com/spec-kit/storefront-admin/internal/auth"
	"github.com/spec-kit/storefront-admin/internal/config"
	"github.com/spec-kit/storefront-admin/internal/events"
	"github.com/spec-kit/storefront-admin/internal/observability"
	"github.com/spec-kit/storefront-admin/internal/persistence"
	"github.com/spec-kit/storefront-admin/internal/repository"
	"github.com/spec-kit/storefront-admin/internal/service"
	"github.com/spec-kit/storefront-admin/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	adminRepo := repository.NewAdminRepository(pg.PoolHandle())
	tokenMgr := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	verifier := auth.NewVerifier(tokenMgr, adminRepo, dispatcher, logger)
	authMiddleware := auth.NewAuthMiddleware(verifier)

	mailer := service.NewLogMailer(cfg.Mailer, logger)
	var limiter service.LoginLimiter
	if redis.Enabled() {
		limiter = service.NewRedisLoginLimiter(redis.Client(), cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow())
	}

	adminService := service.NewAdminService(*cfg, service.AdminDependencies{
		AdminRepo:  adminRepo,
		Mailer:     mailer,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	authService := service.NewAuthService(*cfg, tokenMgr, service.AuthDependencies{
		AdminRepo:  adminRepo,
		Verifier:   verifier,
		Limiter:    limiter,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Mailer)
	worker.StartNotificationWorker(notificationService, logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Admins:         handlers.NewAdminsHandler(adminService),
		Activation:     handlers.NewActivationHandler(adminService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
