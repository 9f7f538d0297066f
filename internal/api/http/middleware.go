package http

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/storefront-admin/internal/observability"
	apperrors "github.com/spec-kit/storefront-admin/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware renders every failure as {success:false, error:msg}
// with the status carried by the domain error.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				status, code, message := classifyError(err)
				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), code)
				}
				if status >= 500 {
					logger.Error("request failed", zap.String("code", code), zap.Error(err))
				}
				c.Status(status)
				_ = c.JSON(fiber.Map{
					"success": false,
					"error":   message,
				})
				err = nil
			}
		}()
		return c.Next()
	}
}

func classifyError(err error) (status int, code, message string) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, "BAD_REQUEST", fiberErr.Message
	}
	domainErr := apperrors.ToDomainError(err)
	return domainErr.HTTPStatus, domainErr.Code, domainErr.Message
}
