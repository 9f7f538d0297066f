package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/storefront-admin/internal/service"
)

// StartNotificationWorker subscribes the audit notification handlers to the
// event stream.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	logger.Info("notification worker started")
}
