package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/storefront-admin/internal/config"
	"github.com/spec-kit/storefront-admin/internal/events"
)

// NotificationService forwards lifecycle audit events to operators.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.MailerConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.MailerConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAdminInvited, n.handleAdminInvited)
	n.dispatcher.Subscribe(events.EventAdminActivated, n.handleAdminActivated)
	n.dispatcher.Subscribe(events.EventAdminStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventSuperadminRepaired, n.handleSuperadminRepaired)
	n.dispatcher.Subscribe(events.EventAdminLoggedIn, n.handleAdminLoggedIn)
}

func (n *NotificationService) handleAdminInvited(ctx context.Context, event events.Event) error {
	n.logger.Info("AdminInvited", zap.Int64("admin_id", event.AdminID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAdminActivated(ctx context.Context, event events.Event) error {
	n.logger.Info("AdminActivated", zap.Int64("admin_id", event.AdminID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("AdminStatusChanged", zap.Int64("admin_id", event.AdminID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleSuperadminRepaired(ctx context.Context, event events.Event) error {
	// Surfaced at warn level: a repair means the status field drifted.
	n.logger.Warn("SuperadminStatusRepaired", zap.Int64("admin_id", event.AdminID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAdminLoggedIn(_ context.Context, event events.Event) error {
	n.logger.Info("AdminLoggedIn", zap.Int64("admin_id", event.AdminID))
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("admin_id", event.AdminID),
		zap.String("event_type", string(event.Type)))
}
