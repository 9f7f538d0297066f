package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/storefront-admin/internal/config"
)

// Mailer delivers operator-facing email. Delivery is an external collaborator;
// this subsystem only cares about success or failure of the send.
type Mailer interface {
	SendActivationEmail(ctx context.Context, to, name, token string) error
}

// LogMailer is a stub transport that records outbound mail in the log. It
// stands in for a real provider in development environments.
type LogMailer struct {
	cfg    config.MailerConfig
	logger *zap.Logger
}

// NewLogMailer creates the stub mailer.
func NewLogMailer(cfg config.MailerConfig, logger *zap.Logger) *LogMailer {
	return &LogMailer{cfg: cfg, logger: logger}
}

// SendActivationEmail logs the activation link that a real transport would
// deliver. An unconfigured sender address counts as a delivery failure so the
// invitation compensation path still runs.
func (m *LogMailer) SendActivationEmail(_ context.Context, to, name, token string) error {
	if strings.TrimSpace(m.cfg.EmailFrom) == "" {
		return errors.New("mailer sender address not configured")
	}

	link := fmt.Sprintf("%s?token=%s", m.cfg.ActivationBaseURL, token)
	m.logger.Info("activation email",
		zap.String("from", m.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("name", name),
		zap.String("link", link))
	return nil
}
