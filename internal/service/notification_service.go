package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-deflection/internal/config"
	"github.com/spec-kit/ticket-deflection/internal/domain"
	"github.com/spec-kit/ticket-deflection/internal/events"
)

// Notification channels.
const (
	ChannelEmail   = "email"
	ChannelWebhook = "webhook"
)

// Notification is one outbound message derived from a pipeline outcome.
type Notification struct {
	Channel  string
	Target   string
	TicketID string
	Outcome  events.EventType
	Subject  string
	Severity domain.TicketSeverity
}

// Sender delivers a notification.
type Sender func(ctx context.Context, n Notification) error

// NotificationService turns deflection outcomes into operator notifications.
// Deflections go to the webhook only; escalations also email when the ticket
// is High or Critical.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	send       Sender
}

// NewNotificationService creates the service with a sender that only logs.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
	n.send = n.logSender
	return n
}

// WithSender replaces the delivery function.
func (n *NotificationService) WithSender(send Sender) *NotificationService {
	if send != nil {
		n.send = send
	}
	return n
}

// RegisterHandlers subscribes to pipeline events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketSubmitted, n.onSubmitted)
	n.dispatcher.Subscribe(events.EventTicketDeflected, n.onOutcome)
	n.dispatcher.Subscribe(events.EventTicketEscalated, n.onOutcome)
}

func (n *NotificationService) onSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Debug("ticket submitted", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) onOutcome(ctx context.Context, event events.Event) error {
	var errs []error
	for _, msg := range n.Plan(event) {
		if err := n.send(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("%s notification for %s: %w", msg.Channel, msg.TicketID, err))
		}
	}
	return errors.Join(errs...)
}

// Plan returns the notifications an outcome event produces with the current
// configuration. Unconfigured channels are skipped.
func (n *NotificationService) Plan(event events.Event) []Notification {
	outcome, _ := event.Payload.(events.TicketOutcomePayload)
	base := Notification{
		TicketID: event.TicketID,
		Outcome:  event.Type,
		Severity: outcome.Severity,
		Subject:  subjectFor(event.Type, outcome),
	}

	var out []Notification
	if url := strings.TrimSpace(n.cfg.WebhookURL); url != "" {
		msg := base
		msg.Channel, msg.Target = ChannelWebhook, url
		out = append(out, msg)
	}
	if from := strings.TrimSpace(n.cfg.EmailFrom); from != "" && event.Type == events.EventTicketEscalated && urgent(outcome.Severity) {
		msg := base
		msg.Channel, msg.Target = ChannelEmail, from
		out = append(out, msg)
	}
	return out
}

func (n *NotificationService) logSender(_ context.Context, msg Notification) error {
	n.logger.Info("notification",
		zap.String("channel", msg.Channel),
		zap.String("target", msg.Target),
		zap.String("ticket_id", msg.TicketID),
		zap.String("outcome", string(msg.Outcome)),
		zap.String("subject", msg.Subject))
	return nil
}

func subjectFor(eventType events.EventType, outcome events.TicketOutcomePayload) string {
	category := labelOr(string(outcome.Category))
	switch eventType {
	case events.EventTicketDeflected:
		if outcome.ArticleTitle != nil {
			return fmt.Sprintf("Auto-resolved %s ticket with %q", category, *outcome.ArticleTitle)
		}
		return fmt.Sprintf("Auto-resolved %s ticket", category)
	default:
		severity := labelOr(string(outcome.Severity))
		return fmt.Sprintf("Escalated %s %s ticket", severity, category)
	}
}

func urgent(severity domain.TicketSeverity) bool {
	return severity == domain.SeverityHigh || severity == domain.SeverityCritical
}
