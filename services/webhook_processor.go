package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"payment-service/models"
	"payment-service/repository"

	"go.uber.org/zap"
)

// Outcome classifies a processed webhook for the dispatcher. Every outcome
// except errors maps to a 200 acknowledgment.
type Outcome int

const (
	OutcomeApplied Outcome = iota
	OutcomeNoOp
	OutcomeDuplicate
	OutcomeIllegalTransition
	OutcomeNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeNoOp:
		return "no_op"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeIllegalTransition:
		return "illegal_transition"
	case OutcomeNotFound:
		return "not_found"
	}
	return "unknown"
}

// EventPublisher pushes status-change events to the rest of the system.
type EventPublisher interface {
	PublishStatusChange(ctx context.Context, event models.PaymentStatusEvent) error
}

// WebhookProcessor applies canonical payment events to stored payments:
// lookup by natural key, per-payment serialization, state machine, then a
// compare-and-swap write with exactly one retry on version conflict.
type WebhookProcessor struct {
	repo      repository.PaymentRepository
	guard     *IdempotencyGuard
	publisher EventPublisher // optional
	logger    *zap.Logger
}

func NewWebhookProcessor(repo repository.PaymentRepository, guard *IdempotencyGuard, publisher EventPublisher, logger *zap.Logger) *WebhookProcessor {
	return &WebhookProcessor{repo: repo, guard: guard, publisher: publisher, logger: logger}
}

// Process applies one normalized event. A repository.ErrVersionConflict in
// the returned error means both CAS attempts lost the race and the gateway
// should redeliver; any other error is a store failure.
func (p *WebhookProcessor) Process(ctx context.Context, evt *models.PaymentEvent) (Outcome, error) {
	if p.guard.SeenRecently(evt.RawPayloadDigest) {
		p.logger.Debug("Duplicate webhook payload suppressed",
			zap.String("gateway", evt.Gateway),
			zap.String("reference", evt.ExternalReference),
		)
		return OutcomeDuplicate, nil
	}

	unlock := p.guard.LockKey(evt.Gateway + ":" + evt.ExternalReference)
	defer unlock()

	payment, err := p.lookup(ctx, evt)
	if errors.Is(err, repository.ErrNotFound) {
		// Legitimate for sandbox events or a race with initiation; the
		// gateway must not keep retrying.
		p.logger.Warn("No payment matches webhook reference",
			zap.String("gateway", evt.Gateway),
			zap.String("reference", evt.ExternalReference),
		)
		return OutcomeNotFound, nil
	}
	if err != nil {
		return 0, fmt.Errorf("lookup payment: %w", err)
	}

	outcome, err := p.applyOnce(ctx, payment, evt)
	if errors.Is(err, repository.ErrVersionConflict) {
		// One re-read and recompute; a second loss bounds retry
		// amplification and defers to the gateway's own redelivery.
		payment, err = p.lookup(ctx, evt)
		if err != nil {
			return 0, fmt.Errorf("re-read after version conflict: %w", err)
		}
		outcome, err = p.applyOnce(ctx, payment, evt)
	}
	return outcome, err
}

func (p *WebhookProcessor) lookup(ctx context.Context, evt *models.PaymentEvent) (*models.Payment, error) {
	if evt.Gateway == models.GatewayUpi {
		return p.repo.FindByUpiTransactionID(ctx, evt.ExternalReference)
	}
	return p.repo.FindByGatewayTransactionID(ctx, evt.Gateway, evt.ExternalReference)
}

func (p *WebhookProcessor) applyOnce(ctx context.Context, payment *models.Payment, evt *models.PaymentEvent) (Outcome, error) {
	next, noop, err := NextStatus(payment.Status, evt.Kind)
	if err != nil {
		// Stale event after a terminal outcome. Expected under
		// out-of-order delivery; acknowledged, never applied.
		p.logger.Warn("Illegal payment transition rejected",
			zap.String("payment_id", payment.ID.String()),
			zap.String("current_status", payment.Status),
			zap.String("event_kind", string(evt.Kind)),
		)
		p.guard.MarkProcessed(evt.RawPayloadDigest)
		return OutcomeIllegalTransition, nil
	}
	if noop {
		p.logger.Info("Idempotent webhook replay",
			zap.String("payment_id", payment.ID.String()),
			zap.String("status", payment.Status),
			zap.String("event_kind", string(evt.Kind)),
		)
		p.guard.MarkProcessed(evt.RawPayloadDigest)
		return OutcomeNoOp, nil
	}

	if evt.AmountMinor > 0 && evt.AmountMinor != payment.AmountMinor {
		p.logger.Warn("Gateway amount differs from stored payment",
			zap.String("payment_id", payment.ID.String()),
			zap.Int64("stored_minor", payment.AmountMinor),
			zap.Int64("gateway_minor", evt.AmountMinor),
		)
	}

	if err := p.repo.UpdateWithVersion(ctx, payment.ID, payment.Version, buildUpdates(next, evt)); err != nil {
		return 0, err
	}
	p.guard.MarkProcessed(evt.RawPayloadDigest)

	p.logger.Info("Payment status updated",
		zap.String("payment_id", payment.ID.String()),
		zap.String("gateway", evt.Gateway),
		zap.String("from", payment.Status),
		zap.String("to", next),
	)
	p.publish(ctx, payment, next)
	return OutcomeApplied, nil
}

// buildUpdates assembles the column updates for a committed transition.
// Terminal timestamps are set here exactly once: a terminal status can only
// be entered once because no transition ever leaves it.
func buildUpdates(next string, evt *models.PaymentEvent) map[string]interface{} {
	updates := map[string]interface{}{"status": next}

	code, msg := evt.ResponseCode, evt.ResponseMessage
	if evt.Kind == models.KindSucceeded && code == "" {
		code = "SUCCESS"
	}
	if evt.Kind == models.KindSucceeded && msg == "" {
		msg = "Payment completed successfully"
	}
	if code != "" {
		updates["response_code"] = code
	}
	if msg != "" {
		updates["response_message"] = msg
	}
	if evt.CardLastFour != "" {
		updates["card_last_four"] = evt.CardLastFour
	}
	if evt.CardBrand != "" {
		updates["card_brand"] = evt.CardBrand
	}

	now := time.Now()
	switch next {
	case models.StatusCompleted:
		updates["completed_at"] = now
	case models.StatusFailed:
		updates["failed_at"] = now
	case models.StatusCancelled:
		updates["cancelled_at"] = now
	}
	return updates
}

func (p *WebhookProcessor) publish(ctx context.Context, payment *models.Payment, status string) {
	if p.publisher == nil {
		return
	}
	event := models.PaymentStatusEvent{
		Type:        "payment_" + strings.ToLower(status),
		PaymentID:   payment.ID.String(),
		OrderID:     payment.OrderID.String(),
		Gateway:     payment.Gateway,
		Status:      status,
		AmountMinor: payment.AmountMinor,
		Currency:    payment.Currency,
		Timestamp:   time.Now().UTC(),
	}
	if err := p.publisher.PublishStatusChange(ctx, event); err != nil {
		// Webhook acknowledgment must not depend on the broker.
		p.logger.Error("Failed to publish payment status event",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
	}
}
