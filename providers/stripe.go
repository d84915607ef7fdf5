package providers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"payment-service/models"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"
	"go.uber.org/zap"
)

// stripeEventKinds maps Stripe payment_intent event types to canonical kinds.
// Anything else Stripe sends (charge.*, invoice.*, ...) is informational.
var stripeEventKinds = map[string]models.EventKind{
	"payment_intent.succeeded":       models.KindSucceeded,
	"payment_intent.payment_failed":  models.KindFailed,
	"payment_intent.requires_action": models.KindRequiresAction,
	"payment_intent.canceled":        models.KindCancelled,
	"payment_intent.processing":      models.KindPending,
}

type stripeProvider struct {
	secret string
	logger *zap.Logger
}

func NewStripeProvider(secret string, logger *zap.Logger) Provider {
	return &stripeProvider{secret: secret, logger: logger}
}

func (p *stripeProvider) Gateway() string { return models.GatewayStripe }

func (p *stripeProvider) VerifySignature(body []byte, header http.Header) error {
	if p.secret == "" {
		p.logger.Warn("Webhook signature verification disabled",
			zap.String("gateway", models.GatewayStripe),
		)
		return nil
	}
	sig := header.Get("Stripe-Signature")
	if sig == "" {
		return ErrSignatureMissing
	}
	if err := webhook.ValidatePayload(body, sig, p.secret); err != nil {
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	return nil
}

func (p *stripeProvider) Normalize(body []byte) (*models.PaymentEvent, error) {
	var event stripe.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadMalformed, err)
	}

	evt := &models.PaymentEvent{
		Gateway:          models.GatewayStripe,
		RawPayloadDigest: payloadDigest(body),
	}

	kind, ok := stripeEventKinds[string(event.Type)]
	if !ok {
		evt.Kind = models.KindIgnored
		evt.ResponseMessage = string(event.Type)
		return evt, nil
	}
	evt.Kind = kind

	if event.Data == nil {
		return nil, fmt.Errorf("%w: event has no data object", ErrPayloadMalformed)
	}
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadMalformed, err)
	}
	if pi.ID == "" {
		return nil, fmt.Errorf("%w: payment_intent has no id", ErrPayloadMalformed)
	}

	evt.ExternalReference = pi.ID
	evt.AmountMinor = pi.Amount
	if pi.LastPaymentError != nil {
		evt.ResponseCode = string(pi.LastPaymentError.Code)
		evt.ResponseMessage = pi.LastPaymentError.Msg
	}
	if charge := pi.LatestCharge; charge != nil && charge.PaymentMethodDetails != nil {
		if card := charge.PaymentMethodDetails.Card; card != nil {
			evt.CardLastFour = card.Last4
			evt.CardBrand = string(card.Brand)
		}
	}
	return evt, nil
}
