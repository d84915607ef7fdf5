package providers

import (
	"encoding/json"
	"fmt"

	"payment-service/models"

	"go.uber.org/zap"
)

// razorpayEventKinds maps Razorpay webhook event names to canonical kinds.
// order.paid arrives with an order entity instead of a payment entity.
var razorpayEventKinds = map[string]models.EventKind{
	"payment.captured": models.KindSucceeded,
	"payment.failed":   models.KindFailed,
	"order.paid":       models.KindSucceeded,
}

type razorpayEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment *struct {
			Entity razorpayPayment `json:"entity"`
		} `json:"payment"`
		Order *struct {
			Entity razorpayOrder `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

type razorpayPayment struct {
	ID               string `json:"id"`
	Amount           int64  `json:"amount"` // paise
	Currency         string `json:"currency"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
	Card             *struct {
		Last4   string `json:"last4"`
		Network string `json:"network"`
	} `json:"card"`
}

type razorpayOrder struct {
	ID         string `json:"id"`
	AmountPaid int64  `json:"amount_paid"`
	Currency   string `json:"currency"`
}

type razorpayProvider struct {
	flatSignature
}

func NewRazorpayProvider(secret string, logger *zap.Logger) Provider {
	return &razorpayProvider{flatSignature{
		gateway:    models.GatewayRazorpay,
		headerName: "X-Razorpay-Signature",
		secret:     secret,
		logger:     logger,
	}}
}

func (p *razorpayProvider) Gateway() string { return models.GatewayRazorpay }

func (p *razorpayProvider) Normalize(body []byte) (*models.PaymentEvent, error) {
	var env razorpayEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadMalformed, err)
	}

	evt := &models.PaymentEvent{
		Gateway:          models.GatewayRazorpay,
		RawPayloadDigest: payloadDigest(body),
	}

	kind, ok := razorpayEventKinds[env.Event]
	if !ok {
		evt.Kind = models.KindIgnored
		evt.ResponseMessage = env.Event
		return evt, nil
	}
	evt.Kind = kind

	switch {
	case env.Payload.Payment != nil:
		entity := env.Payload.Payment.Entity
		evt.ExternalReference = entity.ID
		evt.AmountMinor = entity.Amount
		evt.ResponseCode = entity.ErrorCode
		evt.ResponseMessage = entity.ErrorDescription
		if entity.Card != nil {
			evt.CardLastFour = entity.Card.Last4
			evt.CardBrand = entity.Card.Network
		}
	case env.Payload.Order != nil:
		entity := env.Payload.Order.Entity
		evt.ExternalReference = entity.ID
		evt.AmountMinor = entity.AmountPaid
	}
	if evt.ExternalReference == "" {
		return nil, fmt.Errorf("%w: no payment or order entity id", ErrPayloadMalformed)
	}
	return evt, nil
}
