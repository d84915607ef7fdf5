package providers

import (
	"encoding/json"
	"fmt"

	"payment-service/models"

	"go.uber.org/zap"
)

// cashfreeEventKinds maps Cashfree webhook types to canonical kinds. A user
// abandoning the checkout surfaces as USER_DROPPED, which is a cancellation.
var cashfreeEventKinds = map[string]models.EventKind{
	"PAYMENT_SUCCESS_WEBHOOK":      models.KindSucceeded,
	"PAYMENT_FAILED_WEBHOOK":       models.KindFailed,
	"PAYMENT_USER_DROPPED_WEBHOOK": models.KindCancelled,
}

type cashfreeEnvelope struct {
	Type string `json:"type"`
	Data struct {
		OrderID        string      `json:"order_id"`
		CfPaymentID    json.Number `json:"cf_payment_id"`
		OrderAmount    json.Number `json:"order_amount"`
		OrderCurrency  string      `json:"order_currency"`
		PaymentCode    string      `json:"payment_code"`
		PaymentMessage string      `json:"payment_message"`
	} `json:"data"`
}

type cashfreeProvider struct {
	flatSignature
}

func NewCashfreeProvider(secret string, logger *zap.Logger) Provider {
	return &cashfreeProvider{flatSignature{
		gateway:    models.GatewayCashfree,
		headerName: "x-webhook-signature",
		secret:     secret,
		logger:     logger,
	}}
}

func (p *cashfreeProvider) Gateway() string { return models.GatewayCashfree }

func (p *cashfreeProvider) Normalize(body []byte) (*models.PaymentEvent, error) {
	var env cashfreeEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadMalformed, err)
	}

	evt := &models.PaymentEvent{
		Gateway:          models.GatewayCashfree,
		RawPayloadDigest: payloadDigest(body),
	}

	kind, ok := cashfreeEventKinds[env.Type]
	if !ok {
		evt.Kind = models.KindIgnored
		evt.ResponseMessage = env.Type
		return evt, nil
	}
	evt.Kind = kind

	if env.Data.OrderID == "" {
		return nil, fmt.Errorf("%w: missing order_id", ErrPayloadMalformed)
	}
	evt.ExternalReference = env.Data.OrderID
	evt.ResponseCode = env.Data.PaymentCode
	evt.ResponseMessage = env.Data.PaymentMessage

	if amount := env.Data.OrderAmount.String(); amount != "" {
		minor, err := parseDecimalMinor(amount)
		if err != nil {
			p.logger.Warn("Unparseable Cashfree amount",
				zap.String("order_id", env.Data.OrderID),
				zap.Error(err),
			)
		} else {
			evt.AmountMinor = minor
		}
	}
	return evt, nil
}
