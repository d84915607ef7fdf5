package providers

import (
	"fmt"
	"net/url"

	"payment-service/models"

	"go.uber.org/zap"
)

// payuStatusKinds maps the PayU "status" form field to canonical kinds.
var payuStatusKinds = map[string]models.EventKind{
	"success": models.KindSucceeded,
	"failure": models.KindFailed,
	"pending": models.KindPending,
}

// payuProvider handles PayU's URL-encoded callbacks. txnid is the merchant
// transaction id assigned at initiation, which is the natural key here;
// mihpayid is PayU's own id and is kept only for the response message.
type payuProvider struct {
	flatSignature
}

func NewPayuProvider(secret string, logger *zap.Logger) Provider {
	return &payuProvider{flatSignature{
		gateway:    models.GatewayPayu,
		headerName: "X-Payu-Signature",
		secret:     secret,
		logger:     logger,
	}}
}

func (p *payuProvider) Gateway() string { return models.GatewayPayu }

func (p *payuProvider) Normalize(body []byte) (*models.PaymentEvent, error) {
	params, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadMalformed, err)
	}

	evt := &models.PaymentEvent{
		Gateway:          models.GatewayPayu,
		RawPayloadDigest: payloadDigest(body),
	}

	status := params.Get("status")
	kind, ok := payuStatusKinds[status]
	if !ok {
		evt.Kind = models.KindIgnored
		evt.ResponseMessage = status
		return evt, nil
	}
	evt.Kind = kind

	txnid := params.Get("txnid")
	if txnid == "" {
		return nil, fmt.Errorf("%w: missing txnid", ErrPayloadMalformed)
	}
	evt.ExternalReference = txnid
	evt.ResponseCode = params.Get("error")
	evt.ResponseMessage = params.Get("error_Message")
	if evt.ResponseMessage == "" {
		evt.ResponseMessage = params.Get("mihpayid")
	}

	if amount := params.Get("amount"); amount != "" {
		minor, err := parseDecimalMinor(amount)
		if err != nil {
			p.logger.Warn("Unparseable PayU amount",
				zap.String("txnid", txnid),
				zap.Error(err),
			)
		} else {
			evt.AmountMinor = minor
		}
	}

	// cardnum arrives masked; only the tail is usable.
	if cardNo := params.Get("cardnum"); len(cardNo) >= 4 {
		evt.CardLastFour = cardNo[len(cardNo)-4:]
	}
	return evt, nil
}
