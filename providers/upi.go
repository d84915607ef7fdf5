package providers

import (
	"encoding/json"
	"fmt"
	"strings"

	"payment-service/models"

	"go.uber.org/zap"
)

// upiStatusKinds maps the aggregator's status field to canonical kinds.
var upiStatusKinds = map[string]models.EventKind{
	"success": models.KindSucceeded,
	"failed":  models.KindFailed,
	"pending": models.KindPending,
}

type upiCallback struct {
	TransactionID     string `json:"transactionId"`
	Status            string `json:"status"`
	UpiTransactionRef string `json:"upiTransactionRef"`
	Amount            string `json:"amount"`
	ErrorCode         string `json:"errorCode"`
	ErrorMessage      string `json:"errorMessage"`
	Vpa               string `json:"vpa"`
}

// upiProvider handles callbacks from the UPI aggregator. Payments are matched
// on the upi_transaction_id column, not the gateway natural key, because the
// aggregator never sees our gateway transaction id.
type upiProvider struct {
	flatSignature
}

func NewUpiProvider(secret string, logger *zap.Logger) Provider {
	return &upiProvider{flatSignature{
		gateway:    models.GatewayUpi,
		headerName: "X-Upi-Signature",
		secret:     secret,
		logger:     logger,
	}}
}

func (p *upiProvider) Gateway() string { return models.GatewayUpi }

func (p *upiProvider) Normalize(body []byte) (*models.PaymentEvent, error) {
	var cb upiCallback
	if err := json.Unmarshal(body, &cb); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadMalformed, err)
	}

	evt := &models.PaymentEvent{
		Gateway:          models.GatewayUpi,
		RawPayloadDigest: payloadDigest(body),
	}

	kind, ok := upiStatusKinds[strings.ToLower(cb.Status)]
	if !ok {
		evt.Kind = models.KindIgnored
		evt.ResponseMessage = cb.Status
		return evt, nil
	}
	evt.Kind = kind

	if cb.TransactionID == "" {
		return nil, fmt.Errorf("%w: missing transactionId", ErrPayloadMalformed)
	}
	evt.ExternalReference = cb.TransactionID
	evt.ResponseCode = cb.ErrorCode
	evt.ResponseMessage = cb.ErrorMessage
	if evt.ResponseMessage == "" {
		evt.ResponseMessage = cb.UpiTransactionRef
	}

	if cb.Amount != "" {
		minor, err := parseDecimalMinor(cb.Amount)
		if err != nil {
			p.logger.Warn("Unparseable UPI amount",
				zap.String("transaction_id", cb.TransactionID),
				zap.Error(err),
			)
		} else {
			evt.AmountMinor = minor
		}
	}
	return evt, nil
}
