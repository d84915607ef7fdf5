package providers

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"

	"payment-service/config"
	"payment-service/models"

	"go.uber.org/zap"
)

// Signature and payload errors. The webhook controller maps these to HTTP
// statuses: signature errors to 401, malformed payloads to 400.
var (
	ErrSignatureMissing = errors.New("signature header missing")
	ErrSignatureInvalid = errors.New("signature mismatch")
	ErrPayloadMalformed = errors.New("payload malformed")
)

// Provider is one payment gateway's webhook contract: how to authenticate a
// raw delivery and how to turn its native payload into a canonical event.
// Both operations are pure; neither touches payment state.
type Provider interface {
	Gateway() string
	// VerifySignature authenticates the raw body against the provider's
	// signature header. It must be called on the exact bytes received,
	// before any deserialization.
	VerifySignature(body []byte, header http.Header) error
	Normalize(body []byte) (*models.PaymentEvent, error)
}

// NewRegistry builds the provider table keyed by gateway identity. The
// dispatcher selects from this table; there is no per-gateway branching
// anywhere else.
func NewRegistry(secrets config.WebhookSecrets, logger *zap.Logger) map[string]Provider {
	return map[string]Provider{
		models.GatewayStripe:   NewStripeProvider(secrets.Stripe, logger),
		models.GatewayRazorpay: NewRazorpayProvider(secrets.Razorpay, logger),
		models.GatewayPayu:     NewPayuProvider(secrets.Payu, logger),
		models.GatewayCashfree: NewCashfreeProvider(secrets.Cashfree, logger),
		models.GatewayUpi:      NewUpiProvider(secrets.Upi, logger),
	}
}

// payloadDigest identifies a delivery body for replay detection, independent
// of any business idempotency key.
func payloadDigest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
