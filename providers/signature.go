package providers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"

	"go.uber.org/zap"
)

// verifyFlatHMAC checks a hex- or base64-encoded HMAC-SHA256 of the raw body.
// Comparison is constant-time in both encodings; a header that decodes as
// neither fails closed.
func verifyFlatHMAC(body []byte, signature, secret string) error {
	if signature == "" {
		return ErrSignatureMissing
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := mac.Sum(nil)

	if sig, err := hex.DecodeString(signature); err == nil && hmac.Equal(sig, expected) {
		return nil
	}
	if sig, err := base64.StdEncoding.DecodeString(signature); err == nil && hmac.Equal(sig, expected) {
		return nil
	}
	return ErrSignatureInvalid
}

// flatSignature is the shared verifier for gateways that sign the raw body
// directly. An empty secret disables verification; that is an operational
// escape hatch and is logged at WARN on every delivery.
type flatSignature struct {
	gateway    string
	headerName string
	secret     string
	logger     *zap.Logger
}

func (f flatSignature) VerifySignature(body []byte, header http.Header) error {
	if f.secret == "" {
		f.logger.Warn("Webhook signature verification disabled",
			zap.String("gateway", f.gateway),
		)
		return nil
	}
	return verifyFlatHMAC(body, header.Get(f.headerName), f.secret)
}
