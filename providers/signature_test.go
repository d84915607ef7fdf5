package providers_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"testing"

	"payment-service/providers"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func hmacHex(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func headerWith(name, value string) http.Header {
	h := http.Header{}
	if value != "" {
		h.Set(name, value)
	}
	return h
}

func TestFlatSignature_ValidHex(t *testing.T) {
	p := providers.NewRazorpayProvider("secret123", zap.NewNop())
	body := []byte(`{"event":"payment.captured"}`)

	err := p.VerifySignature(body, headerWith("X-Razorpay-Signature", hmacHex(body, "secret123")))
	assert.NoError(t, err)
}

func TestFlatSignature_ValidBase64(t *testing.T) {
	p := providers.NewCashfreeProvider("secret123", zap.NewNop())
	body := []byte(`{"type":"PAYMENT_SUCCESS_WEBHOOK"}`)

	mac := hmac.New(sha256.New, []byte("secret123"))
	mac.Write(body)
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	err := p.VerifySignature(body, headerWith("x-webhook-signature", sig))
	assert.NoError(t, err)
}

func TestFlatSignature_TamperedFailsClosed(t *testing.T) {
	p := providers.NewRazorpayProvider("secret123", zap.NewNop())
	body := []byte(`{"event":"payment.captured"}`)
	sig := hmacHex(body, "secret123")

	// Flip one nibble of the valid signature.
	tampered := []byte(sig)
	if tampered[0] == 'a' {
		tampered[0] = 'b'
	} else {
		tampered[0] = 'a'
	}

	err := p.VerifySignature(body, headerWith("X-Razorpay-Signature", string(tampered)))
	assert.ErrorIs(t, err, providers.ErrSignatureInvalid)
}

func TestFlatSignature_BodyTamperedFailsClosed(t *testing.T) {
	p := providers.NewPayuProvider("secret123", zap.NewNop())
	body := []byte("status=success&txnid=txn-1")
	sig := hmacHex(body, "secret123")

	tamperedBody := []byte("status=success&txnid=txn-2")
	err := p.VerifySignature(tamperedBody, headerWith("X-Payu-Signature", sig))
	assert.ErrorIs(t, err, providers.ErrSignatureInvalid)
}

func TestFlatSignature_MissingHeaderFailsClosed(t *testing.T) {
	p := providers.NewRazorpayProvider("secret123", zap.NewNop())

	err := p.VerifySignature([]byte(`{}`), http.Header{})
	assert.ErrorIs(t, err, providers.ErrSignatureMissing)
}

func TestFlatSignature_GarbageHeaderFailsClosed(t *testing.T) {
	p := providers.NewRazorpayProvider("secret123", zap.NewNop())

	err := p.VerifySignature([]byte(`{}`), headerWith("X-Razorpay-Signature", "not-a-signature-!!"))
	assert.ErrorIs(t, err, providers.ErrSignatureInvalid)
}

func TestFlatSignature_EmptySecretDisablesVerification(t *testing.T) {
	p := providers.NewUpiProvider("", zap.NewNop())

	// No header, no secret: deliberately configured escape hatch.
	err := p.VerifySignature([]byte(`{}`), http.Header{})
	assert.NoError(t, err)
}
