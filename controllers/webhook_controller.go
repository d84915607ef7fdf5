package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"payment-service/models"
	"payment-service/providers"
	"payment-service/repository"
	"payment-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookController owns the per-gateway HTTP entry points. All gateway
// branching lives in the provider table; the handler flow is identical for
// every gateway: raw body -> verify -> normalize -> process -> status code.
type WebhookController struct {
	Providers map[string]providers.Provider
	Processor *services.WebhookProcessor
	Logger    *zap.Logger
}

// HandlerFor builds the gin handler for one gateway's webhook endpoint.
func (wc *WebhookController) HandlerFor(gateway string) gin.HandlerFunc {
	provider, ok := wc.Providers[gateway]
	if !ok {
		panic("webhook handler registered for unknown gateway " + gateway)
	}

	return func(c *gin.Context) {
		// Signatures are computed over the exact bytes sent, so the body
		// must be captured before any deserialization.
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			wc.Logger.Warn("Failed to read webhook body",
				zap.String("gateway", gateway),
				zap.Error(err),
			)
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}

		if err := provider.VerifySignature(body, c.Request.Header); err != nil {
			wc.Logger.Warn("Webhook signature rejected",
				zap.String("gateway", gateway),
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}

		event, err := provider.Normalize(body)
		if err != nil {
			wc.Logger.Warn("Malformed webhook payload",
				zap.String("gateway", gateway),
				zap.String("excerpt", excerpt(body)),
				zap.Error(err),
			)
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
			return
		}

		if event.Kind == models.KindIgnored {
			wc.Logger.Info("Ignoring informational gateway event",
				zap.String("gateway", gateway),
				zap.String("event_type", event.ResponseMessage),
			)
			c.JSON(http.StatusOK, gin.H{"status": "ignored"})
			return
		}

		outcome, err := wc.Processor.Process(c.Request.Context(), event)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrVersionConflict):
				// Both CAS attempts lost; let the gateway redeliver.
				wc.Logger.Warn("Webhook lost concurrent update race",
					zap.String("gateway", gateway),
					zap.String("reference", event.ExternalReference),
				)
				c.JSON(http.StatusBadGateway, gin.H{"error": "conflict, retry"})
			case errors.Is(err, context.DeadlineExceeded):
				wc.Logger.Error("Webhook processing timed out",
					zap.String("gateway", gateway),
					zap.String("reference", event.ExternalReference),
				)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "timeout"})
			default:
				wc.Logger.Error("Webhook store failure",
					zap.String("gateway", gateway),
					zap.String("reference", event.ExternalReference),
					zap.Error(err),
				)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "store failure"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": outcome.String()})
	}
}

// excerpt truncates a payload for log lines. Never log whole bodies: they can
// carry card data.
func excerpt(body []byte) string {
	const max = 128
	if len(body) <= max {
		return string(body)
	}
	return string(body[:max]) + "..."
}
