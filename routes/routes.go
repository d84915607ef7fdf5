package routes

import (
	"time"

	"payment-service/controllers"
	"payment-service/middleware"
	"payment-service/models"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, wc *controllers.WebhookController, pc *controllers.PaymentController, webhookTimeout time.Duration) {
	// Gateway callbacks authenticate with signatures, not user auth.
	webhooks := r.Group("/webhooks/payment", middleware.Timeout(webhookTimeout))
	webhooks.POST("/stripe", wc.HandlerFor(models.GatewayStripe))
	webhooks.POST("/razorpay", wc.HandlerFor(models.GatewayRazorpay))
	webhooks.POST("/payu", wc.HandlerFor(models.GatewayPayu))
	webhooks.POST("/cashfree", wc.HandlerFor(models.GatewayCashfree))
	webhooks.POST("/upi", wc.HandlerFor(models.GatewayUpi))

	payments := r.Group("/payments")
	payments.Use(middleware.AuthMiddleware())
	payments.GET("/:id/status", pc.GetPaymentStatus)
}
