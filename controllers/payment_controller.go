package controllers

import (
	"errors"
	"net/http"

	"payment-service/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentController exposes the read side consumed by order fulfillment.
type PaymentController struct {
	Repo   repository.PaymentRepository
	Logger *zap.Logger
}

// GetPaymentStatus returns the current status of one payment.
func (pc *PaymentController) GetPaymentStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}

	payment, err := pc.Repo.FindByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}
	if err != nil {
		pc.Logger.Error("Failed to load payment", zap.String("payment_id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store failure"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment_id": payment.ID.String(),
		"order_id":   payment.OrderID.String(),
		"gateway":    payment.Gateway,
		"status":     payment.Status,
	})
}
