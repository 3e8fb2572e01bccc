package controllers

import (
	"errors"
	"net/http"

	"github.com/Shakilofficial/nextmart-server/gateway"
	"github.com/Shakilofficial/nextmart-server/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PaymentController struct {
	Service services.ReconciliationService
	Logger  *zap.Logger

	// frontend redirect targets after the gateway success callback
	SuccessURL string
	FailURL    string
}

// InitiatePayment opens a gateway session for an order and returns the
// hosted checkout URL.
func (pc *PaymentController) InitiatePayment(c *gin.Context) {
	var req struct {
		OrderID string `json:"order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gatewayURL, err := pc.Service.InitiatePayment(c.Request.Context(), req.OrderID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		var gwErr *gateway.Error
		if errors.As(err, &gwErr) {
			pc.Logger.Error("Gateway session initiation failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to generate payment gateway URL"})
			return
		}
		pc.Logger.Error("Payment initiation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "an error occurred while processing payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"gateway_url": gatewayURL})
}

// ValidatePayment is the gateway success callback. It reconciles the
// transaction and redirects the customer to the storefront. The redirect
// never implies success unless the reconciliation committed.
func (pc *PaymentController) ValidatePayment(c *gin.Context) {
	tranID := c.Query("tran_id")
	if tranID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tran_id is required"})
		return
	}

	outcome, err := pc.Service.Reconcile(c.Request.Context(), tranID)
	if err != nil {
		pc.Logger.Error("Reconciliation failed",
			zap.String("transaction_id", tranID),
			zap.Error(err),
		)
		c.Redirect(http.StatusFound, pc.FailURL)
		return
	}

	switch outcome {
	case services.OutcomePaid:
		c.Redirect(http.StatusFound, pc.SuccessURL)
	default:
		c.Redirect(http.StatusFound, pc.FailURL)
	}
}

// IPN receives gateway-initiated payment notifications. The ack reports what
// happened without implying success on failure; the gateway does not retry
// on our internal errors, so those are logged loudly.
func (pc *PaymentController) IPN(c *gin.Context) {
	tranID := c.PostForm("tran_id")
	if tranID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tran_id is required"})
		return
	}

	outcome, err := pc.Service.Reconcile(c.Request.Context(), tranID)
	if err != nil {
		pc.Logger.Error("IPN reconciliation failed",
			zap.String("transaction_id", tranID),
			zap.Error(err),
		)
		c.JSON(http.StatusOK, gin.H{"status": "error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "received", "outcome": outcome.String()})
}
