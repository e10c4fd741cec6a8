package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kalasetu/workshop-api/internal/service"
	appErrors "github.com/kalasetu/workshop-api/pkg/errors"
)

// PaymentHandler exposes the hosted-checkout order and verification
// endpoints. These are public booking endpoints, so they answer with the
// {success, message} body shape the booking frontend expects rather than
// the admin envelope.
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type verifyPaymentRequest struct {
	OrderID string `json:"orderId"`
}

// CreateOrder godoc
// @Summary Create a payment order for a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param payload body service.CreateOrderRequest true "Booking"
// @Success 200 {object} map[string]interface{}
// @Router /payment/order [post]
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}
	result, err := h.payments.CreateOrder(c.Request.Context(), req)
	if err != nil {
		appErr := appErrors.FromError(err)
		c.JSON(appErr.Status, gin.H{"success": false, "message": appErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"orderId":      result.OrderID,
		"sessionToken": result.SessionToken,
		"amount":       result.AmountCents,
		"currency":     result.Currency,
	})
}

// Verify godoc
// @Summary Verify a payment after checkout return
// @Tags Booking
// @Accept json
// @Produce json
// @Param payload body verifyPaymentRequest true "Order reference"
// @Success 200 {object} map[string]interface{}
// @Router /payment/verify [post]
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}
	result, err := h.payments.Verify(c.Request.Context(), req.OrderID)
	if err != nil {
		appErr := appErrors.FromError(err)
		c.JSON(appErr.Status, gin.H{"success": false, "message": appErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"order_id":       result.OrderID,
		"transaction_id": result.TransactionID,
		"payment_status": result.PaymentStatus,
		"payment_method": result.Method,
		"amount":         result.AmountCents,
		"orderDetails":   result.Enrollment,
	})
}
