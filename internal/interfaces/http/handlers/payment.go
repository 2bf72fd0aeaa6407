// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/readnwin/readnwin-backend/internal/config"
	"github.com/readnwin/readnwin-backend/internal/domain/order"
	"github.com/readnwin/readnwin-backend/internal/domain/payment"
	"github.com/readnwin/readnwin-backend/internal/interfaces/http/middleware"
)

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	paymentService *payment.Service
	orderService   *order.Service
	config         *config.Config
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *payment.Service, orderService *order.Service, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		orderService:   orderService,
		config:         cfg,
	}
}

// ListGateways handles GET /payment-gateways - enabled payment options
// for the checkout payment step
func (h *PaymentHandler) ListGateways(c *gin.Context) {
	gateways := h.paymentService.ListGateways()

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment gateways retrieved successfully",
		"data":    gateways,
	})
}

// InitializePayment handles POST /payment/initialize/:orderId - starts or
// retries payment for an order the caller owns
func (h *PaymentHandler) InitializePayment(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	orderID, err := strconv.ParseUint(c.Param("orderId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	o, err := h.orderService.GetUserOrder(userID, uint(orderID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
		return
	}

	result, err := h.paymentService.InitializePayment(o)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment initialized successfully",
		"data":    result,
	})
}

// FlutterwaveCallback handles GET /payment/callback - the browser redirect
// from the hosted payment page. The transaction is re-verified against the
// Flutterwave API before the order is marked paid.
func (h *PaymentHandler) FlutterwaveCallback(c *gin.Context) {
	status := c.Query("status")
	txRef := c.Query("tx_ref")
	transactionID := c.Query("transaction_id")

	if txRef == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing transaction reference",
		})
		return
	}

	result, err := h.paymentService.HandleFlutterwaveCallback(status, txRef, transactionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	// The storefront drives this endpoint, send the user back to it
	c.Redirect(http.StatusFound, result.RedirectURL)
}

// GetBankTransferDetails handles GET /payment/bank-transfer/:orderId
func (h *PaymentHandler) GetBankTransferDetails(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	orderID, err := strconv.ParseUint(c.Param("orderId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	details, err := h.paymentService.GetBankTransferDetails(userID, uint(orderID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bank transfer details retrieved successfully",
		"data":    details,
	})
}

// ConfirmBankTransfer handles POST /admin/payments/bank-transfer/:orderId/confirm
func (h *PaymentHandler) ConfirmBankTransfer(c *gin.Context) {
	adminID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	orderID, err := strconv.ParseUint(c.Param("orderId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	if err := h.paymentService.ConfirmBankTransfer(uint(orderID), adminID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bank transfer confirmed successfully",
	})
}
