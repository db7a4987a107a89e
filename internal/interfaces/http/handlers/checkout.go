// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/your-org/eyewear-backend/internal/config"
	"github.com/your-org/eyewear-backend/internal/domain/cart"
	"github.com/your-org/eyewear-backend/internal/domain/checkout"
	"github.com/your-org/eyewear-backend/internal/domain/order"
	"github.com/your-org/eyewear-backend/internal/domain/payment"
	"github.com/your-org/eyewear-backend/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	config          *config.Config
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *CheckoutHandler {
	cartService := cart.NewService(db, redisClient, cfg)
	orderService := order.NewService(db, redisClient, cfg, cartService)
	gateway := payment.NewRazorpayService(db, cfg)

	return &CheckoutHandler{
		checkoutService: checkout.NewService(orderService, gateway, cartService, cfg),
		config:          cfg,
	}
}

// PlaceOrder handles POST /checkout/place-order
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	email, _ := middleware.GetUserEmailFromContext(c)
	role := middleware.GetUserRoleFromContext(c)

	var req checkout.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	response, err := h.checkoutService.PlaceOrder(c.Request.Context(), userID, email, role, &req)
	if err != nil {
		var fieldErr *checkout.AddressValidationError
		if errors.As(err, &fieldErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "Invalid shipping address",
				"fields": fieldErr.Fields,
			})
			return
		}

		var stageErr *checkout.StageError
		if errors.As(err, &stageErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": stageErr.Err.Error(),
				"stage": stageErr.Stage,
			})
			return
		}

		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed, complete payment to confirm",
		"data":    response,
	})
}

// VerifyPayment handles POST /checkout/verify-payment
func (h *CheckoutHandler) VerifyPayment(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req struct {
		OrderID           uint   `json:"order_id" binding:"required"`
		RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
		RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
		RazorpaySignature string `json:"razorpay_signature"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	outcome := checkout.VerifiedOutcome(req.OrderID, req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	result, err := h.checkoutService.CompletePayment(c.Request.Context(), userID, outcome)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": result.Message,
		"data":    result,
	})
}

// PaymentFailed handles POST /checkout/payment-failed
func (h *CheckoutHandler) PaymentFailed(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req struct {
		OrderID uint   `json:"order_id" binding:"required"`
		Reason  string `json:"reason"`
		Code    string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.checkoutService.CompletePayment(c.Request.Context(), userID, checkout.FailedOutcome(req.OrderID, req.Reason, req.Code))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": result.Message,
		"data":    result,
	})
}

// PaymentCancelled handles POST /checkout/payment-cancelled
func (h *CheckoutHandler) PaymentCancelled(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req struct {
		OrderID uint `json:"order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.checkoutService.CompletePayment(c.Request.Context(), userID, checkout.CancelledOutcome(req.OrderID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": result.Message,
		"data":    result,
	})
}
