// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/eyewear-backend/internal/config"
	"github.com/your-org/eyewear-backend/internal/domain/order"
	"github.com/your-org/eyewear-backend/internal/domain/payment"
	"github.com/your-org/eyewear-backend/internal/interfaces/http/middleware"
)

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	razorpayService *payment.RazorpayService
	config          *config.Config
	db              *gorm.DB
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{
		razorpayService: payment.NewRazorpayService(db, cfg),
		config:          cfg,
		db:              db,
	}
}

// InitiatePayment handles POST /payments/initiate
// Used to retry payment on an order whose initial attempt failed or was cancelled.
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
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

	var orderRecord order.Order
	result := h.db.Where("id = ? AND user_id = ?", req.OrderID, userID).First(&orderRecord)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve order",
			})
		}
		return
	}

	if orderRecord.PaymentStatus == order.PaymentStatusPaid {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Order is already paid",
		})
		return
	}

	if orderRecord.Status != order.OrderStatusPending {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          "Order is not eligible for payment",
			"current_status": string(orderRecord.Status),
		})
		return
	}

	paymentResponse, err := h.razorpayService.CreatePaymentOrder(c.Request.Context(), req.OrderID)
	if err != nil {
		logrus.WithError(err).WithField("order_id", req.OrderID).Error("Payment initiation failed")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment initiated successfully",
		"data":    paymentResponse,
	})
}

// GetPaymentStatus handles GET /payments/status/:order_id
func (h *PaymentHandler) GetPaymentStatus(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	orderIDStr := c.Param("order_id")
	orderID, err := strconv.ParseUint(orderIDStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	var orderRecord order.Order
	result := h.db.Where("id = ? AND user_id = ?", uint(orderID), userID).First(&orderRecord)
	if result.Error != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
		return
	}

	paymentRecord, err := h.razorpayService.GetPaymentStatus(c.Request.Context(), uint(orderID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Payment status not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment status retrieved successfully",
		"data":    paymentRecord,
	})
}

// GetPaymentMethods handles GET /payments/methods
func (h *PaymentHandler) GetPaymentMethods(c *gin.Context) {
	methods := []gin.H{
		{
			"id":          "razorpay",
			"name":        "Razorpay",
			"description": "Pay using Credit Card, Debit Card, NetBanking, UPI, or Wallets",
			"enabled":     true,
			"test_mode":   h.razorpayService.TestMode(),
			"key_id":      h.config.External.Razorpay.KeyID,
			"types": []string{
				"card", "netbanking", "upi", "wallet", "emi",
			},
		},
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment methods retrieved successfully",
		"data":    methods,
	})
}

// RazorpayWebhook handles POST /webhooks/razorpay
func (h *PaymentHandler) RazorpayWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read request body",
		})
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing signature header",
		})
		return
	}

	if !h.verifyWebhookSignature(string(body), signature) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid signature",
		})
		return
	}

	var webhookData map[string]interface{}
	if err := json.Unmarshal(body, &webhookData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid JSON payload",
		})
		return
	}

	eventType, ok := webhookData["event"].(string)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing event type",
		})
		return
	}

	switch eventType {
	case "payment.captured":
		h.handlePaymentCaptured(webhookData)
	case "payment.failed":
		h.handlePaymentFailed(webhookData)
	default:
		logrus.WithField("event", eventType).Debug("Ignoring unhandled webhook event")
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "received",
	})
}

// --- WEBHOOK EVENT HANDLERS ---

func (h *PaymentHandler) handlePaymentCaptured(data map[string]interface{}) {
	paymentEntity, ok := webhookPaymentEntity(data)
	if !ok {
		return
	}

	gatewayOrderID, _ := paymentEntity["order_id"].(string)
	paymentID, _ := paymentEntity["id"].(string)

	var paymentRecord order.Payment
	result := h.db.Where("gateway_order_id = ?", gatewayOrderID).First(&paymentRecord)
	if result.Error != nil {
		return
	}
	if paymentRecord.Status == order.PaymentStatusPaid {
		return
	}

	raw, _ := json.Marshal(paymentEntity)
	h.db.Model(&paymentRecord).Updates(map[string]interface{}{
		"status":              order.PaymentStatusPaid,
		"payment_provider_id": paymentID,
		"gateway_response":    string(raw),
		"processed_at":        time.Now().UTC(),
	})

	h.db.Model(&order.Order{}).Where("id = ?", paymentRecord.OrderID).Updates(map[string]interface{}{
		"status":         order.OrderStatusConfirmed,
		"payment_status": order.PaymentStatusPaid,
	})
}

func (h *PaymentHandler) handlePaymentFailed(data map[string]interface{}) {
	paymentEntity, ok := webhookPaymentEntity(data)
	if !ok {
		return
	}

	gatewayOrderID, _ := paymentEntity["order_id"].(string)

	var paymentRecord order.Payment
	result := h.db.Where("gateway_order_id = ?", gatewayOrderID).First(&paymentRecord)
	if result.Error != nil {
		return
	}
	if paymentRecord.Status == order.PaymentStatusPaid {
		return
	}

	h.db.Model(&paymentRecord).Update("status", order.PaymentStatusFailed)

	h.db.Model(&order.Order{}).Where("id = ?", paymentRecord.OrderID).Updates(map[string]interface{}{
		"payment_status": order.PaymentStatusFailed,
	})
}

// webhookPaymentEntity extracts payload.payment.entity from webhook data.
func webhookPaymentEntity(data map[string]interface{}) (map[string]interface{}, bool) {
	payload, ok := data["payload"].(map[string]interface{})
	if !ok {
		return nil, false
	}
	paymentWrap, ok := payload["payment"].(map[string]interface{})
	if !ok {
		return nil, false
	}
	entity, ok := paymentWrap["entity"].(map[string]interface{})
	return entity, ok
}

// verifyWebhookSignature verifies the Razorpay webhook signature
func (h *PaymentHandler) verifyWebhookSignature(body, signature string) bool {
	if h.config.External.Razorpay.WebhookSecret == "" {
		// Without a configured secret, only accept webhooks in development
		return h.config.IsDevelopment()
	}

	mac := hmac.New(sha256.New, []byte(h.config.External.Razorpay.WebhookSecret))
	mac.Write([]byte(body))
	expectedSignature := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expectedSignature))
}
