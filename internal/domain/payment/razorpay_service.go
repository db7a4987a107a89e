// internal/domain/payment/razorpay_service.go
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/your-org/eyewear-backend/internal/config"
	"github.com/your-org/eyewear-backend/internal/domain/order"
)

// RazorpayService handles Razorpay payment processing. Without real
// rzp_-prefixed credentials it runs in test mode: orders are mocked locally
// and signature verification is skipped, so checkout works end to end in
// development.
type RazorpayService struct {
	db         *gorm.DB
	config     *config.Config
	keyID      string
	keySecret  string
	baseURL    string
	testMode   bool
	httpClient *http.Client
}

// NewRazorpayService creates a new Razorpay service
func NewRazorpayService(db *gorm.DB, cfg *config.Config) *RazorpayService {
	keyID := cfg.External.Razorpay.KeyID
	keySecret := cfg.External.Razorpay.KeySecret

	return &RazorpayService{
		db:        db,
		config:    cfg,
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   cfg.External.Razorpay.BaseURL,
		testMode:  !hasLiveCredentials(keyID, keySecret),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// hasLiveCredentials reports whether real Razorpay keys are configured.
func hasLiveCredentials(keyID, keySecret string) bool {
	return keyID != "" && keySecret != "" && strings.HasPrefix(keyID, "rzp_")
}

// TestMode reports whether the gateway is mocked.
func (r *RazorpayService) TestMode() bool {
	return r.testMode
}

// RazorpayOrder is the gateway's order object
type RazorpayOrder struct {
	ID        string                 `json:"id"`
	Entity    string                 `json:"entity"`
	Amount    int64                  `json:"amount"`
	Currency  string                 `json:"currency"`
	Receipt   string                 `json:"receipt"`
	Status    string                 `json:"status"`
	Notes     map[string]interface{} `json:"notes"`
	CreatedAt int64                  `json:"created_at"`
}

// CreateOrderRequest is the gateway order creation payload
type CreateOrderRequest struct {
	Amount   int64                  `json:"amount"`
	Currency string                 `json:"currency"`
	Receipt  string                 `json:"receipt"`
	Notes    map[string]interface{} `json:"notes,omitempty"`
}

// PaymentVerificationRequest carries the gateway callback identifiers
type PaymentVerificationRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature"`
	OrderID           uint   `json:"order_id" binding:"required"`
}

// PaymentInitiationResponse is handed to the client to open the payment flow
type PaymentInitiationResponse struct {
	RazorpayOrderID string       `json:"razorpay_order_id"`
	Amount          int64        `json:"amount"`
	Currency        string       `json:"currency"`
	Receipt         string       `json:"receipt"`
	KeyID           string       `json:"key_id"`
	TestMode        bool         `json:"test_mode"`
	OrderDetails    *order.Order `json:"order_details"`
}

// CreatePaymentOrder creates a Razorpay order for an unpaid pending order.
func (r *RazorpayService) CreatePaymentOrder(ctx context.Context, orderID uint) (*PaymentInitiationResponse, error) {
	if orderID == 0 {
		return nil, fmt.Errorf("invalid order ID")
	}

	var orderDetails order.Order
	err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", orderID).First(&orderDetails).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if orderDetails.Status != order.OrderStatusPending {
		return nil, fmt.Errorf("order is not in correct status for payment. Current status: %s", orderDetails.Status)
	}
	if orderDetails.PaymentStatus == order.PaymentStatusPaid {
		return nil, fmt.Errorf("order is already paid")
	}

	createReq := CreateOrderRequest{
		Amount:   orderDetails.TotalAmount,
		Currency: orderDetails.Currency,
		Receipt:  orderDetails.OrderNumber,
		Notes: map[string]interface{}{
			"order_id": fmt.Sprintf("%d", orderID),
		},
	}

	var razorpayOrder *RazorpayOrder
	if r.testMode {
		razorpayOrder = r.mockOrder(createReq, orderID)
	} else {
		razorpayOrder, err = r.createRazorpayOrder(ctx, createReq)
		if err != nil {
			return nil, fmt.Errorf("failed to create Razorpay order: %w", err)
		}
	}

	// Track the gateway handle on a pending payment row.
	paymentRow := order.Payment{
		OrderID:        orderID,
		PaymentMethod:  "razorpay",
		GatewayOrderID: razorpayOrder.ID,
		Amount:         orderDetails.TotalAmount,
		Currency:       orderDetails.Currency,
		Status:         order.PaymentStatusPending,
		Gateway:        "razorpay",
	}
	if err := r.db.WithContext(ctx).Create(&paymentRow).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment attempt: %w", err)
	}

	return &PaymentInitiationResponse{
		RazorpayOrderID: razorpayOrder.ID,
		Amount:          orderDetails.TotalAmount,
		Currency:        orderDetails.Currency,
		Receipt:         orderDetails.OrderNumber,
		KeyID:           r.keyID,
		TestMode:        r.testMode,
		OrderDetails:    &orderDetails,
	}, nil
}

// VerifyPayment checks the gateway signature and settles the payment row.
// Signature checks are skipped in test mode.
func (r *RazorpayService) VerifyPayment(ctx context.Context, req *PaymentVerificationRequest) error {
	if !r.testMode {
		if !r.verifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
			return fmt.Errorf("payment signature verification failed")
		}
	}

	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&order.Payment{}).
		Where("order_id = ? AND gateway_order_id = ?", req.OrderID, req.RazorpayOrderID).
		Updates(map[string]interface{}{
			"status":              order.PaymentStatusPaid,
			"payment_provider_id": req.RazorpayPaymentID,
			"processed_at":        now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update payment record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no payment attempt found for order")
	}

	return nil
}

// HandlePaymentFailure records a gateway failure. The order itself stays
// pending so the customer can retry.
func (r *RazorpayService) HandlePaymentFailure(ctx context.Context, orderID uint, reason, code string) error {
	response, _ := json.Marshal(map[string]string{
		"reason": reason,
		"code":   code,
	})

	result := r.db.WithContext(ctx).Model(&order.Payment{}).
		Where("order_id = ? AND status = ?", orderID, order.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":           order.PaymentStatusFailed,
			"gateway_response": string(response),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to record payment failure: %w", result.Error)
	}

	return nil
}

// HandlePaymentCancellation records that the customer dismissed the payment
// flow before completing it.
func (r *RazorpayService) HandlePaymentCancellation(ctx context.Context, orderID uint) error {
	result := r.db.WithContext(ctx).Model(&order.Payment{}).
		Where("order_id = ? AND status = ?", orderID, order.PaymentStatusPending).
		Update("status", order.PaymentStatusCancelled)
	if result.Error != nil {
		return fmt.Errorf("failed to record payment cancellation: %w", result.Error)
	}
	return nil
}

// GetPaymentStatus returns the latest payment row for an order
func (r *RazorpayService) GetPaymentStatus(ctx context.Context, orderID uint) (*order.Payment, error) {
	var p order.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("no payment found for order")
		}
		return nil, fmt.Errorf("failed to get payment status: %w", err)
	}
	return &p, nil
}

// ComputeSignature derives the expected gateway signature for an order and
// payment id pair.
func ComputeSignature(razorpayOrderID, razorpayPaymentID, keySecret string) string {
	mac := hmac.New(sha256.New, []byte(keySecret))
	mac.Write([]byte(razorpayOrderID + "|" + razorpayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (r *RazorpayService) verifySignature(razorpayOrderID, razorpayPaymentID, signature string) bool {
	expected := ComputeSignature(razorpayOrderID, razorpayPaymentID, r.keySecret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// mockOrder fabricates a gateway order locally for test mode.
func (r *RazorpayService) mockOrder(req CreateOrderRequest, orderID uint) *RazorpayOrder {
	now := time.Now().UTC()
	return &RazorpayOrder{
		ID:        fmt.Sprintf("order_test_%d_%d", orderID, now.UnixMilli()),
		Entity:    "order",
		Amount:    req.Amount,
		Currency:  req.Currency,
		Receipt:   req.Receipt,
		Status:    "created",
		Notes:     req.Notes,
		CreatedAt: now.Unix(),
	}
}

func (r *RazorpayService) createRazorpayOrder(ctx context.Context, req CreateOrderRequest) (*RazorpayOrder, error) {
	response, err := r.makeAPICall(ctx, http.MethodPost, "/orders", req)
	if err != nil {
		return nil, err
	}

	var razorpayOrder RazorpayOrder
	if err := json.Unmarshal(response, &razorpayOrder); err != nil {
		return nil, fmt.Errorf("failed to parse Razorpay order response: %w", err)
	}

	return &razorpayOrder, nil
}

// makeAPICall makes HTTP calls to the Razorpay API
func (r *RazorpayService) makeAPICall(ctx context.Context, method, endpoint string, data interface{}) ([]byte, error) {
	var reqBody []byte
	var err error

	if data != nil {
		reqBody, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request data: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(r.keyID, r.keySecret)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make API call: %w", err)
	}
	defer resp.Body.Close()

	var respBody bytes.Buffer
	if _, err := respBody.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("API call failed with status %d: %s", resp.StatusCode, respBody.String())
	}

	return respBody.Bytes(), nil
}
