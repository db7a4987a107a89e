// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/your-org/eyewear-backend/internal/config"
	"github.com/your-org/eyewear-backend/internal/domain/order"
	"github.com/your-org/eyewear-backend/internal/domain/payment"
)

// Pipeline stages, used to tell order-creation failures apart from
// payment-initiation failures.
const (
	StageOrder       = "order"
	StagePaymentInit = "payment_init"
)

// StageError reports which pipeline stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// OrderCreator is the slice of the order service checkout needs.
type OrderCreator interface {
	CreateOrder(ctx context.Context, userID uint, email, source string, shippingAddress order.Address, notes string) (*order.Order, error)
	GetUserOrder(userID, orderID uint) (*order.Order, error)
	MarkPaid(ctx context.Context, orderID uint) error
}

// PaymentGateway is the slice of the payment service checkout needs.
type PaymentGateway interface {
	CreatePaymentOrder(ctx context.Context, orderID uint) (*payment.PaymentInitiationResponse, error)
	VerifyPayment(ctx context.Context, req *payment.PaymentVerificationRequest) error
	HandlePaymentFailure(ctx context.Context, orderID uint, reason, code string) error
	HandlePaymentCancellation(ctx context.Context, orderID uint) error
}

// CartGate is the slice of the cart service checkout needs.
type CartGate interface {
	CanProceedToCheckout(ctx context.Context, userID uint, role string) error
	ClearCart(ctx context.Context, userID uint) error
}

// Service orchestrates the checkout pipeline: cart gate, order creation,
// payment initiation and payment settlement.
type Service struct {
	orders  OrderCreator
	gateway PaymentGateway
	cart    CartGate
	config  *config.Config
}

// NewService creates a new checkout service
func NewService(orders OrderCreator, gateway PaymentGateway, cart CartGate, cfg *config.Config) *Service {
	return &Service{
		orders:  orders,
		gateway: gateway,
		cart:    cart,
		config:  cfg,
	}
}

var (
	phonePattern   = regexp.MustCompile(`^[6-9]\d{9}$`)
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
)

// ValidateAddress checks the shipping address and returns per-field errors.
// An empty map means the address is valid.
func ValidateAddress(addr *order.Address) map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(addr.FullName) == "" {
		errors["full_name"] = "Full name is required"
	}
	if strings.TrimSpace(addr.AddressLine1) == "" {
		errors["address_line1"] = "Address is required"
	}
	if strings.TrimSpace(addr.City) == "" {
		errors["city"] = "City is required"
	}
	if strings.TrimSpace(addr.State) == "" {
		errors["state"] = "State is required"
	}

	pincode := strings.TrimSpace(addr.Pincode)
	if pincode == "" {
		errors["pincode"] = "Pincode is required"
	} else if !pincodePattern.MatchString(pincode) {
		errors["pincode"] = "Pincode must be 6 digits"
	}

	phone := strings.TrimSpace(addr.Phone)
	if phone == "" {
		errors["phone"] = "Phone number is required"
	} else if !phonePattern.MatchString(phone) {
		errors["phone"] = "Enter a valid 10-digit mobile number"
	}

	return errors
}

// PlaceOrderRequest carries the checkout submission
type PlaceOrderRequest struct {
	ShippingAddress order.Address `json:"shipping_address" binding:"required"`
	Notes           string        `json:"notes"`
}

// PlaceOrderResponse is returned when the payment flow is ready to open
type PlaceOrderResponse struct {
	Order   *order.Order                       `json:"order"`
	Payment *payment.PaymentInitiationResponse `json:"payment"`
}

// PlaceOrder runs the two-stage checkout pipeline: create the pending order,
// then initiate payment at the gateway. A payment-init failure leaves the
// pending order in place; the customer retries payment against it.
func (s *Service) PlaceOrder(ctx context.Context, userID uint, email, role string, req *PlaceOrderRequest) (*PlaceOrderResponse, error) {
	if fieldErrors := ValidateAddress(&req.ShippingAddress); len(fieldErrors) > 0 {
		return nil, &AddressValidationError{Fields: fieldErrors}
	}

	if err := s.cart.CanProceedToCheckout(ctx, userID, role); err != nil {
		return nil, &StageError{Stage: StageOrder, Err: err}
	}

	source := order.SourceCustomer
	if role == "reseller" {
		source = order.SourceReseller
	}

	createdOrder, err := s.orders.CreateOrder(ctx, userID, email, source, req.ShippingAddress, req.Notes)
	if err != nil {
		return nil, &StageError{Stage: StageOrder, Err: err}
	}

	paymentInit, err := s.gateway.CreatePaymentOrder(ctx, createdOrder.ID)
	if err != nil {
		return nil, &StageError{Stage: StagePaymentInit, Err: err}
	}

	return &PlaceOrderResponse{
		Order:   createdOrder,
		Payment: paymentInit,
	}, nil
}

// AddressValidationError carries per-field address errors.
type AddressValidationError struct {
	Fields map[string]string
}

func (e *AddressValidationError) Error() string {
	return fmt.Sprintf("invalid shipping address (%d field errors)", len(e.Fields))
}

// OutcomeKind is the closed set of ways a payment flow can end.
type OutcomeKind string

const (
	OutcomeVerified  OutcomeKind = "verified"
	OutcomeFailed    OutcomeKind = "failed"
	OutcomeCancelled OutcomeKind = "cancelled"
)

// PaymentOutcome reports how the client-side payment flow ended. Construct
// with one of the Outcome constructors.
type PaymentOutcome struct {
	Kind    OutcomeKind
	OrderID uint

	// Verified fields
	RazorpayOrderID   string
	RazorpayPaymentID string
	Signature         string

	// Failed fields
	FailureReason string
	FailureCode   string
}

// VerifiedOutcome reports a completed gateway payment awaiting verification.
func VerifiedOutcome(orderID uint, razorpayOrderID, razorpayPaymentID, signature string) PaymentOutcome {
	return PaymentOutcome{
		Kind:              OutcomeVerified,
		OrderID:           orderID,
		RazorpayOrderID:   razorpayOrderID,
		RazorpayPaymentID: razorpayPaymentID,
		Signature:         signature,
	}
}

// FailedOutcome reports a gateway-declared payment failure.
func FailedOutcome(orderID uint, reason, code string) PaymentOutcome {
	return PaymentOutcome{
		Kind:          OutcomeFailed,
		OrderID:       orderID,
		FailureReason: reason,
		FailureCode:   code,
	}
}

// CancelledOutcome reports the customer dismissing the payment flow.
func CancelledOutcome(orderID uint) PaymentOutcome {
	return PaymentOutcome{
		Kind:    OutcomeCancelled,
		OrderID: orderID,
	}
}

// CompletePaymentResult describes the settled state after an outcome.
type CompletePaymentResult struct {
	OrderID     uint   `json:"order_id"`
	Status      string `json:"status"`
	CartCleared bool   `json:"cart_cleared"`
	Message     string `json:"message"`
}

// CompletePayment settles a payment outcome. Only a verified payment
// confirms the order and clears the cart; every other outcome leaves the
// order unpaid and the cart intact. The cart clear is awaited so the client
// never sees a stale cart after a confirmed order.
func (s *Service) CompletePayment(ctx context.Context, userID uint, outcome PaymentOutcome) (*CompletePaymentResult, error) {
	// The order must belong to the caller; outcomes name an arbitrary order id.
	if _, err := s.orders.GetUserOrder(userID, outcome.OrderID); err != nil {
		return nil, fmt.Errorf("order not found: %w", err)
	}

	switch outcome.Kind {
	case OutcomeVerified:
		verifyReq := &payment.PaymentVerificationRequest{
			RazorpayOrderID:   outcome.RazorpayOrderID,
			RazorpayPaymentID: outcome.RazorpayPaymentID,
			RazorpaySignature: outcome.Signature,
			OrderID:           outcome.OrderID,
		}
		if err := s.gateway.VerifyPayment(ctx, verifyReq); err != nil {
			// Terminal: money may have moved but the signature did not
			// check out. The cart stays untouched.
			return nil, fmt.Errorf("payment verification failed, please contact support: %w", err)
		}

		if err := s.orders.MarkPaid(ctx, outcome.OrderID); err != nil {
			return nil, fmt.Errorf("failed to confirm order: %w", err)
		}

		if err := s.cart.ClearCart(ctx, userID); err != nil {
			return nil, fmt.Errorf("order confirmed but cart could not be cleared: %w", err)
		}

		return &CompletePaymentResult{
			OrderID:     outcome.OrderID,
			Status:      "confirmed",
			CartCleared: true,
			Message:     "Payment verified and order confirmed",
		}, nil

	case OutcomeFailed:
		if err := s.gateway.HandlePaymentFailure(ctx, outcome.OrderID, outcome.FailureReason, outcome.FailureCode); err != nil {
			return nil, err
		}
		return &CompletePaymentResult{
			OrderID: outcome.OrderID,
			Status:  "payment_failed",
			Message: "Payment failed, your order is saved and you can retry payment",
		}, nil

	case OutcomeCancelled:
		if err := s.gateway.HandlePaymentCancellation(ctx, outcome.OrderID); err != nil {
			return nil, err
		}
		return &CompletePaymentResult{
			OrderID: outcome.OrderID,
			Status:  "payment_cancelled",
			Message: "Payment cancelled, your order is saved and you can retry payment",
		}, nil

	default:
		return nil, fmt.Errorf("unknown payment outcome: %s", outcome.Kind)
	}
}
