// internal/domain/checkout/service_test.go
package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/eyewear-backend/internal/domain/order"
	"github.com/your-org/eyewear-backend/internal/domain/payment"
)

type fakeOrders struct {
	createErr    error
	lookupErr    error
	markPaidErr  error
	created      []uint
	markedPaid   []uint
	createdOrder *order.Order
	ownerID      uint
}

func (f *fakeOrders) CreateOrder(ctx context.Context, userID uint, email, source string, shippingAddress order.Address, notes string) (*order.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	o := f.createdOrder
	if o == nil {
		o = &order.Order{ID: 1, UserID: userID, Email: email, Source: source, Status: order.OrderStatusPending}
	}
	f.created = append(f.created, o.ID)
	return o, nil
}

func (f *fakeOrders) GetUserOrder(userID, orderID uint) (*order.Order, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if f.ownerID != 0 && f.ownerID != userID {
		return nil, errors.New("order not found")
	}
	return &order.Order{ID: orderID, UserID: userID}, nil
}

func (f *fakeOrders) MarkPaid(ctx context.Context, orderID uint) error {
	if f.markPaidErr != nil {
		return f.markPaidErr
	}
	f.markedPaid = append(f.markedPaid, orderID)
	return nil
}

type fakeGateway struct {
	createErr     error
	verifyErr     error
	created       []uint
	verified      []uint
	failures      []uint
	cancellations []uint
}

func (f *fakeGateway) CreatePaymentOrder(ctx context.Context, orderID uint) (*payment.PaymentInitiationResponse, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, orderID)
	return &payment.PaymentInitiationResponse{RazorpayOrderID: "order_test_1", Amount: 100, TestMode: true}, nil
}

func (f *fakeGateway) VerifyPayment(ctx context.Context, req *payment.PaymentVerificationRequest) error {
	if f.verifyErr != nil {
		return f.verifyErr
	}
	f.verified = append(f.verified, req.OrderID)
	return nil
}

func (f *fakeGateway) HandlePaymentFailure(ctx context.Context, orderID uint, reason, code string) error {
	f.failures = append(f.failures, orderID)
	return nil
}

func (f *fakeGateway) HandlePaymentCancellation(ctx context.Context, orderID uint) error {
	f.cancellations = append(f.cancellations, orderID)
	return nil
}

type fakeCart struct {
	gateErr  error
	clearErr error
	cleared  int
}

func (f *fakeCart) CanProceedToCheckout(ctx context.Context, userID uint, role string) error {
	return f.gateErr
}

func (f *fakeCart) ClearCart(ctx context.Context, userID uint) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cleared++
	return nil
}

func validAddress() order.Address {
	return order.Address{
		FullName:     "Asha Rao",
		AddressLine1: "12 MG Road",
		City:         "Bengaluru",
		State:        "Karnataka",
		Pincode:      "560001",
		Phone:        "9876543210",
	}
}

func newTestService(orders *fakeOrders, gateway *fakeGateway, cart *fakeCart) *Service {
	return NewService(orders, gateway, cart, nil)
}

func TestValidateAddress(t *testing.T) {
	t.Run("valid address has no errors", func(t *testing.T) {
		addr := validAddress()
		assert.Empty(t, ValidateAddress(&addr))
	})

	t.Run("missing fields reported per field", func(t *testing.T) {
		addr := order.Address{}
		errs := ValidateAddress(&addr)
		for _, field := range []string{"full_name", "address_line1", "city", "state", "pincode", "phone"} {
			assert.Contains(t, errs, field)
		}
	})

	t.Run("phone must start with 6-9 and be 10 digits", func(t *testing.T) {
		addr := validAddress()
		for _, phone := range []string{"1234567890", "98765", "98765432101", "98765abcde", "5876543210"} {
			addr.Phone = phone
			assert.Contains(t, ValidateAddress(&addr), "phone", "phone %q", phone)
		}

		for _, phone := range []string{"6000000000", "7123456789", "8999999999", "9876543210"} {
			addr.Phone = phone
			assert.NotContains(t, ValidateAddress(&addr), "phone", "phone %q", phone)
		}
	})

	t.Run("pincode must be 6 digits", func(t *testing.T) {
		addr := validAddress()
		for _, pin := range []string{"5600", "5600011", "56000a"} {
			addr.Pincode = pin
			assert.Contains(t, ValidateAddress(&addr), "pincode", "pincode %q", pin)
		}
	})
}

func TestPlaceOrderPipeline(t *testing.T) {
	req := &PlaceOrderRequest{ShippingAddress: validAddress()}

	t.Run("happy path creates order then payment order", func(t *testing.T) {
		orders := &fakeOrders{}
		gateway := &fakeGateway{}
		svc := newTestService(orders, gateway, &fakeCart{})

		resp, err := svc.PlaceOrder(context.Background(), 7, "a@b.c", "customer", req)
		require.NoError(t, err)
		assert.Equal(t, []uint{1}, orders.created)
		assert.Equal(t, []uint{1}, gateway.created)
		assert.Equal(t, order.SourceCustomer, resp.Order.Source)
		assert.True(t, resp.Payment.TestMode)
	})

	t.Run("invalid address short-circuits before order creation", func(t *testing.T) {
		orders := &fakeOrders{}
		gateway := &fakeGateway{}
		svc := newTestService(orders, gateway, &fakeCart{})

		badReq := &PlaceOrderRequest{ShippingAddress: order.Address{}}
		_, err := svc.PlaceOrder(context.Background(), 7, "a@b.c", "customer", badReq)

		var vErr *AddressValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Empty(t, orders.created)
		assert.Empty(t, gateway.created)
	})

	t.Run("cart gate failure short-circuits before order creation", func(t *testing.T) {
		orders := &fakeOrders{}
		gateway := &fakeGateway{}
		svc := newTestService(orders, gateway, &fakeCart{gateErr: errors.New("select lenses first")})

		_, err := svc.PlaceOrder(context.Background(), 7, "a@b.c", "customer", req)

		var stageErr *StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, StageOrder, stageErr.Stage)
		assert.Empty(t, orders.created)
		assert.Empty(t, gateway.created)
	})

	t.Run("order failure never reaches the gateway", func(t *testing.T) {
		orders := &fakeOrders{createErr: errors.New("cart is empty")}
		gateway := &fakeGateway{}
		svc := newTestService(orders, gateway, &fakeCart{})

		_, err := svc.PlaceOrder(context.Background(), 7, "a@b.c", "customer", req)

		var stageErr *StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, StageOrder, stageErr.Stage)
		assert.Empty(t, gateway.created)
	})

	t.Run("payment init failure is stage-distinct and order survives", func(t *testing.T) {
		orders := &fakeOrders{}
		gateway := &fakeGateway{createErr: errors.New("gateway down")}
		svc := newTestService(orders, gateway, &fakeCart{})

		_, err := svc.PlaceOrder(context.Background(), 7, "a@b.c", "customer", req)

		var stageErr *StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, StagePaymentInit, stageErr.Stage)
		// The pending order was already created and is kept.
		assert.Equal(t, []uint{1}, orders.created)
	})

	t.Run("reseller role maps to reseller source", func(t *testing.T) {
		orders := &fakeOrders{}
		svc := newTestService(orders, &fakeGateway{}, &fakeCart{})

		resp, err := svc.PlaceOrder(context.Background(), 7, "a@b.c", "reseller", req)
		require.NoError(t, err)
		assert.Equal(t, order.SourceReseller, resp.Order.Source)
	})
}

func TestCompletePayment(t *testing.T) {
	t.Run("verified confirms order and clears cart", func(t *testing.T) {
		orders := &fakeOrders{}
		gateway := &fakeGateway{}
		cart := &fakeCart{}
		svc := newTestService(orders, gateway, cart)

		result, err := svc.CompletePayment(context.Background(), 7,
			VerifiedOutcome(1, "order_x", "pay_y", "sig"))
		require.NoError(t, err)

		assert.Equal(t, []uint{1}, gateway.verified)
		assert.Equal(t, []uint{1}, orders.markedPaid)
		assert.Equal(t, 1, cart.cleared)
		assert.True(t, result.CartCleared)
		assert.Equal(t, "confirmed", result.Status)
	})

	t.Run("order owned by another user is rejected before settlement", func(t *testing.T) {
		orders := &fakeOrders{ownerID: 8}
		gateway := &fakeGateway{}
		cart := &fakeCart{}
		svc := newTestService(orders, gateway, cart)

		_, err := svc.CompletePayment(context.Background(), 7,
			VerifiedOutcome(1, "order_x", "pay_y", "sig"))
		require.Error(t, err)

		assert.Empty(t, gateway.verified)
		assert.Empty(t, orders.markedPaid)
		assert.Zero(t, cart.cleared)
	})

	t.Run("verification failure is terminal and keeps the cart", func(t *testing.T) {
		orders := &fakeOrders{}
		gateway := &fakeGateway{verifyErr: errors.New("bad signature")}
		cart := &fakeCart{}
		svc := newTestService(orders, gateway, cart)

		_, err := svc.CompletePayment(context.Background(), 7,
			VerifiedOutcome(1, "order_x", "pay_y", "sig"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "contact support")

		assert.Empty(t, orders.markedPaid)
		assert.Zero(t, cart.cleared)
	})

	t.Run("failed outcome records failure and keeps the cart", func(t *testing.T) {
		gateway := &fakeGateway{}
		cart := &fakeCart{}
		svc := newTestService(&fakeOrders{}, gateway, cart)

		result, err := svc.CompletePayment(context.Background(), 7,
			FailedOutcome(1, "card declined", "BAD_REQUEST_ERROR"))
		require.NoError(t, err)

		assert.Equal(t, []uint{1}, gateway.failures)
		assert.Zero(t, cart.cleared)
		assert.Equal(t, "payment_failed", result.Status)
	})

	t.Run("cancelled outcome records dismissal and keeps the cart", func(t *testing.T) {
		gateway := &fakeGateway{}
		cart := &fakeCart{}
		svc := newTestService(&fakeOrders{}, gateway, cart)

		result, err := svc.CompletePayment(context.Background(), 7, CancelledOutcome(1))
		require.NoError(t, err)

		assert.Equal(t, []uint{1}, gateway.cancellations)
		assert.Zero(t, cart.cleared)
		assert.Equal(t, "payment_cancelled", result.Status)
	})

	t.Run("clear cart failure surfaces after confirmation", func(t *testing.T) {
		orders := &fakeOrders{}
		cart := &fakeCart{clearErr: errors.New("redis down")}
		svc := newTestService(orders, &fakeGateway{}, cart)

		_, err := svc.CompletePayment(context.Background(), 7,
			VerifiedOutcome(1, "order_x", "pay_y", "sig"))
		require.Error(t, err)
		// The order itself was still confirmed.
		assert.Equal(t, []uint{1}, orders.markedPaid)
	})
}
