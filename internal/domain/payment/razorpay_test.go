// internal/domain/payment/razorpay_test.go
package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeSignature(t *testing.T) {
	// HMAC-SHA256 of "order_id|payment_id" keyed with the secret.
	got := ComputeSignature("order_test123", "pay_test456", "secret")
	again := ComputeSignature("order_test123", "pay_test456", "secret")
	assert.Equal(t, got, again)
	assert.Len(t, got, 64) // hex-encoded SHA-256

	assert.NotEqual(t, got, ComputeSignature("order_test124", "pay_test456", "secret"))
	assert.NotEqual(t, got, ComputeSignature("order_test123", "pay_test457", "secret"))
	assert.NotEqual(t, got, ComputeSignature("order_test123", "pay_test456", "other"))
}

func TestVerifySignature(t *testing.T) {
	r := &RazorpayService{keySecret: "test_secret"}

	valid := ComputeSignature("order_abc", "pay_xyz", "test_secret")
	assert.True(t, r.verifySignature("order_abc", "pay_xyz", valid))
	assert.False(t, r.verifySignature("order_abc", "pay_xyz", valid+"0"))
	assert.False(t, r.verifySignature("order_abc", "pay_other", valid))
	assert.False(t, r.verifySignature("order_abc", "pay_xyz", ""))
}

func TestHasLiveCredentials(t *testing.T) {
	assert.True(t, hasLiveCredentials("rzp_live_abc", "secret"))
	assert.True(t, hasLiveCredentials("rzp_test_abc", "secret"))

	// Anything else runs in test mode.
	assert.False(t, hasLiveCredentials("", ""))
	assert.False(t, hasLiveCredentials("rzp_live_abc", ""))
	assert.False(t, hasLiveCredentials("sk_live_abc", "secret"))
}

func TestMockOrder(t *testing.T) {
	r := &RazorpayService{testMode: true}

	req := CreateOrderRequest{Amount: 424800, Currency: "INR", Receipt: "ORD-1-0001"}
	o := r.mockOrder(req, 42)

	assert.Contains(t, o.ID, "order_test_42_")
	assert.Equal(t, int64(424800), o.Amount)
	assert.Equal(t, "INR", o.Currency)
	assert.Equal(t, "created", o.Status)
}
