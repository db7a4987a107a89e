// internal/domain/order/entity_test.go
package order

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidStatusTransition(t *testing.T) {
	allowed := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusConfirmed},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusConfirmed, OrderStatusProcessing},
		{OrderStatusConfirmed, OrderStatusCancelled},
		{OrderStatusProcessing, OrderStatusShipped},
		{OrderStatusProcessing, OrderStatusCancelled},
		{OrderStatusShipped, OrderStatusDelivered},
		{OrderStatusDelivered, OrderStatusReturnRequested},
	}
	for _, tt := range allowed {
		assert.True(t, IsValidStatusTransition(tt.from, tt.to), "%s -> %s should be allowed", tt.from, tt.to)
	}

	denied := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusShipped},
		{OrderStatusPending, OrderStatusDelivered},
		{OrderStatusShipped, OrderStatusCancelled},
		{OrderStatusDelivered, OrderStatusCancelled},
		{OrderStatusCancelled, OrderStatusConfirmed},
		{OrderStatusReturnRequested, OrderStatusDelivered},
		{OrderStatusDelivered, OrderStatusPending},
	}
	for _, tt := range denied {
		assert.False(t, IsValidStatusTransition(tt.from, tt.to), "%s -> %s should be denied", tt.from, tt.to)
	}
}

func TestCanBeCancelled(t *testing.T) {
	cancellable := []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing}
	for _, status := range cancellable {
		assert.True(t, (&Order{Status: status}).CanBeCancelled(), "status %s", status)
	}

	notCancellable := []OrderStatus{OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturnRequested}
	for _, status := range notCancellable {
		assert.False(t, (&Order{Status: status}).CanBeCancelled(), "status %s", status)
	}
}

func TestCanBeReturned(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("delivered within window", func(t *testing.T) {
		deliveredAt := now.Add(-10 * 24 * time.Hour)
		o := Order{Status: OrderStatusDelivered, DeliveredAt: &deliveredAt}
		assert.True(t, o.CanBeReturned(now))
	})

	t.Run("delivered exactly at window edge", func(t *testing.T) {
		deliveredAt := now.Add(-ReturnWindow)
		o := Order{Status: OrderStatusDelivered, DeliveredAt: &deliveredAt}
		assert.True(t, o.CanBeReturned(now))
	})

	t.Run("delivered past window", func(t *testing.T) {
		deliveredAt := now.Add(-15 * 24 * time.Hour)
		o := Order{Status: OrderStatusDelivered, DeliveredAt: &deliveredAt}
		assert.False(t, o.CanBeReturned(now))
	})

	t.Run("not delivered", func(t *testing.T) {
		o := Order{Status: OrderStatusShipped}
		assert.False(t, o.CanBeReturned(now))
	})

	t.Run("delivered status without timestamp", func(t *testing.T) {
		o := Order{Status: OrderStatusDelivered}
		assert.False(t, o.CanBeReturned(now))
	})
}

func TestGenerateOrderNumber(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	number := GenerateOrderNumber(now)
	assert.True(t, strings.HasPrefix(number, "ORD-1700000000000-"), number)

	auth := GenerateReturnAuthNumber(now)
	assert.True(t, strings.HasPrefix(auth, "RET-1700000000000-"), auth)
}

func TestCalculateTax(t *testing.T) {
	assert.Equal(t, int64(18000), CalculateTax(100000))
	assert.Equal(t, int64(0), CalculateTax(0))
	// Integer paise math truncates fractions.
	assert.Equal(t, int64(17), CalculateTax(99))
}
