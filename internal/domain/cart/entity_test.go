// internal/domain/cart/entity_test.go
package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/your-org/eyewear-backend/internal/domain/product"
)

func TestCartItemLineTotal(t *testing.T) {
	t.Run("frame only", func(t *testing.T) {
		item := CartItem{Price: 250000, Quantity: 2}
		assert.Equal(t, int64(500000), item.LineTotal())
	})

	t.Run("frame plus lens multiplies both", func(t *testing.T) {
		item := CartItem{Price: 250000, LensPrice: 80000, Quantity: 3}
		assert.Equal(t, int64(990000), item.LineTotal())
	})
}

func TestCartItemHasLens(t *testing.T) {
	assert.False(t, (&CartItem{}).HasLens())
	assert.False(t, (&CartItem{LensChoice: LensChoiceNone}).HasLens())
	assert.False(t, (&CartItem{LensChoice: LensChoiceConfigured}).HasLens())
	assert.True(t, (&CartItem{LensChoice: LensChoiceConfigured, LensID: "lens-blu-cut-1"}).HasLens())
}

func TestCartItemHasLensDecision(t *testing.T) {
	assert.False(t, (&CartItem{}).HasLensDecision())
	assert.True(t, (&CartItem{LensChoice: LensChoiceNone}).HasLensDecision())
	assert.True(t, (&CartItem{LensChoice: LensChoiceConfigured, LensID: "lens-blu-cut-1"}).HasLensDecision())
}

func TestCheckoutLensGate(t *testing.T) {
	eyeglasses := product.Product{Category: product.CategoryEyeglasses}
	sunglasses := product.Product{Category: product.CategorySunglasses}

	t.Run("undecided eyeglasses item blocks", func(t *testing.T) {
		assert.True(t, lensGateBlocks(&eyeglasses, &CartItem{}))
	})

	t.Run("explicit frame-only choice passes", func(t *testing.T) {
		assert.False(t, lensGateBlocks(&eyeglasses, &CartItem{LensChoice: LensChoiceNone}))
	})

	t.Run("configured lenses pass", func(t *testing.T) {
		assert.False(t, lensGateBlocks(&eyeglasses, &CartItem{LensChoice: LensChoiceConfigured, LensID: "lens-progressive-1"}))
	})

	t.Run("non-eyeglasses items never block", func(t *testing.T) {
		assert.False(t, lensGateBlocks(&sunglasses, &CartItem{}))
	})
}

func TestCalculateTotals(t *testing.T) {
	s := &Service{}

	t.Run("empty cart", func(t *testing.T) {
		totals := s.calculateTotals(nil)
		assert.Equal(t, 0, totals.ItemCount)
		assert.Equal(t, int64(0), totals.TotalAmount)
	})

	t.Run("mixed items sum frame and lens prices", func(t *testing.T) {
		items := []CartItem{
			{Price: 250000, Quantity: 1},
			{Price: 180000, LensPrice: 120000, LensChoice: LensChoiceConfigured, LensID: "lens-bifocal-1", Quantity: 2},
		}

		totals := s.calculateTotals(items)
		assert.Equal(t, 2, totals.ItemCount)
		assert.Equal(t, 3, totals.TotalQuantity)
		assert.Equal(t, int64(250000+2*(180000+120000)), totals.SubTotal)
		assert.Equal(t, totals.SubTotal, totals.TotalAmount)
	})
}
