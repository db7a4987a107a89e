// internal/domain/order/service_test.go
package order

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/eyewear-backend/internal/domain/cart"
	"github.com/your-org/eyewear-backend/internal/domain/lens"
	"github.com/your-org/eyewear-backend/internal/domain/product"
)

func TestOrderItemFromCart(t *testing.T) {
	t.Run("frame-only line", func(t *testing.T) {
		item := orderItemFromCart(9, &cart.CartItemResponse{
			ProductID:    "frame-1",
			Quantity:     2,
			Price:        250000,
			LineTotal:    500000,
			ProductImage: "https://cdn.example.com/frame-1.jpg",
			Product:      &product.Product{SKU: "EYE-001", Name: "Aviator Classic"},
		})

		assert.Equal(t, uint(9), item.OrderID)
		assert.Equal(t, "EYE-001", item.SKU)
		assert.Equal(t, "Aviator Classic", item.Name)
		assert.Equal(t, int64(500000), item.TotalPrice)
		assert.Empty(t, item.LensID)
		assert.Empty(t, item.LensPrescription)
		assert.Empty(t, item.PrescriptionFile)
	})

	t.Run("lens line carries prescription and file", func(t *testing.T) {
		prescription := &lens.Prescription{
			VisionType:      lens.VisionFar,
			EntryMethod:     lens.EntryManual,
			SameForBothEyes: true,
			RightEye:        lens.EyePower{Sphere: "-1.50"},
			LeftEye:         lens.EyePower{Sphere: "-1.50"},
		}

		item := orderItemFromCart(9, &cart.CartItemResponse{
			ProductID: "frame-2",
			Quantity:  1,
			Price:     180000,
			LineTotal: 300000,
			Lens: &cart.LensSummary{
				LensID:           "lens-progressive-1700000000000",
				Name:             "Progressive",
				Price:            120000,
				Prescription:     prescription,
				PrescriptionFile: "https://cdn.example.com/rx/42.pdf",
			},
		})

		assert.Equal(t, "lens-progressive-1700000000000", item.LensID)
		assert.Equal(t, int64(120000), item.LensPrice)
		assert.Equal(t, "https://cdn.example.com/rx/42.pdf", item.PrescriptionFile)

		var decoded lens.Prescription
		require.NoError(t, json.Unmarshal([]byte(item.LensPrescription), &decoded))
		assert.Equal(t, *prescription, decoded)
	})
}
