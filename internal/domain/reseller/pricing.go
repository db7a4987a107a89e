// internal/domain/reseller/pricing.go
package reseller

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Quote is the reseller price for a single catalog item
type Quote struct {
	ProductID     string `json:"product_id"`
	Quantity      int    `json:"quantity"`
	UnitPrice     int64  `json:"unit_price"`
	MarginPercent string `json:"margin_percent"`
	MarginPerUnit int64  `json:"margin_per_unit"`
	ResellerPrice int64  `json:"reseller_price"`
	LineTotal     int64  `json:"line_total"`
}

// ApplyMargin adds a margin percentage to a catalog price in paise.
// Decimal arithmetic keeps percentage math exact; the result is rounded
// to the nearest paisa.
func ApplyMargin(price int64, marginPercent float64) (int64, error) {
	if price < 0 {
		return 0, fmt.Errorf("price cannot be negative")
	}
	if marginPercent < 0 || marginPercent > 100 {
		return 0, fmt.Errorf("margin percent must be between 0 and 100")
	}

	base := decimal.NewFromInt(price)
	factor := decimal.NewFromFloat(marginPercent).Div(decimal.NewFromInt(100)).Add(decimal.NewFromInt(1))
	return base.Mul(factor).Round(0).IntPart(), nil
}

// MarginAmount returns just the margin portion for a price in paise
func MarginAmount(price int64, marginPercent float64) (int64, error) {
	total, err := ApplyMargin(price, marginPercent)
	if err != nil {
		return 0, err
	}
	return total - price, nil
}

// BuildQuote prices a bulk line item at the reseller's margin
func BuildQuote(productID string, catalogPrice int64, quantity int, marginPercent float64) (*Quote, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	unitPrice, err := ApplyMargin(catalogPrice, marginPercent)
	if err != nil {
		return nil, err
	}

	return &Quote{
		ProductID:     productID,
		Quantity:      quantity,
		UnitPrice:     catalogPrice,
		MarginPercent: decimal.NewFromFloat(marginPercent).String(),
		MarginPerUnit: unitPrice - catalogPrice,
		ResellerPrice: unitPrice,
		LineTotal:     unitPrice * int64(quantity),
	}, nil
}
