// internal/domain/cart/entity.go
package cart

import (
	"time"

	"gorm.io/gorm"

	"github.com/your-org/eyewear-backend/internal/domain/lens"
)

// Lens choice values stored on a cart item. Empty means unset, "none" means
// the customer explicitly wants frame only, "configured" means a lens has
// been attached through the wizard.
const (
	LensChoiceNone       = "none"
	LensChoiceConfigured = "configured"
)

// CartItem represents a cart item stored in database
type CartItem struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UserID           uint           `gorm:"not null;index" json:"user_id"`
	ProductID        string         `gorm:"not null;index;size:64" json:"product_id"`
	Quantity         int            `gorm:"not null;default:1" json:"quantity"`
	Price            int64          `gorm:"not null" json:"price"` // Price at time of adding
	LensChoice       string         `gorm:"size:20" json:"lens_choice"`
	LensID           string         `gorm:"size:64" json:"lens_id,omitempty"`
	LensType         string         `gorm:"size:50" json:"lens_type,omitempty"`
	LensName         string         `gorm:"size:100" json:"lens_name,omitempty"`
	LensPrice        int64          `json:"lens_price"`
	LensPrescription string         `gorm:"type:text" json:"-"` // JSON-encoded lens.Prescription
	PrescriptionFile string         `gorm:"size:500" json:"prescription_file,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (CartItem) TableName() string {
	return "cart_items"
}

// HasLens reports whether a lens has been attached through the wizard.
func (i *CartItem) HasLens() bool {
	return i.LensChoice == LensChoiceConfigured && i.LensID != ""
}

// HasLensDecision reports whether the customer has resolved the lens
// question for this item. An explicit frame-only choice counts as resolved;
// only an unset choice leaves the item undecided.
func (i *CartItem) HasLensDecision() bool {
	return i.LensChoice != ""
}

// LineTotal is the item's contribution to the subtotal, frame plus lens.
func (i *CartItem) LineTotal() int64 {
	return (i.Price + i.LensPrice) * int64(i.Quantity)
}

// LensSummary describes the lens attached to a cart item.
type LensSummary struct {
	LensID           string             `json:"lens_id"`
	LensType         string             `json:"lens_type"`
	Name             string             `json:"name"`
	Price            int64              `json:"price"`
	Prescription     *lens.Prescription `json:"prescription,omitempty"`
	PrescriptionFile string             `json:"prescription_file,omitempty"`
}

// CartTotals represents calculated cart totals
type CartTotals struct {
	ItemCount      int   `json:"item_count"`     // Number of unique items
	TotalQuantity  int   `json:"total_quantity"` // Sum of all quantities
	SubTotal       int64 `json:"sub_total"`      // Total before tax/shipping
	TaxAmount      int64 `json:"tax_amount"`
	ShippingCost   int64 `json:"shipping_cost"`
	DiscountAmount int64 `json:"discount_amount"`
	TotalAmount    int64 `json:"total_amount"` // Final total
}
