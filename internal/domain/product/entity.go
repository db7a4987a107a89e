// internal/domain/product/entity.go
package product

import (
	"time"

	"gorm.io/gorm"
)

// Product categories used across the storefront
const (
	CategoryEyeglasses  = "eyeglasses"
	CategorySunglasses  = "sunglasses"
	CategoryLens        = "lens"
	CategoryAccessories = "accessories"
)

// Product sources
const (
	SourcePlatform = "platform"
	SourceSeller   = "seller"
)

// Product represents an eyewear catalog item
type Product struct {
	ID            string         `gorm:"primaryKey;size:64" json:"id"`
	SKU           string         `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Name          string         `gorm:"not null;size:255" json:"name"`
	Slug          string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description   string         `gorm:"type:text" json:"description"`
	Price         int64          `gorm:"not null" json:"price"` // Price in paise
	ComparePrice  int64          `json:"compare_price"`         // Original price for discounts
	Category      string         `gorm:"not null;index;size:50" json:"category"`
	Brand         string         `gorm:"size:100;index" json:"brand"`
	FrameShape    string         `gorm:"size:50" json:"frame_shape"`    // round, square, aviator, cat-eye, wayfarer
	FrameMaterial string         `gorm:"size:50" json:"frame_material"` // acetate, metal, titanium, TR90
	FrameType     string         `gorm:"size:50" json:"frame_type"`     // full-rim, half-rim, rimless
	Color         string         `gorm:"size:50" json:"color"`
	Gender        string         `gorm:"size:20;index" json:"gender"` // men, women, unisex, kids
	Images        string         `gorm:"type:text" json:"images"`     // raw image field, see NormalizeImage
	SellerID      *uint          `gorm:"index" json:"seller_id,omitempty"`
	Source        string         `gorm:"size:20;default:'platform'" json:"source"` // platform or seller
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	IsFeatured    bool           `gorm:"default:false" json:"is_featured"`
	TrackQuantity bool           `gorm:"default:true" json:"track_quantity"`
	Quantity      int            `gorm:"default:0" json:"quantity"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides
func (Product) TableName() string { return "products" }

// Business methods for Product

func (p *Product) IsInStock() bool {
	return p.Quantity > 0 || !p.TrackQuantity
}

// IsLensItem reports whether the product is a lens add-on rather than a frame.
func (p *Product) IsLensItem() bool {
	return p.Category == CategoryLens
}

// RequiresLensChoice reports whether checkout must be blocked until the
// customer has either configured lenses or chosen frame-only for this product.
func (p *Product) RequiresLensChoice() bool {
	return p.Category == CategoryEyeglasses
}

func (p *Product) GetFormattedPrice() float64 {
	return float64(p.Price) / 100
}

func (p *Product) GetDiscountPercentage() int {
	if p.ComparePrice > 0 && p.Price < p.ComparePrice {
		return int(((p.ComparePrice - p.Price) * 100) / p.ComparePrice)
	}
	return 0
}

// ImageURL returns the first usable image URL for display.
func (p *Product) ImageURL() string {
	return NormalizeImage(p.Images)
}
