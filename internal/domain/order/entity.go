// internal/domain/order/entity.go
package order

import (
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusConfirmed       OrderStatus = "confirmed"
	OrderStatusProcessing      OrderStatus = "processing"
	OrderStatusShipped         OrderStatus = "shipped"
	OrderStatusDelivered       OrderStatus = "delivered"
	OrderStatusCancelled       OrderStatus = "cancelled"
	OrderStatusReturnRequested OrderStatus = "return_requested"
)

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Order sources distinguish customer storefront orders from reseller bulk
// orders, which changes invoice branding.
const (
	SourceCustomer = "customer"
	SourceReseller = "reseller"
)

// ReturnWindow is how long after delivery a return can be requested.
const ReturnWindow = 14 * 24 * time.Hour

// statusTransitions is the single authority on which status moves are legal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:         {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:       {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing:      {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:         {OrderStatusDelivered},
	OrderStatusDelivered:       {OrderStatusReturnRequested},
	OrderStatusCancelled:       {},
	OrderStatusReturnRequested: {},
}

// IsValidStatusTransition reports whether moving from one status to another
// is allowed.
func IsValidStatusTransition(from, to OrderStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Order represents the order entity
type Order struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	OrderNumber   string        `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID        uint          `gorm:"not null;index" json:"user_id"`
	Email         string        `gorm:"not null;size:255" json:"email"`
	Source        string        `gorm:"size:20;default:'customer'" json:"order_source"`
	Status        OrderStatus   `gorm:"not null;default:'pending'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"not null;default:'pending'" json:"payment_status"`

	// Financial Information
	SubtotalAmount int64 `gorm:"not null" json:"subtotal_amount"` // In paise
	TaxAmount      int64 `gorm:"default:0" json:"tax_amount"`
	ShippingAmount int64 `gorm:"default:0" json:"shipping_amount"`
	DiscountAmount int64 `gorm:"default:0" json:"discount_amount"`
	TotalAmount    int64 `gorm:"not null" json:"total_amount"`

	// Addresses
	ShippingAddress Address `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`

	// Additional Information
	Currency string `gorm:"size:3;default:'INR'" json:"currency"`
	Notes    string `gorm:"type:text" json:"notes"`

	// Return handling
	ReturnAuthNumber string `gorm:"size:50" json:"return_auth_number,omitempty"`
	ReturnReason     string `gorm:"type:text" json:"return_reason,omitempty"`

	// Timestamps
	ConfirmedAt *time.Time     `json:"confirmed_at"`
	ShippedAt   *time.Time     `json:"shipped_at"`
	DeliveredAt *time.Time     `json:"delivered_at"`
	CancelledAt *time.Time     `json:"cancelled_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items         []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	Payments      []Payment            `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"payments,omitempty"`
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// OrderItem represents items in an order
type OrderItem struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	OrderID          uint      `gorm:"not null;index" json:"order_id"`
	ProductID        string    `gorm:"not null;index;size:64" json:"product_id"`
	SKU              string    `gorm:"size:100" json:"sku"`
	Name             string    `gorm:"not null;size:255" json:"name"`
	ProductImage     string    `gorm:"size:500" json:"product_image"` // Normalized at order time
	Quantity         int       `gorm:"not null" json:"quantity"`
	Price            int64     `gorm:"not null" json:"price"` // Frame price per unit in paise
	LensID           string    `gorm:"size:64" json:"lens_id,omitempty"`
	LensName         string    `gorm:"size:100" json:"lens_name,omitempty"`
	LensPrice        int64     `json:"lens_price"`
	LensPrescription string    `gorm:"type:text" json:"-"`
	PrescriptionFile string    `gorm:"size:500" json:"prescription_file,omitempty"`
	TotalPrice       int64     `gorm:"not null" json:"total_price"` // (Price + LensPrice) * Quantity
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Payment represents payment transactions
type Payment struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	OrderID           uint           `gorm:"not null;index" json:"order_id"`
	PaymentMethod     string         `gorm:"not null;size:50" json:"payment_method"`
	PaymentProviderID string         `gorm:"size:255" json:"payment_provider_id"` // Gateway payment id
	GatewayOrderID    string         `gorm:"size:255" json:"gateway_order_id"`
	Amount            int64          `gorm:"not null" json:"amount"` // In paise
	Currency          string         `gorm:"size:3;default:'INR'" json:"currency"`
	Status            PaymentStatus  `gorm:"not null" json:"status"`
	Gateway           string         `gorm:"size:50" json:"gateway"`
	GatewayResponse   string         `gorm:"type:text" json:"gateway_response"` // JSON response from gateway
	ProcessedAt       *time.Time     `json:"processed_at"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// OrderStatusHistory tracks order status changes
type OrderStatusHistory struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"not null;index" json:"order_id"`
	Status    OrderStatus `gorm:"not null" json:"status"`
	Comment   string      `gorm:"type:text" json:"comment"`
	CreatedBy uint        `gorm:"index" json:"created_by"` // User ID who made the change
	CreatedAt time.Time   `json:"created_at"`
}

// Address represents a shipping address (embedded in Order)
type Address struct {
	FullName     string `gorm:"size:200" json:"full_name"`
	AddressLine1 string `gorm:"size:255" json:"address_line1"`
	AddressLine2 string `gorm:"size:255" json:"address_line2"`
	City         string `gorm:"size:100" json:"city"`
	State        string `gorm:"size:100" json:"state"`
	Pincode      string `gorm:"size:10" json:"pincode"`
	Phone        string `gorm:"size:20" json:"phone"`
}

// TableName overrides
func (Order) TableName() string              { return "orders" }
func (OrderItem) TableName() string          { return "order_items" }
func (Payment) TableName() string            { return "payments" }
func (OrderStatusHistory) TableName() string { return "order_status_history" }

// Business methods for Order

// GenerateOrderNumber generates a unique order number
func GenerateOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%04d", now.UnixMilli(), rand.Intn(10000))
}

// GenerateReturnAuthNumber generates a return authorization number
func GenerateReturnAuthNumber(now time.Time) string {
	return fmt.Sprintf("RET-%d-%04d", now.UnixMilli(), rand.Intn(10000))
}

// GetFormattedTotal returns total amount as float
func (o *Order) GetFormattedTotal() float64 {
	return float64(o.TotalAmount) / 100
}

// CanBeCancelled checks if order can be cancelled
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusPending ||
		o.Status == OrderStatusConfirmed ||
		o.Status == OrderStatusProcessing
}

// CanBeReturned checks if a return can still be requested. Orders qualify
// only after delivery and inside the return window.
func (o *Order) CanBeReturned(now time.Time) bool {
	if o.Status != OrderStatusDelivered || o.DeliveredAt == nil {
		return false
	}
	return now.Sub(*o.DeliveredAt) <= ReturnWindow
}

// IsPaid checks if the order has a settled payment
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// AddStatusHistory adds a new status change to history
func (o *Order) AddStatusHistory(status OrderStatus, comment string, createdBy uint) {
	history := OrderStatusHistory{
		OrderID:   o.ID,
		Status:    status,
		Comment:   comment,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	o.StatusHistory = append(o.StatusHistory, history)
}
