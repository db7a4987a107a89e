// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Roles supported by the storefront
const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleReseller = "reseller"
)

// User represents the user entity
type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Email       string     `gorm:"uniqueIndex;not null;size:255" json:"email"`
	FirstName   string     `gorm:"size:100" json:"first_name"`
	LastName    string     `gorm:"size:100" json:"last_name"`
	Mobile      string     `gorm:"size:20" json:"mobile"`
	Role        string     `gorm:"size:20;not null;default:'customer'" json:"role"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`

	// Seller fields
	ShopName  string `gorm:"size:255" json:"shop_name,omitempty"`
	GSTNumber string `gorm:"size:20" json:"gst_number,omitempty"`

	// Reseller fields
	BusinessName  string  `gorm:"size:255" json:"business_name,omitempty"`
	MarginPercent float64 `gorm:"default:0" json:"margin_percent,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Addresses []Address `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"addresses,omitempty"`
}

// Address represents saved user addresses for checkout prefill
type Address struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	FullName     string    `gorm:"size:200" json:"full_name"`
	AddressLine1 string    `gorm:"size:255;not null" json:"address_line1"`
	AddressLine2 string    `gorm:"size:255" json:"address_line2"`
	City         string    `gorm:"size:100;not null" json:"city"`
	State        string    `gorm:"size:100" json:"state"`
	Pincode      string    `gorm:"size:10" json:"pincode"`
	Phone        string    `gorm:"size:20" json:"phone"`
	IsDefault    bool      `gorm:"default:false" json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// TableName overrides the table name for Address
func (Address) TableName() string {
	return "addresses"
}

// BeforeCreate hook to handle business logic before user creation
func (u *User) BeforeCreate(tx *gorm.DB) error {
	// Email should be lowercase
	u.Email = strings.ToLower(u.Email)
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	return nil
}

// IsSeller reports whether the user sells products on the platform
func (u *User) IsSeller() bool {
	return u.Role == RoleSeller
}

// IsReseller reports whether the user places bulk margin-priced orders
func (u *User) IsReseller() bool {
	return u.Role == RoleReseller
}

// GetFullName returns the user's full name
func (u *User) GetFullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// GetDisplayName returns display name (full name or email)
func (u *User) GetDisplayName() string {
	fullName := u.GetFullName()
	if fullName != "" {
		return fullName
	}
	return u.Email
}
