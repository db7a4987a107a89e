// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/your-org/eyewear-backend/internal/config"
	"github.com/your-org/eyewear-backend/internal/domain/lens"
	"github.com/your-org/eyewear-backend/internal/domain/product"
)

// Service handles cart business logic
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
	}
}

// CartItemResponse represents a cart item with product details
type CartItemResponse struct {
	ProductID    string           `json:"product_id"`
	Quantity     int              `json:"quantity"`
	Price        int64            `json:"price"`
	LensChoice   string           `json:"lens_choice"`
	Lens         *LensSummary     `json:"lens,omitempty"`
	LineTotal    int64            `json:"line_total"`
	Product      *product.Product `json:"product,omitempty"`
	ProductImage string           `json:"product_image,omitempty"`
	AddedAt      time.Time        `json:"added_at"`
}

// CartResponse represents a shopping cart with items and summary
type CartResponse struct {
	UserID    uint               `json:"user_id"`
	Items     []CartItemResponse `json:"items"`
	Totals    CartTotals         `json:"totals"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// SetLensChoiceRequest records the customer's lens decision for a frame
type SetLensChoiceRequest struct {
	LensChoice string `json:"lens_choice" binding:"required,oneof=none configured"`
}

// GetCart retrieves the cart for a user with product details and totals.
func (s *Service) GetCart(ctx context.Context, userID uint) (*CartResponse, error) {
	var dbItems []CartItem
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&dbItems).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	cartItems := make([]CartItemResponse, len(dbItems))
	updatedAt := time.Now().UTC()
	for i, item := range dbItems {
		cartItems[i] = CartItemResponse{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			Price:      item.Price,
			LensChoice: item.LensChoice,
			Lens:       s.lensSummary(&item),
			LineTotal:  item.LineTotal(),
			AddedAt:    item.CreatedAt,
		}
		if item.UpdatedAt.After(updatedAt) {
			updatedAt = item.UpdatedAt
		}
	}

	s.loadProductDetails(ctx, cartItems)

	return &CartResponse{
		UserID:    userID,
		Items:     cartItems,
		Totals:    s.calculateTotals(dbItems),
		UpdatedAt: updatedAt,
	}, nil
}

// EmptyCart returns the shape handlers fall back to when the cart cannot be
// loaded. Cart reads degrade instead of failing the page.
func (s *Service) EmptyCart(userID uint) *CartResponse {
	return &CartResponse{
		UserID:    userID,
		Items:     []CartItemResponse{},
		Totals:    CartTotals{},
		UpdatedAt: time.Now().UTC(),
	}
}

// AddToCart adds an item to the cart
func (s *Service) AddToCart(ctx context.Context, userID uint, req *AddToCartRequest) (*CartResponse, error) {
	if req.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	// Validate product exists and is active
	var prod product.Product
	result := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", req.ProductID, true).First(&prod)
	if result.Error != nil {
		return nil, fmt.Errorf("product not found or inactive")
	}

	if prod.TrackQuantity && prod.Quantity < req.Quantity {
		return nil, fmt.Errorf("insufficient inventory. Available: %d", prod.Quantity)
	}

	// Check if item already exists
	var existingItem CartItem
	result = s.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&existingItem)

	if result.Error == gorm.ErrRecordNotFound {
		newItem := CartItem{
			UserID:    userID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			Price:     prod.Price,
		}
		if err := s.db.WithContext(ctx).Create(&newItem).Error; err != nil {
			return nil, fmt.Errorf("failed to add item to cart: %w", err)
		}
	} else {
		newQuantity := existingItem.Quantity + req.Quantity
		if prod.TrackQuantity && prod.Quantity < newQuantity {
			return nil, fmt.Errorf("insufficient inventory for total quantity. Available: %d", prod.Quantity)
		}
		existingItem.Quantity = newQuantity
		existingItem.Price = prod.Price // Update price in case it changed
		if err := s.db.WithContext(ctx).Save(&existingItem).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	}

	return s.GetCart(ctx, userID)
}

// UpdateCartItem updates the quantity of a cart item. Quantities below one
// are rejected, removal is its own operation.
func (s *Service) UpdateCartItem(ctx context.Context, userID uint, productID string, req *UpdateCartItemRequest) (*CartResponse, error) {
	if req.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	var prod product.Product
	if err := s.db.WithContext(ctx).Where("id = ?", productID).First(&prod).Error; err == nil {
		if prod.TrackQuantity && prod.Quantity < req.Quantity {
			return nil, fmt.Errorf("insufficient inventory. Available: %d", prod.Quantity)
		}
	}

	result := s.db.WithContext(ctx).Model(&CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", req.Quantity)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("item not found in cart")
	}

	return s.GetCart(ctx, userID)
}

// RemoveFromCart removes an item from the cart
func (s *Service) RemoveFromCart(ctx context.Context, userID uint, productID string) (*CartResponse, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&CartItem{})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("item not found in cart")
	}

	return s.GetCart(ctx, userID)
}

// AttachLens applies a committed wizard selection to the frame's cart item.
// Implements the lens wizard's CartAttacher.
func (s *Service) AttachLens(ctx context.Context, userID uint, frameProductID string, sel *lens.Selection) error {
	var item CartItem
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, frameProductID).
		First(&item)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return fmt.Errorf("frame is not in the cart")
		}
		return fmt.Errorf("failed to find cart item: %w", result.Error)
	}

	prescriptionJSON, err := json.Marshal(sel.Prescription)
	if err != nil {
		return fmt.Errorf("failed to encode prescription: %w", err)
	}

	updates := map[string]interface{}{
		"lens_choice":       LensChoiceConfigured,
		"lens_id":           sel.LensID,
		"lens_type":         string(sel.LensType),
		"lens_name":         sel.Name,
		"lens_price":        sel.Price,
		"lens_prescription": string(prescriptionJSON),
		"prescription_file": sel.Prescription.FileURL,
	}

	if err := s.db.WithContext(ctx).Model(&item).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to attach lens: %w", err)
	}

	return nil
}

// SetLensChoice records the customer's lens decision. Choosing "none" drops
// any previously attached lens.
func (s *Service) SetLensChoice(ctx context.Context, userID uint, productID string, req *SetLensChoiceRequest) (*CartResponse, error) {
	updates := map[string]interface{}{
		"lens_choice": req.LensChoice,
	}
	if req.LensChoice == LensChoiceNone {
		updates["lens_id"] = ""
		updates["lens_type"] = ""
		updates["lens_name"] = ""
		updates["lens_price"] = int64(0)
		updates["lens_prescription"] = ""
		updates["prescription_file"] = ""
	}

	result := s.db.WithContext(ctx).Model(&CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to set lens choice: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("item not found in cart")
	}

	return s.GetCart(ctx, userID)
}

// ClearCart removes all items from the cart. Checkout waits on this after a
// verified payment before responding.
func (s *Service) ClearCart(ctx context.Context, userID uint) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// GetCartItemCount returns the total quantity across the cart
func (s *Service) GetCartItemCount(ctx context.Context, userID uint) (int, error) {
	cartResponse, err := s.GetCart(ctx, userID)
	if err != nil {
		return 0, nil // Return 0 if cart doesn't exist
	}
	return cartResponse.Totals.TotalQuantity, nil
}

// CanProceedToCheckout gates checkout on lens decisions. Customers are
// blocked while any eyeglasses item has the lens question unresolved; an
// explicit frame-only choice passes. Sellers and resellers order frames
// without lenses.
func (s *Service) CanProceedToCheckout(ctx context.Context, userID uint, role string) error {
	if role != "customer" {
		return nil
	}

	var items []CartItem
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return fmt.Errorf("failed to retrieve cart: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("cart is empty")
	}

	for _, item := range items {
		var prod product.Product
		if err := s.db.WithContext(ctx).Where("id = ?", item.ProductID).First(&prod).Error; err != nil {
			continue
		}
		if lensGateBlocks(&prod, &item) {
			return fmt.Errorf("select lenses for %s before checkout", prod.Name)
		}
	}

	return nil
}

// lensGateBlocks reports whether an item stops a customer checkout. Only an
// unresolved lens question blocks; frame-only is a valid decision.
func lensGateBlocks(prod *product.Product, item *CartItem) bool {
	return prod.RequiresLensChoice() && !item.HasLensDecision()
}

// Private helper methods

func (s *Service) lensSummary(item *CartItem) *LensSummary {
	if !item.HasLens() {
		return nil
	}

	summary := &LensSummary{
		LensID:           item.LensID,
		LensType:         item.LensType,
		Name:             item.LensName,
		Price:            item.LensPrice,
		PrescriptionFile: item.PrescriptionFile,
	}

	if item.LensPrescription != "" {
		var p lens.Prescription
		if err := json.Unmarshal([]byte(item.LensPrescription), &p); err == nil {
			summary.Prescription = &p
		}
	}

	return summary
}

func (s *Service) loadProductDetails(ctx context.Context, cartItems []CartItemResponse) {
	for i := range cartItems {
		var prod product.Product
		err := s.db.WithContext(ctx).Where("id = ?", cartItems[i].ProductID).First(&prod).Error
		if err != nil {
			continue // Skip if product not found
		}
		cartItems[i].Product = &prod
		cartItems[i].ProductImage = prod.ImageURL()
	}
}

func (s *Service) calculateTotals(items []CartItem) CartTotals {
	var totals CartTotals

	totals.ItemCount = len(items)

	for _, item := range items {
		totals.TotalQuantity += item.Quantity
		totals.SubTotal += item.LineTotal()
	}

	totals.TotalAmount = totals.SubTotal + totals.TaxAmount + totals.ShippingCost - totals.DiscountAmount

	return totals
}
