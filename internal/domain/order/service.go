// internal/domain/order/service.go
package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/your-org/eyewear-backend/internal/config"
	"github.com/your-org/eyewear-backend/internal/domain/cart"
	"github.com/your-org/eyewear-backend/internal/domain/product"
)

// actionLockTTL bounds how long a cancel/return lock can be held if the
// request dies mid-flight.
const actionLockTTL = 30 * time.Second

// Service handles order business logic
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
	cartService *cart.Service
}

// NewService creates a new order service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, cartService *cart.Service) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
		cartService: cartService,
	}
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page      int         `form:"page,default=1"`
	Limit     int         `form:"limit,default=20"`
	Status    OrderStatus `form:"status"`
	UserID    uint        `form:"user_id"`
	Source    string      `form:"source"`
	SortBy    string      `form:"sort_by,default=created_at"`
	SortOrder string      `form:"sort_order,default=desc"`
	DateFrom  string      `form:"date_from"`
	DateTo    string      `form:"date_to"`
}

// OrderResponse represents order response with pagination
type OrderResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// RequestReturnRequest carries a return request
type RequestReturnRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CreateOrder snapshots the user's cart into a pending order. The cart is
// left intact; checkout clears it only after payment verification.
func (s *Service) CreateOrder(ctx context.Context, userID uint, email, source string, shippingAddress Address, notes string) (*Order, error) {
	cartResponse, err := s.cartService.GetCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	if len(cartResponse.Items) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	if err := s.validateCartItems(cartResponse.Items); err != nil {
		return nil, fmt.Errorf("cart validation failed: %w", err)
	}

	now := time.Now().UTC()
	subtotal := cartResponse.Totals.SubTotal
	taxAmount := CalculateTax(subtotal)
	totalAmount := subtotal + taxAmount

	newOrder := Order{
		OrderNumber:     GenerateOrderNumber(now),
		UserID:          userID,
		Email:           email,
		Source:          source,
		Status:          OrderStatusPending,
		PaymentStatus:   PaymentStatusPending,
		SubtotalAmount:  subtotal,
		TaxAmount:       taxAmount,
		TotalAmount:     totalAmount,
		ShippingAddress: shippingAddress,
		Currency:        "INR",
		Notes:           notes,
	}

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&newOrder).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, cartItem := range cartResponse.Items {
		orderItem := orderItemFromCart(newOrder.ID, &cartItem)

		if err := tx.Create(&orderItem).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := s.reserveInventory(tx, cartResponse.Items); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to reserve inventory: %w", err)
	}

	statusHistory := OrderStatusHistory{
		OrderID:   newOrder.ID,
		Status:    OrderStatusPending,
		Comment:   "Order created",
		CreatedBy: userID,
		CreatedAt: now,
	}
	if err := tx.Create(&statusHistory).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create status history: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}

	if err := s.db.WithContext(ctx).Preload("Items").Preload("StatusHistory").First(&newOrder, newOrder.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load complete order: %w", err)
	}

	return &newOrder, nil
}

// orderItemFromCart snapshots a cart line into an order item, including the
// lens prescription and uploaded prescription file the lab needs.
func orderItemFromCart(orderID uint, cartItem *cart.CartItemResponse) OrderItem {
	orderItem := OrderItem{
		OrderID:      orderID,
		ProductID:    cartItem.ProductID,
		Quantity:     cartItem.Quantity,
		Price:        cartItem.Price,
		TotalPrice:   cartItem.LineTotal,
		ProductImage: cartItem.ProductImage,
	}
	if cartItem.Product != nil {
		orderItem.SKU = cartItem.Product.SKU
		orderItem.Name = cartItem.Product.Name
	}
	if cartItem.Lens != nil {
		orderItem.LensID = cartItem.Lens.LensID
		orderItem.LensName = cartItem.Lens.Name
		orderItem.LensPrice = cartItem.Lens.Price
		orderItem.PrescriptionFile = cartItem.Lens.PrescriptionFile
		if cartItem.Lens.Prescription != nil {
			if raw, err := json.Marshal(cartItem.Lens.Prescription); err == nil {
				orderItem.LensPrescription = string(raw)
			}
		}
	}
	return orderItem
}

// CalculateTax applies the flat GST rate to the subtotal.
func CalculateTax(subtotal int64) int64 {
	return subtotal * 18 / 100
}

// GetOrders retrieves orders with filtering and pagination
func (s *Service) GetOrders(req *OrderListRequest) (*OrderResponse, error) {
	var orders []Order
	var total int64

	query := s.db.Model(&Order{}).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		})

	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	if req.UserID > 0 {
		query = query.Where("user_id = ?", req.UserID)
	}

	if req.Source != "" {
		query = query.Where("source = ?", req.Source)
	}

	if req.DateFrom != "" {
		query = query.Where("created_at >= ?", req.DateFrom)
	}

	if req.DateTo != "" {
		query = query.Where("created_at <= ?", req.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	orderClause := s.buildOrderClause(req.SortBy, req.SortOrder)
	query = query.Order(orderClause)

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	pagination := Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
		HasPrev:    req.Page > 1,
	}

	return &OrderResponse{
		Orders:     orders,
		Pagination: pagination,
	}, nil
}

// GetOrder retrieves a single order by ID
func (s *Service) GetOrder(id uint) (*Order, error) {
	var o Order
	result := s.db.
		Preload("Items").
		Preload("Payments").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("id = ?", id).
		First(&o)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order not found")
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}

	return &o, nil
}

// GetUserOrder retrieves a single order owned by the user
func (s *Service) GetUserOrder(userID, orderID uint) (*Order, error) {
	o, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, fmt.Errorf("order not found")
	}
	return o, nil
}

// GetOrderByNumber retrieves a single order by order number
func (s *Service) GetOrderByNumber(orderNumber string) (*Order, error) {
	var o Order
	result := s.db.
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("order_number = ?", orderNumber).
		First(&o)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order not found")
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}

	return &o, nil
}

// UpdateOrderStatus updates order status
func (s *Service) UpdateOrderStatus(orderID uint, status OrderStatus, comment string, updatedBy uint) error {
	var o Order
	if err := s.db.First(&o, orderID).Error; err != nil {
		return fmt.Errorf("order not found: %w", err)
	}

	if !IsValidStatusTransition(o.Status, status) {
		return fmt.Errorf("invalid status transition from %s to %s", o.Status, status)
	}

	updates := map[string]interface{}{
		"status": status,
	}

	now := time.Now().UTC()
	switch status {
	case OrderStatusConfirmed:
		updates["confirmed_at"] = now
	case OrderStatusShipped:
		updates["shipped_at"] = now
	case OrderStatusDelivered:
		updates["delivered_at"] = now
	case OrderStatusCancelled:
		updates["cancelled_at"] = now
	}

	if err := s.db.Model(&o).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	statusHistory := OrderStatusHistory{
		OrderID:   orderID,
		Status:    status,
		Comment:   comment,
		CreatedBy: updatedBy,
		CreatedAt: now,
	}

	if err := s.db.Create(&statusHistory).Error; err != nil {
		return fmt.Errorf("failed to create status history: %w", err)
	}

	return nil
}

// MarkPaid flips the order to confirmed/paid after payment verification.
func (s *Service) MarkPaid(ctx context.Context, orderID uint) error {
	var o Order
	if err := s.db.WithContext(ctx).First(&o, orderID).Error; err != nil {
		return fmt.Errorf("order not found: %w", err)
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":         OrderStatusConfirmed,
		"payment_status": PaymentStatusPaid,
		"confirmed_at":   now,
	}
	if err := s.db.WithContext(ctx).Model(&o).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}

	statusHistory := OrderStatusHistory{
		OrderID:   orderID,
		Status:    OrderStatusConfirmed,
		Comment:   "Payment verified",
		CreatedBy: o.UserID,
		CreatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&statusHistory).Error; err != nil {
		return fmt.Errorf("failed to create status history: %w", err)
	}

	return nil
}

// CancelOrder cancels an order, restores stock and flags paid orders for
// refund. A Redis lock drops duplicate in-flight submissions.
func (s *Service) CancelOrder(ctx context.Context, userID, orderID uint, reason string) error {
	acquired, err := s.acquireActionLock(ctx, orderID, "cancel")
	if err != nil {
		return err
	}
	if !acquired {
		return fmt.Errorf("cancellation already in progress")
	}
	defer s.releaseActionLock(ctx, orderID, "cancel")

	var o Order
	if err := s.db.WithContext(ctx).First(&o, orderID).Error; err != nil {
		return fmt.Errorf("order not found: %w", err)
	}
	if o.UserID != userID {
		return fmt.Errorf("order not found")
	}

	if !o.CanBeCancelled() {
		return fmt.Errorf("order cannot be cancelled in current status: %s", o.Status)
	}

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := s.restoreInventory(tx, orderID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore inventory: %w", err)
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":       OrderStatusCancelled,
		"cancelled_at": now,
	}
	if o.IsPaid() {
		updates["payment_status"] = PaymentStatusRefunded
	}
	if err := tx.Model(&o).Updates(updates).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update order status: %w", err)
	}

	statusHistory := OrderStatusHistory{
		OrderID:   orderID,
		Status:    OrderStatusCancelled,
		Comment:   fmt.Sprintf("Order cancelled: %s", reason),
		CreatedBy: userID,
		CreatedAt: now,
	}

	if err := tx.Create(&statusHistory).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create status history: %w", err)
	}

	return tx.Commit().Error
}

// RequestReturn opens a return for a delivered order inside the return
// window and issues a return authorization number.
func (s *Service) RequestReturn(ctx context.Context, userID, orderID uint, reason string) (*Order, error) {
	acquired, err := s.acquireActionLock(ctx, orderID, "return")
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, fmt.Errorf("return request already in progress")
	}
	defer s.releaseActionLock(ctx, orderID, "return")

	var o Order
	if err := s.db.WithContext(ctx).First(&o, orderID).Error; err != nil {
		return nil, fmt.Errorf("order not found: %w", err)
	}
	if o.UserID != userID {
		return nil, fmt.Errorf("order not found")
	}

	now := time.Now().UTC()
	if !o.CanBeReturned(now) {
		return nil, fmt.Errorf("order is not eligible for return")
	}

	returnAuth := GenerateReturnAuthNumber(now)
	updates := map[string]interface{}{
		"status":             OrderStatusReturnRequested,
		"return_auth_number": returnAuth,
		"return_reason":      reason,
	}
	if err := s.db.WithContext(ctx).Model(&o).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to request return: %w", err)
	}

	statusHistory := OrderStatusHistory{
		OrderID:   orderID,
		Status:    OrderStatusReturnRequested,
		Comment:   fmt.Sprintf("Return requested (%s): %s", returnAuth, reason),
		CreatedBy: userID,
		CreatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&statusHistory).Error; err != nil {
		return nil, fmt.Errorf("failed to create status history: %w", err)
	}

	o.Status = OrderStatusReturnRequested
	o.ReturnAuthNumber = returnAuth
	o.ReturnReason = reason
	return &o, nil
}

// GetUserOrders retrieves orders for a specific user
func (s *Service) GetUserOrders(userID uint, page, limit int) (*OrderResponse, error) {
	req := &OrderListRequest{
		Page:   page,
		Limit:  limit,
		UserID: userID,
	}
	return s.GetOrders(req)
}

// GetSellerOrders retrieves orders containing a seller's products
func (s *Service) GetSellerOrders(sellerID uint, page, limit int) (*OrderResponse, error) {
	var orders []Order
	var total int64

	query := s.db.Model(&Order{}).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.seller_id = ?", sellerID).
		Group("orders.id")

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count seller orders: %w", err)
	}

	offset := (page - 1) * limit
	if err := query.Preload("Items").Order("orders.created_at DESC").
		Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve seller orders: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &OrderResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}

// RecordPayment stores a payment row against the order
func (s *Service) RecordPayment(ctx context.Context, p *Payment) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}
	return nil
}

// Private helper methods

func (s *Service) acquireActionLock(ctx context.Context, orderID uint, action string) (bool, error) {
	key := fmt.Sprintf("order_action_lock:%d:%s", orderID, action)
	acquired, err := s.redisClient.SetNX(ctx, key, "1", actionLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire %s lock: %w", action, err)
	}
	return acquired, nil
}

func (s *Service) releaseActionLock(ctx context.Context, orderID uint, action string) {
	key := fmt.Sprintf("order_action_lock:%d:%s", orderID, action)
	s.redisClient.Del(ctx, key)
}

func (s *Service) validateCartItems(items []cart.CartItemResponse) error {
	for _, item := range items {
		if item.Product == nil {
			return fmt.Errorf("product %s not found", item.ProductID)
		}

		if !item.Product.IsActive {
			return fmt.Errorf("product '%s' is no longer available", item.Product.Name)
		}

		if item.Product.TrackQuantity && item.Product.Quantity < item.Quantity {
			return fmt.Errorf("insufficient inventory for product '%s'. Available: %d, Requested: %d",
				item.Product.Name, item.Product.Quantity, item.Quantity)
		}
	}
	return nil
}

func (s *Service) reserveInventory(tx *gorm.DB, items []cart.CartItemResponse) error {
	for _, item := range items {
		if item.Product == nil || !item.Product.TrackQuantity {
			continue
		}

		result := tx.Model(&product.Product{}).
			Where("id = ?", item.ProductID).
			UpdateColumn("quantity", gorm.Expr("quantity - ?", item.Quantity))

		if result.Error != nil {
			return fmt.Errorf("failed to update product inventory: %w", result.Error)
		}
	}
	return nil
}

func (s *Service) restoreInventory(tx *gorm.DB, orderID uint) error {
	var orderItems []OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&orderItems).Error; err != nil {
		return fmt.Errorf("failed to get order items: %w", err)
	}

	for _, item := range orderItems {
		tx.Model(&product.Product{}).
			Where("id = ? AND track_quantity = ?", item.ProductID, true).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", item.Quantity))
	}
	return nil
}

func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"created_at":   true,
		"updated_at":   true,
		"total_amount": true,
		"status":       true,
		"order_number": true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}
