// internal/domain/product/service.go
package product

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/your-org/eyewear-backend/internal/config"
)

// Service handles product business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
	Category   string `form:"category"`
	Brand      string `form:"brand"`
	FrameShape string `form:"frame_shape"`
	Gender     string `form:"gender"`
	Search     string `form:"search"`
	SortBy     string `form:"sort_by,default=created_at"`
	SortOrder  string `form:"sort_order,default=desc"`
	MinPrice   int64  `form:"min_price"`
	MaxPrice   int64  `form:"max_price"`
	SellerID   uint   `form:"seller_id"`
	IsActive   *bool  `form:"is_active"`
	IsFeatured *bool  `form:"is_featured"`
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	SKU           string `json:"sku" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	Price         int64  `json:"price" binding:"required,min=1"`
	ComparePrice  int64  `json:"compare_price"`
	Category      string `json:"category" binding:"required,oneof=eyeglasses sunglasses lens accessories"`
	Brand         string `json:"brand"`
	FrameShape    string `json:"frame_shape"`
	FrameMaterial string `json:"frame_material"`
	FrameType     string `json:"frame_type"`
	Color         string `json:"color"`
	Gender        string `json:"gender" binding:"omitempty,oneof=men women unisex kids"`
	Images        string `json:"images"`
	IsActive      bool   `json:"is_active"`
	IsFeatured    bool   `json:"is_featured"`
	TrackQuantity bool   `json:"track_quantity"`
	Quantity      int    `json:"quantity"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Price         *int64  `json:"price"`
	ComparePrice  *int64  `json:"compare_price"`
	Category      *string `json:"category"`
	Brand         *string `json:"brand"`
	FrameShape    *string `json:"frame_shape"`
	FrameMaterial *string `json:"frame_material"`
	FrameType     *string `json:"frame_type"`
	Color         *string `json:"color"`
	Gender        *string `json:"gender"`
	Images        *string `json:"images"`
	IsActive      *bool   `json:"is_active"`
	IsFeatured    *bool   `json:"is_featured"`
	TrackQuantity *bool   `json:"track_quantity"`
	Quantity      *int    `json:"quantity"`
}

// ProductResponse represents product response with pagination
type ProductResponse struct {
	Products   []Product  `json:"products"`
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

// GetProducts retrieves products with filtering and pagination
func (s *Service) GetProducts(req *ProductListRequest) (*ProductResponse, error) {
	var products []Product
	var total int64

	query := s.db.Model(&Product{})

	// Apply filters
	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}

	if req.Brand != "" {
		query = query.Where("brand = ?", req.Brand)
	}

	if req.FrameShape != "" {
		query = query.Where("frame_shape = ?", req.FrameShape)
	}

	if req.Gender != "" {
		query = query.Where("gender IN ?", []string{req.Gender, "unisex"})
	}

	if req.SellerID > 0 {
		query = query.Where("seller_id = ?", req.SellerID)
	}

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(brand) LIKE ?", search, search, search)
	}

	if req.MinPrice > 0 {
		query = query.Where("price >= ?", req.MinPrice)
	}

	if req.MaxPrice > 0 {
		query = query.Where("price <= ?", req.MaxPrice)
	}

	if req.IsActive != nil {
		query = query.Where("is_active = ?", *req.IsActive)
	}

	if req.IsFeatured != nil {
		query = query.Where("is_featured = ?", *req.IsFeatured)
	}

	// Count total records
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	// Apply sorting
	orderClause := s.buildOrderClause(req.SortBy, req.SortOrder)
	query = query.Order(orderClause)

	// Apply pagination
	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
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

	return &ProductResponse{
		Products:   products,
		Pagination: pagination,
	}, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id string) (*Product, error) {
	var product Product
	result := s.db.Where("id = ?", id).First(&product)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	return &product, nil
}

// GetProductBySlug retrieves a single active product by slug
func (s *Service) GetProductBySlug(slug string) (*Product, error) {
	var product Product
	result := s.db.
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	return &product, nil
}

// CreateProduct creates a new product. When sellerID is non-nil the product
// is recorded as seller-sourced for invoice branding and seller dashboards.
func (s *Service) CreateProduct(req *ProductCreateRequest, sellerID *uint) (*Product, error) {
	// Check if SKU already exists
	var existing Product
	if result := s.db.Where("sku = ?", req.SKU).First(&existing); result.Error == nil {
		return nil, fmt.Errorf("product with SKU %s already exists", req.SKU)
	}

	source := SourcePlatform
	if sellerID != nil {
		source = SourceSeller
	}

	product := Product{
		ID:            uuid.New().String(),
		SKU:           req.SKU,
		Name:          req.Name,
		Slug:          s.generateSlug(req.Name),
		Description:   req.Description,
		Price:         req.Price,
		ComparePrice:  req.ComparePrice,
		Category:      req.Category,
		Brand:         req.Brand,
		FrameShape:    req.FrameShape,
		FrameMaterial: req.FrameMaterial,
		FrameType:     req.FrameType,
		Color:         req.Color,
		Gender:        req.Gender,
		Images:        req.Images,
		SellerID:      sellerID,
		Source:        source,
		IsActive:      req.IsActive,
		IsFeatured:    req.IsFeatured,
		TrackQuantity: req.TrackQuantity,
		Quantity:      req.Quantity,
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &product, nil
}

// UpdateProduct updates an existing product. A non-nil sellerID restricts the
// update to products owned by that seller.
func (s *Service) UpdateProduct(id string, req *ProductUpdateRequest, sellerID *uint) (*Product, error) {
	var product Product
	query := s.db.Where("id = ?", id)
	if sellerID != nil {
		query = query.Where("seller_id = ?", *sellerID)
	}
	result := query.First(&product)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to find product: %w", result.Error)
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
		updates["slug"] = s.generateSlug(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.ComparePrice != nil {
		updates["compare_price"] = *req.ComparePrice
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.FrameShape != nil {
		updates["frame_shape"] = *req.FrameShape
	}
	if req.FrameMaterial != nil {
		updates["frame_material"] = *req.FrameMaterial
	}
	if req.FrameType != nil {
		updates["frame_type"] = *req.FrameType
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.Images != nil {
		updates["images"] = *req.Images
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.TrackQuantity != nil {
		updates["track_quantity"] = *req.TrackQuantity
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}

	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return &product, nil
}

// DeleteProduct soft deletes a product. A non-nil sellerID restricts the
// delete to products owned by that seller.
func (s *Service) DeleteProduct(id string, sellerID *uint) error {
	query := s.db.Where("id = ?", id)
	if sellerID != nil {
		query = query.Where("seller_id = ?", *sellerID)
	}
	result := query.Delete(&Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product not found")
	}
	return nil
}

// UpdateInventory updates product inventory
func (s *Service) UpdateInventory(productID string, quantity int) error {
	result := s.db.Model(&Product{}).
		Where("id = ? AND track_quantity = ?", productID, true).
		Update("quantity", quantity)

	if result.Error != nil {
		return fmt.Errorf("failed to update inventory: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product not found or inventory tracking disabled")
	}
	return nil
}

// AdjustInventory adds delta to the current quantity, used when restoring
// stock for cancelled orders.
func (s *Service) AdjustInventory(productID string, delta int) error {
	result := s.db.Model(&Product{}).
		Where("id = ? AND track_quantity = ?", productID, true).
		Update("quantity", gorm.Expr("quantity + ?", delta))

	if result.Error != nil {
		return fmt.Errorf("failed to adjust inventory: %w", result.Error)
	}
	return nil
}

// buildOrderClause builds ORDER BY clause for sorting
func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"name":       true,
		"price":      true,
		"created_at": true,
		"updated_at": true,
		"quantity":   true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}

// generateSlug generates URL-friendly slug from name
func (s *Service) generateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "_", "-")

	return slug + "-" + fmt.Sprintf("%d", time.Now().Unix())
}
