// internal/interfaces/http/handlers/seller.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/your-org/eyewear-backend/internal/config"
	"github.com/your-org/eyewear-backend/internal/domain/cart"
	"github.com/your-org/eyewear-backend/internal/domain/order"
	"github.com/your-org/eyewear-backend/internal/domain/seller"
	"github.com/your-org/eyewear-backend/internal/interfaces/http/middleware"
)

// SellerHandler handles seller endpoints
type SellerHandler struct {
	sellerService *seller.Service
	orderService  *order.Service
	config        *config.Config
}

// NewSellerHandler creates a new seller handler
func NewSellerHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *SellerHandler {
	cartService := cart.NewService(db, redisClient, cfg)
	return &SellerHandler{
		sellerService: seller.NewService(db, redisClient, cfg),
		orderService:  order.NewService(db, redisClient, cfg, cartService),
		config:        cfg,
	}
}

// GetProfile handles GET /seller/profile
func (h *SellerHandler) GetProfile(c *gin.Context) {
	sellerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	profile, err := h.sellerService.GetProfile(c.Request.Context(), sellerID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Seller profile retrieved successfully",
		"data":    profile,
	})
}

// SetLensFacility handles PUT /seller/lens-facility
func (h *SellerHandler) SetLensFacility(c *gin.Context) {
	sellerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req seller.SetLensFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.sellerService.SetLensFacility(c.Request.Context(), sellerID, *req.HasLensFacility); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Lens facility updated successfully",
		"data": gin.H{
			"has_lens_facility": *req.HasLensFacility,
		},
	})
}

// GetLensFacility handles GET /seller/lens-facility
func (h *SellerHandler) GetLensFacility(c *gin.Context) {
	sellerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	enabled, err := h.sellerService.GetLensFacility(c.Request.Context(), sellerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Lens facility retrieved successfully",
		"data": gin.H{
			"has_lens_facility": enabled,
		},
	})
}

// GetOrders handles GET /seller/orders (orders containing this seller's products)
func (h *SellerHandler) GetOrders(c *gin.Context) {
	sellerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	page := 1
	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	response, err := h.orderService.GetSellerOrders(sellerID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    response,
	})
}
