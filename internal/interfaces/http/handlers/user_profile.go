// internal/interfaces/http/handlers/user_profile.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/your-org/eyewear-backend/internal/config"
	"github.com/your-org/eyewear-backend/internal/domain/order"
	"github.com/your-org/eyewear-backend/internal/domain/user"
	"github.com/your-org/eyewear-backend/internal/interfaces/http/middleware"
)

// UserProfileHandler handles user profile endpoints
type UserProfileHandler struct {
	userService *user.Service
	config      *config.Config
	db          *gorm.DB
}

// NewUserProfileHandler creates a new user profile handler
func NewUserProfileHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *UserProfileHandler {
	return &UserProfileHandler{
		userService: user.NewService(db, redisClient, cfg),
		config:      cfg,
		db:          db,
	}
}

// GetProfile handles GET /users/profile
func (h *UserProfileHandler) GetProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile retrieved successfully",
		"data":    profile,
	})
}

// UpdateProfile handles PUT /users/profile
func (h *UserProfileHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"data":    profile,
	})
}

// GetDashboard handles GET /users/dashboard
func (h *UserProfileHandler) GetDashboard(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get user profile",
		})
		return
	}

	stats := h.getUserDashboardStats(userID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Dashboard data retrieved successfully",
		"data": gin.H{
			"user":  profile,
			"stats": stats,
		},
	})
}

// getUserDashboardStats gathers order and address counts for the dashboard
func (h *UserProfileHandler) getUserDashboardStats(userID uint) map[string]interface{} {
	stats := make(map[string]interface{})

	var orderCount int64
	h.db.Model(&order.Order{}).Where("user_id = ?", userID).Count(&orderCount)
	stats["total_orders"] = orderCount

	var totalSpent int64
	h.db.Model(&order.Order{}).
		Where("user_id = ? AND payment_status = ?", userID, order.PaymentStatusPaid).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalSpent)
	stats["total_spent"] = totalSpent

	var pendingOrders int64
	h.db.Model(&order.Order{}).
		Where("user_id = ? AND status IN ?", userID, []order.OrderStatus{
			order.OrderStatusPending,
			order.OrderStatusConfirmed,
			order.OrderStatusProcessing,
		}).
		Count(&pendingOrders)
	stats["pending_orders"] = pendingOrders

	var addressCount int64
	h.db.Model(&user.Address{}).Where("user_id = ?", userID).Count(&addressCount)
	stats["address_count"] = addressCount

	var recentOrders []order.Order
	h.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(5).
		Find(&recentOrders)
	stats["recent_orders"] = recentOrders

	return stats
}
