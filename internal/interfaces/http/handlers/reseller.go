// internal/interfaces/http/handlers/reseller.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/your-org/eyewear-backend/internal/config"
	"github.com/your-org/eyewear-backend/internal/domain/reseller"
	"github.com/your-org/eyewear-backend/internal/interfaces/http/middleware"
)

// ResellerHandler handles reseller endpoints
type ResellerHandler struct {
	resellerService *reseller.Service
	config          *config.Config
}

// NewResellerHandler creates a new reseller handler
func NewResellerHandler(db *gorm.DB, cfg *config.Config) *ResellerHandler {
	return &ResellerHandler{
		resellerService: reseller.NewService(db, cfg),
		config:          cfg,
	}
}

// QuoteProduct handles POST /reseller/quote
func (h *ResellerHandler) QuoteProduct(c *gin.Context) {
	resellerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req reseller.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	quote, err := h.resellerService.QuoteProduct(c.Request.Context(), resellerID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Quote generated successfully",
		"data":    quote,
	})
}

// BulkQuote handles POST /reseller/bulk-quote
func (h *ResellerHandler) BulkQuote(c *gin.Context) {
	resellerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req reseller.BulkQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	quote, err := h.resellerService.BulkQuote(c.Request.Context(), resellerID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bulk quote generated successfully",
		"data":    quote,
	})
}
