// internal/interfaces/http/handlers/lens_wizard.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/your-org/eyewear-backend/internal/config"
	"github.com/your-org/eyewear-backend/internal/domain/cart"
	"github.com/your-org/eyewear-backend/internal/domain/lens"
	"github.com/your-org/eyewear-backend/internal/interfaces/http/middleware"
)

// LensWizardHandler handles lens configuration wizard endpoints
type LensWizardHandler struct {
	lensService *lens.Service
	config      *config.Config
}

// NewLensWizardHandler creates a new lens wizard handler
func NewLensWizardHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *LensWizardHandler {
	cartService := cart.NewService(db, redisClient, cfg)
	return &LensWizardHandler{
		lensService: lens.NewService(redisClient, cartService, cfg),
		config:      cfg,
	}
}

// GetCatalog handles GET /lens/catalog
func (h *LensWizardHandler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Lens catalog retrieved successfully",
		"data":    lens.Catalog(),
	})
}

// StartWizard handles POST /lens/wizard
func (h *LensWizardHandler) StartWizard(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req lens.StartWizardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	session, err := h.lensService.Start(c.Request.Context(), userID, req.ProductID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Lens wizard started",
		"data":    session,
	})
}

// GetWizard handles GET /lens/wizard/:productId
func (h *LensWizardHandler) GetWizard(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	session, err := h.lensService.Get(c.Request.Context(), userID, c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wizard session retrieved",
		"data":    session,
	})
}

// SetEntryMethod handles PUT /lens/wizard/:productId/entry-method
func (h *LensWizardHandler) SetEntryMethod(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req lens.SetEntryMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	session, err := h.lensService.SetEntryMethod(c.Request.Context(), userID, c.Param("productId"), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Entry method set",
		"data":    session,
	})
}

// SetLensType handles PUT /lens/wizard/:productId/lens-type
func (h *LensWizardHandler) SetLensType(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req lens.SetLensTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	session, err := h.lensService.SetLensType(c.Request.Context(), userID, c.Param("productId"), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Lens type set",
		"data":    session,
	})
}

// SetPower handles PUT /lens/wizard/:productId/power
func (h *LensWizardHandler) SetPower(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req lens.SetPowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	session, err := h.lensService.SetPower(c.Request.Context(), userID, c.Param("productId"), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Prescription saved",
		"data":    session,
	})
}

// SetPrescriptionFile handles PUT /lens/wizard/:productId/prescription-file
func (h *LensWizardHandler) SetPrescriptionFile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req lens.SetFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	session, err := h.lensService.SetPrescriptionFile(c.Request.Context(), userID, c.Param("productId"), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Prescription file attached",
		"data":    session,
	})
}

// NextStep handles POST /lens/wizard/:productId/next
func (h *LensWizardHandler) NextStep(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	session, err := h.lensService.Next(c.Request.Context(), userID, c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Moved to next step",
		"data":    session,
	})
}

// PreviousStep handles POST /lens/wizard/:productId/back
func (h *LensWizardHandler) PreviousStep(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	session, err := h.lensService.Back(c.Request.Context(), userID, c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Moved to previous step",
		"data":    session,
	})
}

// CommitWizard handles POST /lens/wizard/:productId/commit
func (h *LensWizardHandler) CommitWizard(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	selection, err := h.lensService.Commit(c.Request.Context(), userID, c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Lens selection applied to cart",
		"data":    selection,
	})
}

// AbandonWizard handles DELETE /lens/wizard/:productId
func (h *LensWizardHandler) AbandonWizard(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.lensService.Abandon(c.Request.Context(), userID, c.Param("productId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wizard abandoned",
	})
}
