// internal/interfaces/http/handlers/upload.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/your-org/eyewear-backend/internal/config"
	"github.com/your-org/eyewear-backend/internal/domain/upload"
	"github.com/your-org/eyewear-backend/internal/interfaces/http/middleware"
)

// UploadHandler handles file upload endpoints
type UploadHandler struct {
	uploadService *upload.Service
	config        *config.Config
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(db *gorm.DB, cfg *config.Config) *UploadHandler {
	provider := upload.NewLocalProvider(cfg)
	return &UploadHandler{
		uploadService: upload.NewService(db, cfg, provider),
		config:        cfg,
	}
}

// UploadFile handles POST /uploads
func (h *UploadHandler) UploadFile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	if err := c.Request.ParseMultipartForm(h.config.Upload.MaxSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to parse upload form",
		})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No file provided",
		})
		return
	}
	defer file.Close()

	result, err := h.uploadService.Upload(c.Request.Context(), &upload.UploadRequest{
		File:       file,
		Header:     header,
		Category:   c.PostForm("category"),
		UploadedBy: userID,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded successfully",
		"data":    result,
	})
}

// UploadPrescription handles POST /uploads/prescription
func (h *UploadHandler) UploadPrescription(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	if err := c.Request.ParseMultipartForm(h.config.Upload.MaxSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to parse upload form",
		})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No file provided",
		})
		return
	}
	defer file.Close()

	result, err := h.uploadService.UploadPrescription(c.Request.Context(), userID, file, header)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Prescription uploaded successfully",
		"data":    result,
	})
}

// GetFile handles GET /uploads/:id
func (h *UploadHandler) GetFile(c *gin.Context) {
	idParam := c.Param("id")
	fileID, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid file ID",
		})
		return
	}

	file, err := h.uploadService.GetFile(c.Request.Context(), uint(fileID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File retrieved successfully",
		"data":    file,
	})
}

// DeleteFile handles DELETE /uploads/:id
func (h *UploadHandler) DeleteFile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	idParam := c.Param("id")
	fileID, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid file ID",
		})
		return
	}

	if err := h.uploadService.DeleteFile(c.Request.Context(), userID, uint(fileID)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File deleted successfully",
	})
}

// GetUploadConfig handles GET /uploads/config
func (h *UploadHandler) GetUploadConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Upload configuration retrieved successfully",
		"data": gin.H{
			"max_file_size":      h.config.Upload.MaxSize,
			"allowed_extensions": h.config.Upload.AllowedExtensions,
			"storage_provider":   h.config.External.Storage.Provider,
			"supported_categories": []string{
				upload.CategoryPrescription,
				upload.CategoryProduct,
				upload.CategoryGeneral,
			},
		},
	})
}
