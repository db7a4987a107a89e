// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/your-org/eyewear-backend/internal/config"
	"github.com/your-org/eyewear-backend/internal/domain/order"
	"github.com/your-org/eyewear-backend/internal/interfaces/http/middleware"
	"github.com/your-org/eyewear-backend/internal/pkg/pdf"
)

// InvoiceHandler handles invoice-related endpoints
type InvoiceHandler struct {
	orderService *order.Service
	pdfService   *pdf.Service
	config       *config.Config
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *InvoiceHandler {
	return &InvoiceHandler{
		orderService: order.NewService(db, redisClient, cfg, nil),
		pdfService:   pdf.NewService(cfg),
		config:       cfg,
	}
}

// GenerateInvoice handles GET /orders/:id/invoice
func (h *InvoiceHandler) GenerateInvoice(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	idParam := c.Param("id")
	orderID, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	ord, err := h.orderService.GetUserOrder(userID, uint(orderID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
		return
	}

	if !ord.IsPaid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invoice is available only for paid orders",
		})
		return
	}

	pdfBuffer, err := h.pdfService.GenerateInvoice(ord)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate invoice",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", ord.OrderNumber))
	c.Data(http.StatusOK, "application/pdf", pdfBuffer.Bytes())
}

// GetInvoiceData handles GET /orders/:id/invoice/data (for frontend preview)
func (h *InvoiceHandler) GetInvoiceData(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	idParam := c.Param("id")
	orderID, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	ord, err := h.orderService.GetUserOrder(userID, uint(orderID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
		return
	}

	invoiceData := gin.H{
		"invoice_number": fmt.Sprintf("INV-%s", ord.OrderNumber),
		"invoice_date":   time.Now().Format("January 2, 2006"),
		"order":          ord,
		"company": gin.H{
			"name":    h.config.App.CompanyName,
			"address": h.config.App.CompanyAddress,
			"phone":   h.config.App.CompanyPhone,
			"email":   h.config.App.CompanyEmail,
		},
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invoice data retrieved successfully",
		"data":    invoiceData,
	})
}
