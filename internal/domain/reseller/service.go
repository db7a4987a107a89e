// internal/domain/reseller/service.go
package reseller

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/your-org/eyewear-backend/internal/config"
	"github.com/your-org/eyewear-backend/internal/domain/product"
	"github.com/your-org/eyewear-backend/internal/domain/user"
)

// Service handles reseller pricing and bulk quoting
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new reseller service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// QuoteRequest represents a bulk quote line
type QuoteRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// BulkQuoteRequest represents a multi-line bulk quote
type BulkQuoteRequest struct {
	Items []QuoteRequest `json:"items" binding:"required,min=1,dive"`
}

// BulkQuoteResponse is the priced quote for a reseller order
type BulkQuoteResponse struct {
	Quotes     []Quote `json:"quotes"`
	GrandTotal int64   `json:"grand_total"`
}

// QuoteProduct prices a single product at the reseller's margin
func (s *Service) QuoteProduct(ctx context.Context, resellerID uint, req *QuoteRequest) (*Quote, error) {
	reseller, err := s.loadReseller(ctx, resellerID)
	if err != nil {
		return nil, err
	}

	var p product.Product
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", req.ProductID, true).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	return BuildQuote(p.ID, p.Price, req.Quantity, reseller.MarginPercent)
}

// BulkQuote prices a set of products at the reseller's margin
func (s *Service) BulkQuote(ctx context.Context, resellerID uint, req *BulkQuoteRequest) (*BulkQuoteResponse, error) {
	reseller, err := s.loadReseller(ctx, resellerID)
	if err != nil {
		return nil, err
	}

	resp := &BulkQuoteResponse{Quotes: make([]Quote, 0, len(req.Items))}
	for _, item := range req.Items {
		var p product.Product
		if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", item.ProductID, true).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("product %s not found", item.ProductID)
			}
			return nil, fmt.Errorf("failed to load product %s: %w", item.ProductID, err)
		}

		quote, err := BuildQuote(p.ID, p.Price, item.Quantity, reseller.MarginPercent)
		if err != nil {
			return nil, err
		}

		resp.Quotes = append(resp.Quotes, *quote)
		resp.GrandTotal += quote.LineTotal
	}

	return resp, nil
}

func (s *Service) loadReseller(ctx context.Context, resellerID uint) (*user.User, error) {
	var u user.User
	if err := s.db.WithContext(ctx).First(&u, resellerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reseller not found")
		}
		return nil, fmt.Errorf("failed to load reseller: %w", err)
	}
	if !u.IsReseller() {
		return nil, fmt.Errorf("user %d is not a reseller", resellerID)
	}
	return &u, nil
}
