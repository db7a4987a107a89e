// internal/domain/seller/service.go
package seller

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/your-org/eyewear-backend/internal/config"
	"github.com/your-org/eyewear-backend/internal/domain/user"
)

const lensFacilityKey = "seller_lens_facility"

// Service handles seller specific business logic
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
}

// NewService creates a new seller service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
	}
}

// Profile is the seller-facing view of an account
type Profile struct {
	UserID          uint   `json:"user_id"`
	ShopName        string `json:"shop_name"`
	GSTNumber       string `json:"gst_number"`
	HasLensFacility bool   `json:"has_lens_facility"`
}

// SetLensFacilityRequest toggles in-shop lens fitting
type SetLensFacilityRequest struct {
	HasLensFacility *bool `json:"has_lens_facility" binding:"required"`
}

// GetProfile loads a seller profile with its lens facility flag
func (s *Service) GetProfile(ctx context.Context, sellerID uint) (*Profile, error) {
	var u user.User
	if err := s.db.WithContext(ctx).First(&u, sellerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("seller not found")
		}
		return nil, fmt.Errorf("failed to load seller: %w", err)
	}
	if !u.IsSeller() {
		return nil, fmt.Errorf("user %d is not a seller", sellerID)
	}

	hasFacility, err := s.GetLensFacility(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		UserID:          u.ID,
		ShopName:        u.ShopName,
		GSTNumber:       u.GSTNumber,
		HasLensFacility: hasFacility,
	}, nil
}

// SetLensFacility persists whether the seller can fit lenses in shop
func (s *Service) SetLensFacility(ctx context.Context, sellerID uint, enabled bool) error {
	var u user.User
	if err := s.db.WithContext(ctx).First(&u, sellerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("seller not found")
		}
		return fmt.Errorf("failed to load seller: %w", err)
	}
	if !u.IsSeller() {
		return fmt.Errorf("user %d is not a seller", sellerID)
	}

	field := strconv.FormatUint(uint64(sellerID), 10)
	if err := s.redisClient.HSet(ctx, lensFacilityKey, field, strconv.FormatBool(enabled)).Err(); err != nil {
		return fmt.Errorf("failed to store lens facility flag: %w", err)
	}
	return nil
}

// GetLensFacility reads the lens facility flag, defaulting to false
func (s *Service) GetLensFacility(ctx context.Context, sellerID uint) (bool, error) {
	field := strconv.FormatUint(uint64(sellerID), 10)
	val, err := s.redisClient.HGet(ctx, lensFacilityKey, field).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read lens facility flag: %w", err)
	}

	enabled, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("corrupt lens facility flag for seller %d: %w", sellerID, err)
	}
	return enabled, nil
}
