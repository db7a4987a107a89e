// internal/domain/user/address_service.go
package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/your-org/eyewear-backend/internal/config"
)

// AddressService handles saved address business logic
type AddressService struct {
	db     *gorm.DB
	config *config.Config
}

// NewAddressService creates a new address service
func NewAddressService(db *gorm.DB, cfg *config.Config) *AddressService {
	return &AddressService{
		db:     db,
		config: cfg,
	}
}

// CreateAddressRequest represents address creation data
type CreateAddressRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	AddressLine1 string `json:"address_line1" binding:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	Pincode      string `json:"pincode" binding:"required,len=6"`
	Phone        string `json:"phone" binding:"required,len=10"`
	IsDefault    bool   `json:"is_default"`
}

// UpdateAddressRequest represents address update data
type UpdateAddressRequest struct {
	FullName     *string `json:"full_name"`
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	Pincode      *string `json:"pincode" binding:"omitempty,len=6"`
	Phone        *string `json:"phone" binding:"omitempty,len=10"`
	IsDefault    *bool   `json:"is_default"`
}

// GetUserAddresses retrieves all addresses for a user, default first
func (s *AddressService) GetUserAddresses(ctx context.Context, userID uint) ([]Address, error) {
	var addresses []Address
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve addresses: %w", err)
	}
	return addresses, nil
}

// GetAddress retrieves a specific address for a user
func (s *AddressService) GetAddress(ctx context.Context, userID, addressID uint) (*Address, error) {
	var address Address
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("address not found")
		}
		return nil, fmt.Errorf("failed to retrieve address: %w", err)
	}
	return &address, nil
}

// CreateAddress creates a new address for a user
func (s *AddressService) CreateAddress(ctx context.Context, userID uint, req *CreateAddressRequest) (*Address, error) {
	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if req.IsDefault {
		if err := s.unsetDefaultAddresses(tx, userID); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	address := Address{
		UserID:       userID,
		FullName:     req.FullName,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
		Phone:        req.Phone,
		IsDefault:    req.IsDefault,
	}

	if err := tx.Create(&address).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &address, nil
}

// UpdateAddress updates an existing address
func (s *AddressService) UpdateAddress(ctx context.Context, userID, addressID uint, req *UpdateAddressRequest) (*Address, error) {
	address, err := s.GetAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if req.IsDefault != nil && *req.IsDefault {
		if err := s.unsetDefaultAddresses(tx, userID); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	updates := make(map[string]interface{})
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.AddressLine1 != nil {
		updates["address_line1"] = *req.AddressLine1
	}
	if req.AddressLine2 != nil {
		updates["address_line2"] = *req.AddressLine2
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.State != nil {
		updates["state"] = *req.State
	}
	if req.Pincode != nil {
		updates["pincode"] = *req.Pincode
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.IsDefault != nil {
		updates["is_default"] = *req.IsDefault
	}

	if err := tx.Model(address).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update address: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.GetAddress(ctx, userID, addressID)
}

// DeleteAddress deletes an address
func (s *AddressService) DeleteAddress(ctx context.Context, userID, addressID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		Delete(&Address{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete address: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("address not found")
	}
	return nil
}

// SetDefaultAddress marks an address as the default for checkout prefill
func (s *AddressService) SetDefaultAddress(ctx context.Context, userID, addressID uint) error {
	address, err := s.GetAddress(ctx, userID, addressID)
	if err != nil {
		return err
	}

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := s.unsetDefaultAddresses(tx, userID); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Model(address).Update("is_default", true).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to set default address: %w", err)
	}

	return tx.Commit().Error
}

// GetDefaultAddress gets the user's default address
func (s *AddressService) GetDefaultAddress(ctx context.Context, userID uint) (*Address, error) {
	var address Address
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_default = ?", userID, true).
		First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no default address found")
		}
		return nil, fmt.Errorf("failed to retrieve default address: %w", err)
	}
	return &address, nil
}

func (s *AddressService) unsetDefaultAddresses(tx *gorm.DB, userID uint) error {
	return tx.Model(&Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}
