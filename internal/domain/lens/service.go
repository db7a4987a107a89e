// internal/domain/lens/service.go
package lens

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/your-org/eyewear-backend/internal/config"
)

// sessionTTL bounds how long an abandoned wizard survives in Redis.
const sessionTTL = 24 * time.Hour

// CartAttacher applies a committed lens selection to the customer's cart.
type CartAttacher interface {
	AttachLens(ctx context.Context, userID uint, frameProductID string, sel *Selection) error
}

// Service drives lens configuration wizards and persists them between
// requests.
type Service struct {
	redisClient *redis.Client
	cart        CartAttacher
	config      *config.Config
}

// NewService creates a new lens wizard service
func NewService(redisClient *redis.Client, cart CartAttacher, cfg *config.Config) *Service {
	return &Service{
		redisClient: redisClient,
		cart:        cart,
		config:      cfg,
	}
}

// StartWizardRequest begins a wizard for a frame product
type StartWizardRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// SetEntryMethodRequest selects manual or upload entry
type SetEntryMethodRequest struct {
	EntryMethod string `json:"entry_method" binding:"required,oneof=manual upload"`
}

// SetLensTypeRequest selects a catalog lens type
type SetLensTypeRequest struct {
	LensType string `json:"lens_type" binding:"required"`
}

// SetPowerRequest carries manual prescription values
type SetPowerRequest struct {
	VisionType      string   `json:"vision_type" binding:"required,oneof=near far"`
	SameForBothEyes bool     `json:"same_for_both_eyes"`
	RightEye        EyePower `json:"right_eye"`
	LeftEye         EyePower `json:"left_eye"`
}

// SetFileRequest records an uploaded prescription reference
type SetFileRequest struct {
	FileURL string `json:"file_url" binding:"required"`
}

// Start creates (or restarts) the wizard session for a frame.
func (s *Service) Start(ctx context.Context, userID uint, productID string) (*Session, error) {
	session := NewSession(userID, productID)
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get loads the active wizard session for a frame.
func (s *Service) Get(ctx context.Context, userID uint, productID string) (*Session, error) {
	key := s.sessionKey(userID, productID)

	data, err := s.redisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("no lens configuration in progress for this product")
	} else if err != nil {
		return nil, fmt.Errorf("failed to load wizard session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to decode wizard session: %w", err)
	}

	return &session, nil
}

// SetEntryMethod records the entry method and persists the session.
func (s *Service) SetEntryMethod(ctx context.Context, userID uint, productID string, req *SetEntryMethodRequest) (*Session, error) {
	return s.mutate(ctx, userID, productID, func(session *Session) error {
		return session.SetEntryMethod(EntryMethod(req.EntryMethod))
	})
}

// SetLensType records the lens choice and persists the session.
func (s *Service) SetLensType(ctx context.Context, userID uint, productID string, req *SetLensTypeRequest) (*Session, error) {
	return s.mutate(ctx, userID, productID, func(session *Session) error {
		return session.SetLensType(Type(req.LensType))
	})
}

// SetPower records manual prescription values and persists the session.
func (s *Service) SetPower(ctx context.Context, userID uint, productID string, req *SetPowerRequest) (*Session, error) {
	return s.mutate(ctx, userID, productID, func(session *Session) error {
		session.SetPrescription(Prescription{
			VisionType:      VisionType(req.VisionType),
			SameForBothEyes: req.SameForBothEyes,
			RightEye:        req.RightEye,
			LeftEye:         req.LeftEye,
		})
		return nil
	})
}

// SetPrescriptionFile records an uploaded file reference and persists the
// session.
func (s *Service) SetPrescriptionFile(ctx context.Context, userID uint, productID string, req *SetFileRequest) (*Session, error) {
	return s.mutate(ctx, userID, productID, func(session *Session) error {
		session.SetPrescriptionFile(req.FileURL)
		return nil
	})
}

// Next advances the wizard one step.
func (s *Service) Next(ctx context.Context, userID uint, productID string) (*Session, error) {
	return s.mutate(ctx, userID, productID, func(session *Session) error {
		return session.Next()
	})
}

// Back steps the wizard backwards.
func (s *Service) Back(ctx context.Context, userID uint, productID string) (*Session, error) {
	return s.mutate(ctx, userID, productID, func(session *Session) error {
		return session.Back()
	})
}

// Commit finalizes the wizard, attaches the lens to the cart item and drops
// the session.
func (s *Service) Commit(ctx context.Context, userID uint, productID string) (*Selection, error) {
	session, err := s.Get(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	selection, err := session.Commit(time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.cart.AttachLens(ctx, userID, productID, selection); err != nil {
		return nil, fmt.Errorf("failed to attach lens to cart: %w", err)
	}

	if err := s.Abandon(ctx, userID, productID); err != nil {
		return nil, err
	}

	return selection, nil
}

// Abandon drops the wizard session.
func (s *Service) Abandon(ctx context.Context, userID uint, productID string) error {
	key := s.sessionKey(userID, productID)
	if err := s.redisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete wizard session: %w", err)
	}
	return nil
}

func (s *Service) mutate(ctx context.Context, userID uint, productID string, fn func(*Session) error) (*Session, error) {
	session, err := s.Get(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	if err := fn(session); err != nil {
		return nil, err
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *Service) save(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode wizard session: %w", err)
	}

	key := s.sessionKey(session.UserID, session.ProductID)
	if err := s.redisClient.Set(ctx, key, data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save wizard session: %w", err)
	}

	return nil
}

func (s *Service) sessionKey(userID uint, productID string) string {
	return fmt.Sprintf("lens_wizard:%d:%s", userID, productID)
}
