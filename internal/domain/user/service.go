// internal/domain/user/service.go
package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/your-org/eyewear-backend/internal/config"
	"github.com/your-org/eyewear-backend/internal/pkg/auth"
	"github.com/your-org/eyewear-backend/internal/pkg/email"
)

// Service handles user business logic
type Service struct {
	db           *gorm.DB
	redisClient  *redis.Client
	config       *config.Config
	jwtManager   *auth.JWTManager
	otpManager   *auth.OTPManager
	emailService *email.EmailService
}

// NewService creates a new user service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:           db,
		redisClient:  redisClient,
		config:       cfg,
		jwtManager:   auth.NewJWTManager(cfg),
		otpManager:   auth.NewOTPManager(cfg),
		emailService: email.NewEmailService(cfg),
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Mobile    string `json:"mobile" binding:"required"`
	Role      string `json:"role"`

	// Seller fields
	ShopName  string `json:"shop_name"`
	GSTNumber string `json:"gst_number"`

	// Reseller fields
	BusinessName  string  `json:"business_name"`
	MarginPercent float64 `json:"margin_percent"`
}

// SendOTPRequest represents a request for a login code
type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyOTPRequest represents login code verification data
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// RefreshTokenRequest represents token refresh data
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// otpRecord is the value stored in Redis while a code is outstanding
type otpRecord struct {
	CodeHash string    `json:"code_hash"`
	Attempts int       `json:"attempts"`
	IssuedAt time.Time `json:"issued_at"`
}

// Register creates a new user account
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	userEmail := strings.ToLower(strings.TrimSpace(req.Email))

	var existing User
	if err := s.db.WithContext(ctx).Where("email = ?", userEmail).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("user with email %s already exists", userEmail)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	role := req.Role
	if role == "" {
		role = RoleCustomer
	}
	switch role {
	case RoleCustomer, RoleSeller, RoleReseller:
	default:
		return nil, fmt.Errorf("invalid role: %s", role)
	}

	if role == RoleSeller && req.ShopName == "" {
		return nil, fmt.Errorf("shop name is required for seller accounts")
	}
	if role == RoleReseller && req.BusinessName == "" {
		return nil, fmt.Errorf("business name is required for reseller accounts")
	}
	if req.MarginPercent < 0 || req.MarginPercent > 100 {
		return nil, fmt.Errorf("margin percent must be between 0 and 100")
	}

	user := &User{
		Email:         userEmail,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Mobile:        req.Mobile,
		Role:          role,
		IsActive:      true,
		ShopName:      req.ShopName,
		GSTNumber:     req.GSTNumber,
		BusinessName:  req.BusinessName,
		MarginPercent: req.MarginPercent,
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Welcome email failure should not fail registration
	go func() {
		bg, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = s.emailService.SendWelcomeEmail(bg, user.Email, user.GetDisplayName(), user.Role)
	}()

	return user, nil
}

// SendOTP generates a login code and emails it to the user
func (s *Service) SendOTP(ctx context.Context, req *SendOTPRequest) error {
	userEmail := strings.ToLower(strings.TrimSpace(req.Email))

	var user User
	if err := s.db.WithContext(ctx).Where("email = ?", userEmail).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("no account found for %s", userEmail)
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsActive {
		return fmt.Errorf("account is deactivated")
	}

	// Resend cooldown
	set, err := s.redisClient.SetNX(ctx, s.otpCooldownKey(userEmail), "1", s.config.OTP.ResendCooldown).Result()
	if err != nil {
		return fmt.Errorf("failed to check otp cooldown: %w", err)
	}
	if !set {
		return fmt.Errorf("please wait before requesting another code")
	}

	code, err := s.otpManager.GenerateCode()
	if err != nil {
		return err
	}

	hash, err := s.otpManager.HashCode(code)
	if err != nil {
		return err
	}

	record := otpRecord{
		CodeHash: hash,
		IssuedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal otp record: %w", err)
	}

	if err := s.redisClient.Set(ctx, s.otpKey(userEmail), data, s.config.OTP.Expiry).Err(); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	if err := s.emailService.SendLoginOTPEmail(ctx, user.Email, user.GetDisplayName(), code, s.config.OTP.Expiry); err != nil {
		return fmt.Errorf("failed to send otp email: %w", err)
	}

	return nil
}

// VerifyOTP checks a login code and issues a token pair on success
func (s *Service) VerifyOTP(ctx context.Context, req *VerifyOTPRequest) (*AuthResponse, error) {
	userEmail := strings.ToLower(strings.TrimSpace(req.Email))

	var user User
	if err := s.db.WithContext(ctx).Where("email = ?", userEmail).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid email or code")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	key := s.otpKey(userEmail)
	data, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("code expired, please request a new one")
		}
		return nil, fmt.Errorf("failed to load otp: %w", err)
	}

	var record otpRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal otp record: %w", err)
	}

	if record.Attempts >= s.config.OTP.MaxAttempts {
		s.redisClient.Del(ctx, key)
		return nil, fmt.Errorf("too many attempts, please request a new code")
	}

	if err := s.otpManager.VerifyCode(req.Code, record.CodeHash); err != nil {
		record.Attempts++
		if updated, merr := json.Marshal(record); merr == nil {
			s.redisClient.Set(ctx, key, updated, redis.KeepTTL)
		}
		return nil, fmt.Errorf("invalid email or code")
	}

	// Codes are single use
	s.redisClient.Del(ctx, key)
	s.redisClient.Del(ctx, s.otpCooldownKey(userEmail))

	now := time.Now()
	s.db.WithContext(ctx).Model(&user).Update("last_login_at", &now)
	user.LastLoginAt = &now

	return s.issueTokens(&user)
}

// RefreshToken generates new tokens using a refresh token
func (s *Service) RefreshToken(ctx context.Context, req *RefreshTokenRequest) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	var user User
	if err := s.db.WithContext(ctx).First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsActive {
		return nil, fmt.Errorf("account is deactivated")
	}

	return s.issueTokens(&user)
}

// GetProfile retrieves user profile by ID
func (s *Service) GetProfile(ctx context.Context, userID uint) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).Preload("Addresses").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return &user, nil
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Mobile       string `json:"mobile"`
	ShopName     string `json:"shop_name"`
	GSTNumber    string `json:"gst_number"`
	BusinessName string `json:"business_name"`
}

// UpdateProfile updates user profile information
func (s *Service) UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	updates := map[string]interface{}{}
	if req.FirstName != "" {
		updates["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		updates["last_name"] = req.LastName
	}
	if req.Mobile != "" {
		updates["mobile"] = req.Mobile
	}
	if user.IsSeller() {
		if req.ShopName != "" {
			updates["shop_name"] = req.ShopName
		}
		if req.GSTNumber != "" {
			updates["gst_number"] = req.GSTNumber
		}
	}
	if user.IsReseller() && req.BusinessName != "" {
		updates["business_name"] = req.BusinessName
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	return s.GetProfile(ctx, userID)
}

// GetUserByID retrieves a user by ID
func (s *Service) GetUserByID(ctx context.Context, userID uint) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// issueTokens builds a token pair for the user
func (s *Service) issueTokens(user *User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

func (s *Service) otpKey(email string) string {
	return fmt.Sprintf("login_otp:%s", email)
}

func (s *Service) otpCooldownKey(email string) string {
	return fmt.Sprintf("login_otp_cooldown:%s", email)
}
