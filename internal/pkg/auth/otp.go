// internal/pkg/auth/otp.go
package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/your-org/eyewear-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

const otpDigits = 6

// OTPManager handles one-time password generation and verification
type OTPManager struct {
	config *config.Config
}

// NewOTPManager creates a new OTP manager
func NewOTPManager(cfg *config.Config) *OTPManager {
	return &OTPManager{
		config: cfg,
	}
}

// GenerateCode generates a random numeric one-time password
func (o *OTPManager) GenerateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	return fmt.Sprintf("%0*d", otpDigits, n), nil
}

// HashCode hashes an OTP code for storage using bcrypt
func (o *OTPManager) HashCode(code string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(code), o.config.Security.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash otp: %w", err)
	}

	return string(hashedBytes), nil
}

// VerifyCode verifies an OTP code against its stored hash
func (o *OTPManager) VerifyCode(code, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code))
}
