package auth

import (
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/spec-kit/storefront-admin/pkg/util"
)

// MinPasswordLength is the policy floor applied at activation time.
const MinPasswordLength = 6

// ValidatePassword enforces the minimum password policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperrors.NewValidation(apperrors.CodeWeakPassword, "password must be at least 6 characters")
	}
	return nil
}

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
