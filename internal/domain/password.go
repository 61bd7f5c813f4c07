package domain

import (
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

const (
	passwordMinLength = 10
	passwordMaxLength = 30
)

var (
	passwordLowerRegex   = regexp.MustCompile(`[a-z]`)
	passwordUpperRegex   = regexp.MustCompile(`[A-Z]`)
	passwordDigitRegex   = regexp.MustCompile(`\d`)
	passwordSpecialRegex = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
)

// ValidatePasswordStrength checks the password strength rules in fixed
// order; the first violated rule determines the reported code.
func ValidatePasswordStrength(password string) error {
	if password == "" {
		return NewValidationError(CodePasswordRequired)
	}
	if !passwordLowerRegex.MatchString(password) || !passwordUpperRegex.MatchString(password) {
		return NewValidationError(CodePasswordLowercaseUppercase)
	}
	if !passwordDigitRegex.MatchString(password) {
		return NewValidationError(CodePasswordNumber)
	}
	if !passwordSpecialRegex.MatchString(password) {
		return NewValidationError(CodePasswordSpecialCharacter)
	}
	if len(password) < passwordMinLength {
		return NewValidationErrorWithValue(CodePasswordMinLength, passwordMinLength)
	}
	if len(password) > passwordMaxLength {
		return NewValidationErrorWithValue(CodePasswordMaxLength, passwordMaxLength)
	}

	return nil
}

// EncryptPassword hashes a password using bcrypt.
func EncryptPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// VerifyPassword compares a plaintext password with a bcrypt hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
