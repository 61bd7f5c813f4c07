package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	nicknameMinLength = 3
	nicknameMaxLength = 16
)

// Word characters followed by word characters or dots; leading dots are
// excluded by the first class, trailing and double dots are checked
// separately since RE2 has no lookahead.
var nicknameRegex = regexp.MustCompile(`^\w[\w.]{0,15}$`)

// AccountInput holds the raw candidate fields for building an Account.
type AccountInput struct {
	ID       string
	Nickname string
	Email    string
	Password string
	PersonID string
}

// NewAccount builds a structurally valid Account from raw input or
// fails with a ValidationError. On fresh creation (no ID) it
// synthesizes the id, hashes the password, fixes status/role and
// attaches a fresh details sub-record with an activation code. When an
// ID is present the password is treated as an existing hash and passed
// through unchanged.
func NewAccount(input AccountInput) (*Account, error) {
	if input.ID != "" && !isUUIDv4(input.ID) {
		return nil, NewValidationError(CodeAccountIDInvalid)
	}

	nickname := strings.TrimSpace(input.Nickname)
	if nickname == "" {
		return nil, NewValidationError(CodeNicknameRequired)
	}
	if len(nickname) < nicknameMinLength {
		return nil, NewValidationErrorWithValue(CodeNicknameMinLength, nicknameMinLength)
	}
	if len(nickname) > nicknameMaxLength {
		return nil, NewValidationErrorWithValue(CodeNicknameMaxLength, nicknameMaxLength)
	}
	if !nicknameRegex.MatchString(nickname) || strings.Contains(nickname, "..") || strings.HasSuffix(nickname, ".") {
		return nil, NewValidationError(CodeNicknameInvalid)
	}
	if nicknameIsBlocked(nickname) {
		return nil, NewValidationError(CodeNicknameInvalid)
	}

	if strings.TrimSpace(input.Email) == "" {
		return nil, NewValidationError(CodeEmailRequired)
	}

	password := input.Password
	if input.ID == "" {
		if err := ValidatePasswordStrength(password); err != nil {
			return nil, err
		}

		hash, err := EncryptPassword(password)
		if err != nil {
			return nil, err
		}
		password = hash
	}

	if input.PersonID == "" {
		return nil, NewValidationError(CodePersonIDRequired)
	}

	id := input.ID
	account := &Account{
		ID:           id,
		Nickname:     nickname,
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: password,
		Status:       StatusUnverified,
		Role:         RoleDefault,
		PersonID:     input.PersonID,
	}

	if id == "" {
		account.ID = uuid.New().String()
		account.Details = NewAccountDetails(account.ID)
	}

	return account, nil
}

// NewAccountDetails builds the fresh security sub-record created
// together with an account: a new activation code stamped now, all
// counters at zero.
func NewAccountDetails(accountID string) *AccountDetails {
	code := RandomCode(ActivationCodeLength)
	now := time.Now()

	return &AccountDetails{
		AccountID:          accountID,
		ActivationCode:     &code,
		ActivationCodeDate: &now,
	}
}

func isUUIDv4(s string) bool {
	id, err := uuid.Parse(s)
	return err == nil && id.Version() == 4
}
