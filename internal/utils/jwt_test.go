package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mvalerio/account-service/internal/domain"
)

const testSecret = "test-secret-key-that-is-at-least-32-characters-long"

func testAccount() *domain.Account {
	return &domain.Account{
		ID:       uuid.New().String(),
		Nickname: "alice987",
		Email:    "alice@example.com",
		Status:   domain.StatusVerified,
		Role:     domain.RoleDefault,
		PersonID: uuid.New().String(),
	}
}

func TestGenerateAndValidateSessionToken(t *testing.T) {
	manager := NewJWTManager(testSecret, 15*time.Minute)
	account := testAccount()

	token, err := manager.GenerateSessionToken(account)
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	claims, err := manager.ValidateSessionToken(token)
	if err != nil {
		t.Fatalf("ValidateSessionToken failed: %v", err)
	}

	if claims.AccountID != account.ID {
		t.Errorf("Expected account id %q, got %q", account.ID, claims.AccountID)
	}
	if claims.PersonID != account.PersonID {
		t.Errorf("Expected person id %q, got %q", account.PersonID, claims.PersonID)
	}
	if claims.Status != domain.StatusVerified {
		t.Errorf("Expected status %q, got %q", domain.StatusVerified, claims.Status)
	}
	if claims.Role != domain.RoleDefault {
		t.Errorf("Expected role %q, got %q", domain.RoleDefault, claims.Role)
	}
	if claims.TokenID == "" {
		t.Error("Expected a token id in claims")
	}
	if claims.CreatedAt.IsZero() {
		t.Error("Expected created_at in claims")
	}

	if !manager.TokenIDIsValid(claims.TokenID, account.ID) {
		t.Error("Expected token id to validate against its account id")
	}
	other := []byte(account.ID)
	other[1], other[2], other[3] = 'z', 'z', 'z'
	if manager.TokenIDIsValid(claims.TokenID, string(other)) {
		t.Error("Expected token id to reject a different account id")
	}
}

func TestValidateSessionToken_Expired(t *testing.T) {
	manager := NewJWTManager(testSecret, -time.Minute)

	token, err := manager.GenerateSessionToken(testAccount())
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	if _, err := manager.ValidateSessionToken(token); err == nil {
		t.Error("Expected expired token to be rejected")
	}
}

func TestValidateSessionToken_WrongSecret(t *testing.T) {
	manager := NewJWTManager(testSecret, 15*time.Minute)

	token, err := manager.GenerateSessionToken(testAccount())
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	other := NewJWTManager("another-secret-key-that-is-32-chars-long!", 15*time.Minute)
	if _, err := other.ValidateSessionToken(token); err == nil {
		t.Error("Expected token signed with a different secret to be rejected")
	}
}

func TestValidateSessionToken_Garbage(t *testing.T) {
	manager := NewJWTManager(testSecret, 15*time.Minute)

	if _, err := manager.ValidateSessionToken("not.a.token"); err == nil {
		t.Error("Expected malformed token to be rejected")
	}
}
