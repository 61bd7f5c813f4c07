package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mvalerio/account-service/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// JWTManager mints and verifies signed session tokens.
type JWTManager struct {
	secret        []byte
	sessionExpiry time.Duration
}

// NewJWTManager creates a new JWT manager.
func NewJWTManager(secret string, sessionExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secret:        []byte(secret),
		sessionExpiry: sessionExpiry,
	}
}

// GenerateTokenID derives a per-session token id: a bcrypt hash over a
// slice of the account id plus the signing secret, so the id can later
// be checked against the account it was issued for.
func (j *JWTManager) GenerateTokenID(accountID string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(j.tokenIDSeed(accountID), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to generate token id: %w", err)
	}
	return string(hash), nil
}

// TokenIDIsValid checks that a token id was derived from the given
// account id.
func (j *JWTManager) TokenIDIsValid(tokenID, accountID string) bool {
	return bcrypt.CompareHashAndPassword([]byte(tokenID), j.tokenIDSeed(accountID)) == nil
}

func (j *JWTManager) tokenIDSeed(accountID string) []byte {
	part := accountID
	if len(part) >= 4 {
		part = part[1:4]
	}
	return append([]byte(part), j.secret...)
}

// GenerateSessionToken generates a signed session token binding the
// account id, person id, a fresh token id, status, role and the issue
// timestamp.
func (j *JWTManager) GenerateSessionToken(account *domain.Account) (string, error) {
	tokenID, err := j.GenerateTokenID(account.ID)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"account_id": account.ID,
		"person_id":  account.PersonID,
		"token_id":   tokenID,
		"status":     string(account.Status),
		"role":       string(account.Role),
		"created_at": now.Unix(),
		"exp":        now.Add(j.sessionExpiry).Unix(),
		"iat":        now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// ValidateSessionToken validates a session token and returns its claims.
func (j *JWTManager) ValidateSessionToken(tokenString string) (*domain.SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	accountID, ok := claims["account_id"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid account_id in token")
	}

	personID, ok := claims["person_id"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid person_id in token")
	}

	tokenID, ok := claims["token_id"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid token_id in token")
	}

	status, ok := claims["status"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid status in token")
	}

	role, ok := claims["role"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid role in token")
	}

	createdAt, ok := claims["created_at"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid created_at in token")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid exp in token")
	}

	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid iat in token")
	}

	sessionClaims := &domain.SessionClaims{
		AccountID: accountID,
		PersonID:  personID,
		TokenID:   tokenID,
		Status:    domain.Status(status),
		Role:      domain.Role(role),
		CreatedAt: time.Unix(int64(createdAt), 0),
		Exp:       int64(exp),
		Iat:       int64(iat),
	}

	if sessionClaims.IsExpired() {
		return nil, fmt.Errorf("token is expired")
	}

	return sessionClaims, nil
}

// GetSessionExpiry returns the session token expiry duration in seconds.
func (j *JWTManager) GetSessionExpiry() int {
	return int(j.sessionExpiry.Seconds())
}

// SessionExpiry returns the session token expiry duration.
func (j *JWTManager) SessionExpiry() time.Duration {
	return j.sessionExpiry
}
