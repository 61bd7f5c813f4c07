package domain

import "time"

// SessionClaims is the payload of a signed session token.
type SessionClaims struct {
	AccountID string    `json:"account_id"`
	PersonID  string    `json:"person_id"`
	TokenID   string    `json:"token_id"`
	Status    Status    `json:"status"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	Exp       int64     `json:"exp"`
	Iat       int64     `json:"iat"`
}

// IsExpired checks if the token is expired.
func (c SessionClaims) IsExpired() bool {
	return time.Now().Unix() > c.Exp
}

// RevokedToken marks a session token id as signed out. The storage
// layer expires entries on its own once the underlying token would have
// expired anyway.
type RevokedToken struct {
	ID             string    `json:"id"`
	RevocationDate time.Time `json:"revocation_date"`
}

// NewRevokedToken validates a blacklist entry.
func NewRevokedToken(id string, revocationDate time.Time) (*RevokedToken, error) {
	if id == "" {
		return nil, NewValidationError(CodeTokenIDRequired)
	}
	if revocationDate.IsZero() {
		return nil, NewValidationError(CodeTokenRevocationDateRequired)
	}

	return &RevokedToken{ID: id, RevocationDate: revocationDate}, nil
}
