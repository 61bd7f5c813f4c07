package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mvalerio/account-service/internal/domain"
	"github.com/mvalerio/account-service/pkg/database"
)

// tokenBlacklistRepository implements TokenBlacklistRepository on Redis.
// Entries carry a TTL derived from the token lifetime, so revoked ids
// disappear on their own once the token would have expired anyway.
type tokenBlacklistRepository struct {
	redis    *database.Redis
	tokenTTL time.Duration
}

// NewTokenBlacklistRepository creates a new token blacklist repository
func NewTokenBlacklistRepository(redis *database.Redis, tokenTTL time.Duration) TokenBlacklistRepository {
	return &tokenBlacklistRepository{redis: redis, tokenTTL: tokenTTL}
}

func blacklistKey(id string) string {
	return fmt.Sprintf("blacklist:token:%s", id)
}

// Create records a revoked token id. The entry expires when the token
// itself would have: revocation date (the token's creation time) plus
// the token lifetime.
func (r *tokenBlacklistRepository) Create(ctx context.Context, token *domain.RevokedToken) error {
	ttl := time.Until(token.RevocationDate.Add(r.tokenTTL))
	if ttl <= 0 {
		// token already expired on its own; nothing to revoke
		return nil
	}

	if err := r.redis.Client.Set(ctx, blacklistKey(token.ID), token.RevocationDate.Format(time.RFC3339), ttl).Err(); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}

	return nil
}

// ExistsByID checks if a token id is in the blacklist.
func (r *tokenBlacklistRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	exists, err := r.redis.Client.Exists(ctx, blacklistKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}

	return exists > 0, nil
}
