package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mvalerio/account-service/internal/domain"
	"github.com/mvalerio/account-service/internal/repository"
)

// TokenBlacklistService revokes session tokens and answers whether a
// token id has been revoked.
type TokenBlacklistService interface {
	SignOut(ctx context.Context, tokenID string, createdAt time.Time) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

type tokenBlacklistService struct {
	blacklistRepo repository.TokenBlacklistRepository
}

// NewTokenBlacklistService creates a new token blacklist service.
func NewTokenBlacklistService(blacklistRepo repository.TokenBlacklistRepository) TokenBlacklistService {
	return &tokenBlacklistService{blacklistRepo: blacklistRepo}
}

// SignOut revokes the session token the caller presented. Requests
// without a token id or creation time have nothing to revoke and
// succeed as a no-op.
func (s *tokenBlacklistService) SignOut(ctx context.Context, tokenID string, createdAt time.Time) error {
	if tokenID == "" || createdAt.IsZero() {
		return nil
	}

	token, err := domain.NewRevokedToken(tokenID, createdAt)
	if err != nil {
		return err
	}

	if err := s.blacklistRepo.Create(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

// IsTokenRevoked checks whether a token id has been signed out.
func (s *tokenBlacklistService) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.blacklistRepo.ExistsByID(ctx, tokenID)
}
