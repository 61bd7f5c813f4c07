package repository

import (
	"time"

	"github.com/mvalerio/account-service/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	Account        AccountRepository
	Person         PersonRepository
	TokenBlacklist TokenBlacklistRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres, redis *database.Redis, tokenTTL time.Duration) *Repositories {
	return &Repositories{
		Account:        NewAccountRepository(db),
		Person:         NewPersonRepository(db),
		TokenBlacklist: NewTokenBlacklistRepository(redis, tokenTTL),
	}
}
