package repository

import (
	"context"

	"github.com/mvalerio/account-service/internal/domain"
)

// AccountRepository defines persistence operations for accounts and
// their paired details record. Lookups populate person and details;
// counter increments are atomic on the storage side.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByNickname(ctx context.Context, nickname string) (*domain.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	ChangeActivationCode(ctx context.Context, id, code string) error
	Activate(ctx context.Context, id string) error
	IncreaseFailedActivation(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	RequestRecoverPassword(ctx context.Context, id, code string) error
	IncreaseFailedRecoverPassword(ctx context.Context, id string) error
	RecoverPassword(ctx context.Context, id, passwordHash string) error
	IncreaseFailedSignIn(ctx context.Context, id string) error
	SaveLastSignIn(ctx context.Context, id string) error
}

// PersonRepository defines persistence operations for persons.
type PersonRepository interface {
	Create(ctx context.Context, person *domain.Person) (*domain.Person, error)
	Update(ctx context.Context, person *domain.Person) (*domain.Person, error)
	GetAccount(ctx context.Context, personID string) (*domain.Account, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// TokenBlacklistRepository defines storage for revoked session token
// ids. Entries expire naturally once the underlying token would have
// expired.
type TokenBlacklistRepository interface {
	Create(ctx context.Context, token *domain.RevokedToken) error
	ExistsByID(ctx context.Context, id string) (bool, error)
}
