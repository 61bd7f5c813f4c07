package service

import (
	"context"

	"github.com/mvalerio/account-service/internal/domain"
)

// AccountService defines the account lifecycle operations.
type AccountService interface {
	Create(ctx context.Context, input domain.AccountInput) (*domain.Account, error)
	ChangeActivationCode(ctx context.Context, id string) error
	Activate(ctx context.Context, id, code string) error
	UpdatePassword(ctx context.Context, id, currentPassword, newPassword string) error
	RequestRecoverPassword(ctx context.Context, email string) error
	RecoverPassword(ctx context.Context, email, code, newPassword string) error
	SignIn(ctx context.Context, login, password string, isNickname bool) (*SignInResult, error)
}

// PersonService defines person profile operations.
type PersonService interface {
	Create(ctx context.Context, input domain.PersonInput) (*domain.Person, error)
	Update(ctx context.Context, input domain.PersonInput) (*domain.Person, error)
}

// NotificationGateway delivers one-time codes to the account holder
// out-of-band. It is an optional capability of the account service: a
// nil gateway disables delivery without being an error.
type NotificationGateway interface {
	SendVerificationEmail(ctx context.Context, nickname, email, code string) error
	SendRecoverPasswordEmail(ctx context.Context, email, code string) error
}
