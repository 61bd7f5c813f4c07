package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mvalerio/account-service/internal/domain"
	"github.com/mvalerio/account-service/internal/repository"
	"github.com/mvalerio/account-service/internal/utils"
)

const (
	activationCodeRequestDelayMinutes = 4
	activationCodeExpiryMinutes       = 30
	maxFailedActivationAttempts       = 3

	recoverCodeRequestDelayMinutes = 2
	recoverCodeExpiryMinutes       = 30
	maxFailedRecoveryAttempts      = 2

	signInBackoffThreshold     = 3
	signInDelayMinutesPerCount = 0.5
)

// accountService implements AccountService: the state machine over
// account status with the temporal guards and attempt counters around
// activation, recovery and sign-in.
type accountService struct {
	accountRepo repository.AccountRepository
	jwtManager  *utils.JWTManager
	notifier    NotificationGateway
}

// NewAccountService creates a new account service. A nil notifier
// disables out-of-band code delivery.
func NewAccountService(
	accountRepo repository.AccountRepository,
	jwtManager *utils.JWTManager,
	notifier NotificationGateway,
) AccountService {
	return &accountService{
		accountRepo: accountRepo,
		jwtManager:  jwtManager,
		notifier:    notifier,
	}
}

// SignInResult is what a successful sign-in returns: the signed session
// token, its lifetime in seconds and the sanitized account view.
type SignInResult struct {
	Token     string
	ExpiresIn int
	Account   *domain.Account
}

// minutesSince returns the whole number of minutes elapsed since t.
func minutesSince(t time.Time) int {
	return int(time.Since(t).Minutes())
}

// Create builds a new account, checks email and nickname uniqueness
// (email first), persists the account together with its details and
// delivers the activation code when a notification gateway is present.
func (s *accountService) Create(ctx context.Context, input domain.AccountInput) (*domain.Account, error) {
	account, err := domain.NewAccount(input)
	if err != nil {
		return nil, err
	}

	emailExists, err := s.accountRepo.ExistsByEmail(ctx, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if emailExists {
		return nil, domain.NewValidationError(domain.CodeEmailAlreadyExists)
	}

	nicknameExists, err := s.accountRepo.ExistsByNickname(ctx, account.Nickname)
	if err != nil {
		return nil, fmt.Errorf("failed to check nickname existence: %w", err)
	}
	if nicknameExists {
		return nil, domain.NewValidationError(domain.CodeNicknameAlreadyTaken)
	}

	created, err := s.accountRepo.Create(ctx, account)
	if err != nil {
		// a concurrent creation can still lose the race to the unique index
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, domain.NewValidationError(domain.CodeEmailAlreadyExists)
		}
		if errors.Is(err, repository.ErrDuplicateNickname) {
			return nil, domain.NewValidationError(domain.CodeNicknameAlreadyTaken)
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if s.notifier != nil {
		code := *account.Details.ActivationCode
		if err := s.notifier.SendVerificationEmail(ctx, created.Nickname, created.Email, code); err != nil {
			return nil, fmt.Errorf("failed to send verification email: %w", err)
		}
	}

	return created, nil
}

func (s *accountService) canChangeActivationCode(ctx context.Context, id string) error {
	account, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	if account.Status != domain.StatusUnverified {
		return domain.NewValidationErrorWithValue(domain.CodeCantChangeActivationCode, string(account.Status))
	}

	elapsed := minutesSince(*account.Details.ActivationCodeDate)
	if elapsed <= activationCodeRequestDelayMinutes {
		remaining := activationCodeRequestDelayMinutes - elapsed
		if remaining == 0 {
			remaining = 1
		}
		return domain.NewValidationErrorWithValue(domain.CodeActivationCodeManyRequests, remaining)
	}

	return nil
}

// ChangeActivationCode issues a fresh activation code for an
// unverified account, rate limited against the previous issue time.
func (s *accountService) ChangeActivationCode(ctx context.Context, id string) error {
	if err := s.canChangeActivationCode(ctx, id); err != nil {
		return err
	}

	if err := s.accountRepo.ChangeActivationCode(ctx, id, domain.RandomCode(domain.ActivationCodeLength)); err != nil {
		return fmt.Errorf("failed to change activation code: %w", err)
	}

	if s.notifier != nil {
		account, err := s.getByID(ctx, id)
		if err != nil {
			return err
		}

		code := *account.Details.ActivationCode
		if err := s.notifier.SendVerificationEmail(ctx, account.Nickname, account.Email, code); err != nil {
			return fmt.Errorf("failed to send verification email: %w", err)
		}
	}

	return nil
}

func (s *accountService) canActivate(ctx context.Context, id, code string) error {
	account, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	if account.Status != domain.StatusUnverified {
		return domain.NewValidationErrorWithValue(domain.CodeCantActivateAccount, string(account.Status))
	}

	details := account.Details
	if details.CountFailedActivationAttempts >= maxFailedActivationAttempts {
		return domain.NewValidationError(domain.CodeActivationManyInvalidAttempts)
	}

	if minutesSince(*details.ActivationCodeDate) >= activationCodeExpiryMinutes {
		return domain.NewValidationError(domain.CodeActivationCodeExpired)
	}

	if details.ActivationCode == nil || *details.ActivationCode != code {
		if err := s.accountRepo.IncreaseFailedActivation(ctx, id); err != nil {
			return fmt.Errorf("failed to record activation attempt: %w", err)
		}
		return domain.NewValidationError(domain.CodeActivationCodeInvalid)
	}

	return nil
}

// Activate transitions an unverified account to VERIFIED when the
// submitted code matches, is not expired and the account is not locked
// out by failed attempts. A mismatch counts one failed attempt.
func (s *accountService) Activate(ctx context.Context, id, code string) error {
	if err := s.canActivate(ctx, id, code); err != nil {
		return err
	}

	if err := s.accountRepo.Activate(ctx, id); err != nil {
		return fmt.Errorf("failed to activate account: %w", err)
	}

	return nil
}

func (s *accountService) canUpdatePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	account, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	if account.Status == domain.StatusDisabled {
		return domain.NewValidationError(domain.CodeAccountDisabled)
	}

	if !domain.VerifyPassword(currentPassword, account.PasswordHash) {
		return domain.NewValidationError(domain.CodePasswordDoesntMatch)
	}

	if domain.VerifyPassword(newPassword, account.PasswordHash) {
		return domain.NewValidationError(domain.CodeSamePassword)
	}

	return domain.ValidatePasswordStrength(newPassword)
}

// UpdatePassword replaces the password of an authenticated account
// after verifying the current one.
func (s *accountService) UpdatePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	if err := s.canUpdatePassword(ctx, id, currentPassword, newPassword); err != nil {
		return err
	}

	hash, err := domain.EncryptPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.accountRepo.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func canRequestRecoverPassword(account *domain.Account) error {
	if account.Status == domain.StatusDisabled {
		return domain.NewValidationError(domain.CodeAccountDisabled)
	}

	details := account.Details
	if details != nil && details.RecoverCodeDate != nil {
		elapsed := minutesSince(*details.RecoverCodeDate)
		if elapsed <= recoverCodeRequestDelayMinutes {
			remaining := recoverCodeRequestDelayMinutes - elapsed
			if remaining == 0 {
				remaining = 1
			}
			return domain.NewValidationErrorWithValue(domain.CodeRecoverManyRequests, remaining)
		}
	}

	return nil
}

// RequestRecoverPassword issues a recovery code for the account with
// the given email, rate limited against the previous request.
func (s *accountService) RequestRecoverPassword(ctx context.Context, email string) error {
	account, err := s.getByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := canRequestRecoverPassword(account); err != nil {
		return err
	}

	code := domain.RandomCode(domain.ActivationCodeLength)
	if err := s.accountRepo.RequestRecoverPassword(ctx, account.ID, code); err != nil {
		return fmt.Errorf("failed to request password recovery: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.SendRecoverPasswordEmail(ctx, account.Email, code); err != nil {
			return fmt.Errorf("failed to send recovery email: %w", err)
		}
	}

	return nil
}

func (s *accountService) canRecoverPassword(ctx context.Context, account *domain.Account, code, newPassword string) error {
	if account.Status == domain.StatusDisabled {
		return domain.NewValidationError(domain.CodeAccountDisabled)
	}

	details := account.Details
	if details.RecoverCode == nil || details.RecoverCodeDate == nil {
		return domain.NewValidationError(domain.CodeRecoverNotRequested)
	}

	if details.CountFailedRecoveryAttempts > maxFailedRecoveryAttempts {
		return domain.NewValidationError(domain.CodeRecoverManyFailedAttempts)
	}

	if minutesSince(*details.RecoverCodeDate) >= recoverCodeExpiryMinutes {
		return domain.NewValidationError(domain.CodeRecoverCodeExpired)
	}

	if *details.RecoverCode != code {
		if err := s.accountRepo.IncreaseFailedRecoverPassword(ctx, account.ID); err != nil {
			return fmt.Errorf("failed to record recovery attempt: %w", err)
		}
		return domain.NewValidationError(domain.CodeRecoverCodeInvalid)
	}

	if domain.VerifyPassword(newPassword, account.PasswordHash) {
		return domain.NewValidationError(domain.CodeSamePassword)
	}

	return domain.ValidatePasswordStrength(newPassword)
}

// RecoverPassword consumes a recovery code and sets a new password,
// clearing the recovery state.
func (s *accountService) RecoverPassword(ctx context.Context, email, code, newPassword string) error {
	account, err := s.getByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := s.canRecoverPassword(ctx, account, code, newPassword); err != nil {
		return err
	}

	hash, err := domain.EncryptPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.accountRepo.RecoverPassword(ctx, account.ID, hash); err != nil {
		return fmt.Errorf("failed to recover password: %w", err)
	}

	return nil
}

func (s *accountService) canSignIn(ctx context.Context, account *domain.Account, password string) error {
	if account.Status == domain.StatusDisabled {
		return domain.NewValidationError(domain.CodeAccountDisabled)
	}

	details := account.Details
	if details != nil && details.LastFailedSignInAttemptDate != nil && details.CountFailedSignInAttempts > signInBackoffThreshold {
		elapsed := minutesSince(*details.LastFailedSignInAttemptDate)
		delay := float64(details.CountFailedSignInAttempts) * signInDelayMinutesPerCount
		if float64(elapsed) <= delay {
			remaining := delay - float64(elapsed)
			if remaining == 0 {
				remaining = 1
			}
			return domain.NewValidationErrorWithValue(domain.CodeSignInManyFailedAttempts, remaining)
		}
	}

	if !domain.VerifyPassword(password, account.PasswordHash) {
		if err := s.accountRepo.IncreaseFailedSignIn(ctx, account.ID); err != nil {
			return fmt.Errorf("failed to record sign-in attempt: %w", err)
		}
		return domain.NewValidationError(domain.CodePasswordInvalid)
	}

	return nil
}

// SignIn authenticates by nickname or email, applying the
// failed-attempt backoff, and issues a signed session token together
// with the sanitized account view.
func (s *accountService) SignIn(ctx context.Context, login, password string, isNickname bool) (*SignInResult, error) {
	var account *domain.Account
	var err error
	if isNickname {
		account, err = s.accountRepo.GetByNickname(ctx, login)
	} else {
		account, err = s.accountRepo.GetByEmail(ctx, login)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewValidationError(domain.CodeAccountNotFound)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if err := s.canSignIn(ctx, account, password); err != nil {
		return nil, err
	}

	token, err := s.jwtManager.GenerateSessionToken(account)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.SaveLastSignIn(ctx, account.ID); err != nil {
		return nil, fmt.Errorf("failed to save last sign-in: %w", err)
	}

	return &SignInResult{
		Token:     token,
		ExpiresIn: s.jwtManager.GetSessionExpiry(),
		Account:   account.Sanitized(),
	}, nil
}

func (s *accountService) getByID(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewValidationError(domain.CodeAccountNotFound)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (s *accountService) getByEmail(ctx context.Context, email string) (*domain.Account, error) {
	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewValidationError(domain.CodeAccountNotFound)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}
