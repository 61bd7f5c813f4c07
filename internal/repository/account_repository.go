package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/mvalerio/account-service/internal/domain"
	"github.com/mvalerio/account-service/pkg/database"
)

// accountRepository implements AccountRepository on PostgreSQL.
type accountRepository struct {
	db *database.Postgres
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.Postgres) AccountRepository {
	return &accountRepository{db: db}
}

const accountSelectColumns = `
	a.id, a.nickname, a.email, a.password_hash, a.status, a.role, a.person_id, a.created_at, a.updated_at,
	d.activation_code, d.activation_code_date, d.activation_date, d.count_failed_activation_attempts,
	d.recover_code, d.recover_code_date, d.count_failed_recovery_attempts,
	d.count_failed_sign_in_attempts, d.last_failed_sign_in_attempt_date, d.last_sign_in, d.email_updated_at,
	p.id, p.name, p.birth_date, p.created_at, p.updated_at
`

const accountSelectFrom = `
	FROM accounts a
	JOIN account_details d ON d.account_id = a.id
	JOIN persons p ON p.id = a.person_id
`

// Create persists the account together with its details record in a
// single transaction and returns the sanitized created account.
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	if account.UpdatedAt.IsZero() {
		account.UpdatedAt = now
	}

	accountQuery := `
		INSERT INTO accounts (id, nickname, email, password_hash, status, role, person_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = tx.ExecContext(ctx, accountQuery,
		account.ID,
		account.Nickname,
		account.Email,
		account.PasswordHash,
		account.Status,
		account.Role,
		account.PersonID,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			if strings.Contains(pqErr.Constraint, "nickname") {
				return nil, fmt.Errorf("account with nickname %s already exists: %w", account.Nickname, ErrDuplicateNickname)
			}
			return nil, fmt.Errorf("account with email %s already exists: %w", account.Email, ErrDuplicateEmail)
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	details := account.Details
	detailsQuery := `
		INSERT INTO account_details (account_id, activation_code, activation_code_date)
		VALUES ($1, $2, $3)
	`

	_, err = tx.ExecContext(ctx, detailsQuery,
		account.ID,
		details.ActivationCode,
		details.ActivationCodeDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create account details: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return account.Sanitized(), nil
}

// GetByID retrieves an account by id, populating person and details.
func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountSelectColumns + accountSelectFrom + ` WHERE a.id = $1`

	account, err := r.scanAccount(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account by id: %w", err)
	}

	return account, nil
}

// GetByEmail retrieves an account by email, populating person and details.
func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountSelectColumns + accountSelectFrom + ` WHERE a.email = $1`

	account, err := r.scanAccount(r.db.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account with email %s not found: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}

	return account, nil
}

// GetByNickname retrieves an account by nickname (case-insensitive),
// populating person and details.
func (r *accountRepository) GetByNickname(ctx context.Context, nickname string) (*domain.Account, error) {
	query := `SELECT ` + accountSelectColumns + accountSelectFrom + ` WHERE LOWER(a.nickname) = LOWER($1)`

	account, err := r.scanAccount(r.db.DB.QueryRowContext(ctx, query, nickname))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account with nickname %s not found: %w", nickname, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account by nickname: %w", err)
	}

	return account, nil
}

// ExistsByEmail checks whether an account with the email exists.
func (r *accountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`, email)
}

// ExistsByNickname checks whether an account with the nickname exists,
// comparing case-insensitively.
func (r *accountRepository) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE LOWER(nickname) = LOWER($1))`, nickname)
}

// ExistsByID checks whether an account with the id exists.
func (r *accountRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, id)
}

func (r *accountRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var exists bool
	if err := r.db.DB.QueryRowContext(ctx, query, arg).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return exists, nil
}

// ChangeActivationCode stores a fresh activation code with a fresh
// timestamp and resets the failed-activation counter.
func (r *accountRepository) ChangeActivationCode(ctx context.Context, id, code string) error {
	query := `
		UPDATE account_details
		SET activation_code = $2, activation_code_date = $3, count_failed_activation_attempts = 0
		WHERE account_id = $1
	`

	return r.execOnDetails(ctx, query, id, code, time.Now())
}

// Activate transitions the account to VERIFIED, stamps the activation
// date and clears the activation code fields.
func (r *accountRepository) Activate(ctx context.Context, id string) error {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE accounts SET status = $2, updated_at = $3 WHERE id = $1`,
		id, domain.StatusVerified, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to activate account: %w", err)
	}
	if err := requireRowsAffected(result, id); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE account_details
		SET activation_date = $2, activation_code = NULL, activation_code_date = NULL, count_failed_activation_attempts = 0
		WHERE account_id = $1
	`, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to clear activation fields: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// IncreaseFailedActivation atomically increments the failed-activation
// counter.
func (r *accountRepository) IncreaseFailedActivation(ctx context.Context, id string) error {
	query := `
		UPDATE account_details
		SET count_failed_activation_attempts = count_failed_activation_attempts + 1
		WHERE account_id = $1
	`

	return r.execOnDetails(ctx, query, id)
}

// UpdatePassword stores a new password hash.
func (r *accountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := r.db.DB.ExecContext(ctx,
		`UPDATE accounts SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		id, passwordHash, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return requireRowsAffected(result, id)
}

// RequestRecoverPassword stores a fresh recovery code with a timestamp
// and resets the failed-recovery counter.
func (r *accountRepository) RequestRecoverPassword(ctx context.Context, id, code string) error {
	query := `
		UPDATE account_details
		SET recover_code = $2, recover_code_date = $3, count_failed_recovery_attempts = 0
		WHERE account_id = $1
	`

	return r.execOnDetails(ctx, query, id, code, time.Now())
}

// IncreaseFailedRecoverPassword atomically increments the
// failed-recovery counter.
func (r *accountRepository) IncreaseFailedRecoverPassword(ctx context.Context, id string) error {
	query := `
		UPDATE account_details
		SET count_failed_recovery_attempts = count_failed_recovery_attempts + 1
		WHERE account_id = $1
	`

	return r.execOnDetails(ctx, query, id)
}

// RecoverPassword stores the new password hash and clears the recovery
// fields in a single transaction.
func (r *accountRepository) RecoverPassword(ctx context.Context, id, passwordHash string) error {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE accounts SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		id, passwordHash, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := requireRowsAffected(result, id); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE account_details
		SET recover_code = NULL, recover_code_date = NULL, count_failed_recovery_attempts = 0
		WHERE account_id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to clear recovery fields: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// IncreaseFailedSignIn atomically increments the failed-sign-in counter
// and stamps the failure date.
func (r *accountRepository) IncreaseFailedSignIn(ctx context.Context, id string) error {
	query := `
		UPDATE account_details
		SET count_failed_sign_in_attempts = count_failed_sign_in_attempts + 1, last_failed_sign_in_attempt_date = $2
		WHERE account_id = $1
	`

	return r.execOnDetails(ctx, query, id, time.Now())
}

// SaveLastSignIn stamps the last sign-in and clears the failed-sign-in
// counter and failure date.
func (r *accountRepository) SaveLastSignIn(ctx context.Context, id string) error {
	query := `
		UPDATE account_details
		SET last_sign_in = $2, count_failed_sign_in_attempts = 0, last_failed_sign_in_attempt_date = NULL
		WHERE account_id = $1
	`

	return r.execOnDetails(ctx, query, id, time.Now())
}

func (r *accountRepository) execOnDetails(ctx context.Context, query, id string, args ...any) error {
	result, err := r.db.DB.ExecContext(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("failed to update account details: %w", err)
	}

	return requireRowsAffected(result, id)
}

func requireRowsAffected(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("account with id %s not found: %w", id, ErrNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *accountRepository) scanAccount(row rowScanner) (*domain.Account, error) {
	account := &domain.Account{
		Details: &domain.AccountDetails{},
		Person:  &domain.Person{},
	}
	details := account.Details
	person := account.Person

	var (
		activationCode  sql.NullString
		activationDate  sql.NullTime
		activationStamp sql.NullTime
		recoverCode     sql.NullString
		recoverDate     sql.NullTime
		lastFailedDate  sql.NullTime
		lastSignIn      sql.NullTime
		emailUpdatedAt  sql.NullTime
	)

	err := row.Scan(
		&account.ID,
		&account.Nickname,
		&account.Email,
		&account.PasswordHash,
		&account.Status,
		&account.Role,
		&account.PersonID,
		&account.CreatedAt,
		&account.UpdatedAt,
		&activationCode,
		&activationStamp,
		&activationDate,
		&details.CountFailedActivationAttempts,
		&recoverCode,
		&recoverDate,
		&details.CountFailedRecoveryAttempts,
		&details.CountFailedSignInAttempts,
		&lastFailedDate,
		&lastSignIn,
		&emailUpdatedAt,
		&person.ID,
		&person.Name,
		&person.BirthDate,
		&person.CreatedAt,
		&person.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	details.AccountID = account.ID
	if activationCode.Valid {
		details.ActivationCode = &activationCode.String
	}
	if activationStamp.Valid {
		details.ActivationCodeDate = &activationStamp.Time
	}
	if activationDate.Valid {
		details.ActivationDate = &activationDate.Time
	}
	if recoverCode.Valid {
		details.RecoverCode = &recoverCode.String
	}
	if recoverDate.Valid {
		details.RecoverCodeDate = &recoverDate.Time
	}
	if lastFailedDate.Valid {
		details.LastFailedSignInAttemptDate = &lastFailedDate.Time
	}
	if lastSignIn.Valid {
		details.LastSignIn = &lastSignIn.Time
	}
	if emailUpdatedAt.Valid {
		details.EmailUpdatedAt = &emailUpdatedAt.Time
	}

	return account, nil
}
