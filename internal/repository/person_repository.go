package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mvalerio/account-service/internal/domain"
	"github.com/mvalerio/account-service/pkg/database"
)

// personRepository implements PersonRepository on PostgreSQL.
type personRepository struct {
	db *database.Postgres
}

// NewPersonRepository creates a new person repository
func NewPersonRepository(db *database.Postgres) PersonRepository {
	return &personRepository{db: db}
}

// Create persists a new person.
func (r *personRepository) Create(ctx context.Context, person *domain.Person) (*domain.Person, error) {
	query := `
		INSERT INTO persons (id, name, birth_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	now := time.Now()
	if person.CreatedAt.IsZero() {
		person.CreatedAt = now
	}
	if person.UpdatedAt.IsZero() {
		person.UpdatedAt = now
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		person.ID,
		person.Name,
		person.BirthDate,
		person.CreatedAt,
		person.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create person: %w", err)
	}

	return person, nil
}

// Update updates an existing person.
func (r *personRepository) Update(ctx context.Context, person *domain.Person) (*domain.Person, error) {
	query := `
		UPDATE persons
		SET name = $2, birth_date = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query,
		person.ID,
		person.Name,
		person.BirthDate,
		time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update person: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return nil, fmt.Errorf("person with id %s not found: %w", person.ID, ErrNotFound)
	}

	return person, nil
}

// GetAccount retrieves the account referencing the given person, if any.
// Only the account columns are loaded; the gating rule needs the status.
func (r *personRepository) GetAccount(ctx context.Context, personID string) (*domain.Account, error) {
	query := `
		SELECT id, nickname, email, password_hash, status, role, person_id, created_at, updated_at
		FROM accounts
		WHERE person_id = $1
	`

	account := &domain.Account{}
	err := r.db.DB.QueryRowContext(ctx, query, personID).Scan(
		&account.ID,
		&account.Nickname,
		&account.Email,
		&account.PasswordHash,
		&account.Status,
		&account.Role,
		&account.PersonID,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account for person %s not found: %w", personID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account by person id: %w", err)
	}

	return account, nil
}

// ExistsByID checks whether a person with the id exists.
func (r *personRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM persons WHERE id = $1)`

	if err := r.db.DB.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check person existence: %w", err)
	}

	return exists, nil
}
