package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mvalerio/account-service/internal/domain"
	"github.com/mvalerio/account-service/internal/repository"
)

// personService implements PersonService. Updates are gated on the
// owning account being verified.
type personService struct {
	personRepo repository.PersonRepository
}

// NewPersonService creates a new person service.
func NewPersonService(personRepo repository.PersonRepository) PersonService {
	return &personService{personRepo: personRepo}
}

// Create builds and persists a new person profile.
func (s *personService) Create(ctx context.Context, input domain.PersonInput) (*domain.Person, error) {
	person, err := domain.NewPerson(input)
	if err != nil {
		return nil, err
	}

	created, err := s.personRepo.Create(ctx, person)
	if err != nil {
		return nil, fmt.Errorf("failed to create person: %w", err)
	}

	return created, nil
}

func (s *personService) canUpdate(ctx context.Context, personID string) error {
	exists, err := s.personRepo.ExistsByID(ctx, personID)
	if err != nil {
		return fmt.Errorf("failed to check person existence: %w", err)
	}
	if !exists {
		return domain.NewValidationError(domain.CodePersonNotFound)
	}

	account, err := s.personRepo.GetAccount(ctx, personID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewValidationError(domain.CodeAccountNotFound)
		}
		return fmt.Errorf("failed to get account for person: %w", err)
	}

	if account.Status != domain.StatusVerified {
		return domain.NewValidationError(domain.CodeAccountIsNotVerified)
	}

	return nil
}

// Update rewrites an existing person profile. The owning account must
// be verified.
func (s *personService) Update(ctx context.Context, input domain.PersonInput) (*domain.Person, error) {
	person, err := domain.NewPerson(input)
	if err != nil {
		return nil, err
	}

	if err := s.canUpdate(ctx, person.ID); err != nil {
		return nil, err
	}

	updated, err := s.personRepo.Update(ctx, person)
	if err != nil {
		return nil, fmt.Errorf("failed to update person: %w", err)
	}

	return updated, nil
}
