package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

const (
	nameMinLength = 3
	nameMaxLength = 30

	minAgeYears = 13
	maxAgeYears = 116
)

// Capitalized words, optionally joined by spaces, apostrophes or
// hyphens ("Mary Jane", "O'Brien", "Jean-Luc", "da Silva").
var personNameRegex = regexp.MustCompile(`^([A-Z][a-z]+( ?[a-z]?['-]?[A-Z][a-z]+)*)$`)

// Person is a profile entity referenced by an Account. It owns its own
// identity and lifecycle; the only coupling back to Account is the
// verified-account gating rule applied on update.
type Person struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	BirthDate time.Time `json:"birth_date" db:"birth_date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PersonInput holds raw candidate fields for building a Person.
type PersonInput struct {
	ID        string
	Name      string
	BirthDate time.Time
}

// NewPerson builds a structurally valid Person from raw input or fails
// with a ValidationError. Update and creation run the same rules.
func NewPerson(input PersonInput) (*Person, error) {
	if input.ID != "" && !isUUIDv4(input.ID) {
		return nil, NewValidationError(CodeIDInvalid)
	}

	if input.Name == "" {
		return nil, NewValidationError(CodeNameRequired)
	}
	if len(input.Name) < nameMinLength {
		return nil, NewValidationErrorWithValue(CodeNameMinLength, nameMinLength)
	}
	if len(input.Name) > nameMaxLength {
		return nil, NewValidationErrorWithValue(CodeNameMaxLength, nameMaxLength)
	}
	if !personNameRegex.MatchString(input.Name) {
		return nil, NewValidationError(CodeNameInvalid)
	}

	if input.BirthDate.IsZero() {
		return nil, NewValidationError(CodeBirthDateRequired)
	}

	age := yearsSince(input.BirthDate)
	if age < minAgeYears {
		return nil, NewValidationErrorWithValue(CodeBirthDateMinDate, minAgeYears)
	}
	if age > maxAgeYears {
		return nil, NewValidationError(CodeBirthDateInvalid)
	}

	id := input.ID
	if id == "" {
		id = uuid.New().String()
	}

	return &Person{
		ID:        id,
		Name:      input.Name,
		BirthDate: input.BirthDate,
	}, nil
}

// yearsSince returns whole years elapsed since t, counting a year only
// once its anniversary has passed.
func yearsSince(t time.Time) int {
	now := time.Now()
	years := now.Year() - t.Year()

	anniversary := t.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}

	return years
}
