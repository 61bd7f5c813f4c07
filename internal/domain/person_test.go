package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func birthDateYearsAgo(years int) time.Time {
	return time.Now().AddDate(-years, 0, -1)
}

func TestNewPerson_Valid(t *testing.T) {
	person, err := NewPerson(PersonInput{
		Name:      "Alice Smith",
		BirthDate: birthDateYearsAgo(30),
	})
	if err != nil {
		t.Fatalf("NewPerson failed: %v", err)
	}

	if _, err := uuid.Parse(person.ID); err != nil {
		t.Errorf("Expected generated uuid id, got %q", person.ID)
	}
	if person.Name != "Alice Smith" {
		t.Errorf("Expected name to be kept, got %q", person.Name)
	}
}

func TestNewPerson_KeepsProvidedID(t *testing.T) {
	id := uuid.New().String()
	person, err := NewPerson(PersonInput{
		ID:        id,
		Name:      "Alice",
		BirthDate: birthDateYearsAgo(30),
	})
	if err != nil {
		t.Fatalf("NewPerson failed: %v", err)
	}

	if person.ID != id {
		t.Errorf("Expected id %q, got %q", id, person.ID)
	}
}

func TestNewPerson_NameRules(t *testing.T) {
	tests := []struct {
		name       string
		personName string
		code       string
	}{
		{"required", "", CodeNameRequired},
		{"too short", "Al", CodeNameMinLength},
		{"too long", "A" + strings.Repeat("a", 30), CodeNameMaxLength},
		{"lowercase start", "alice", CodeNameInvalid},
		{"digits", "Alice99", CodeNameInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPerson(PersonInput{Name: tt.personName, BirthDate: birthDateYearsAgo(30)})
			if !IsValidationCode(err, tt.code) {
				t.Errorf("Expected %s, got %v", tt.code, err)
			}
		})
	}

	for _, name := range []string{"Alice", "Mary Jane", "Jean-Luc", "Connor O'Brien"} {
		if _, err := NewPerson(PersonInput{Name: name, BirthDate: birthDateYearsAgo(30)}); err != nil {
			t.Errorf("Expected name %q to be valid, got %v", name, err)
		}
	}
}

func TestNewPerson_BirthDateRules(t *testing.T) {
	if _, err := NewPerson(PersonInput{Name: "Alice"}); !IsValidationCode(err, CodeBirthDateRequired) {
		t.Errorf("Expected %s, got %v", CodeBirthDateRequired, err)
	}

	_, err := NewPerson(PersonInput{Name: "Alice", BirthDate: birthDateYearsAgo(12)})
	if !IsValidationCode(err, CodeBirthDateMinDate) {
		t.Errorf("Expected %s for 12 year old, got %v", CodeBirthDateMinDate, err)
	}

	_, err = NewPerson(PersonInput{Name: "Alice", BirthDate: birthDateYearsAgo(117)})
	if !IsValidationCode(err, CodeBirthDateInvalid) {
		t.Errorf("Expected %s for 117 year old, got %v", CodeBirthDateInvalid, err)
	}

	for _, years := range []int{13, 40, 116} {
		if _, err := NewPerson(PersonInput{Name: "Alice", BirthDate: birthDateYearsAgo(years)}); err != nil {
			t.Errorf("Expected age %d to be valid, got %v", years, err)
		}
	}
}

func TestNewRevokedToken(t *testing.T) {
	if _, err := NewRevokedToken("", time.Now()); !IsValidationCode(err, CodeTokenIDRequired) {
		t.Errorf("Expected %s, got %v", CodeTokenIDRequired, err)
	}

	if _, err := NewRevokedToken("token-id", time.Time{}); !IsValidationCode(err, CodeTokenRevocationDateRequired) {
		t.Errorf("Expected %s, got %v", CodeTokenRevocationDateRequired, err)
	}

	token, err := NewRevokedToken("token-id", time.Now())
	if err != nil {
		t.Fatalf("NewRevokedToken failed: %v", err)
	}
	if token.ID != "token-id" {
		t.Errorf("Expected id to be kept, got %q", token.ID)
	}
}
