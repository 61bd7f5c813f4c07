package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when an account with the email already exists
	ErrDuplicateEmail = errors.New("account with this email already exists")

	// ErrDuplicateNickname is returned when an account with the nickname already exists
	ErrDuplicateNickname = errors.New("account with this nickname already exists")
)
