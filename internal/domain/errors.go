package domain

import (
	"errors"
	"fmt"
)

// Stable business-rule failure codes. The transport layer maps these to
// protocol responses; the optional Value parameter is message data only
// and never alters control flow.
const (
	CodeAccountNotFound      = "ACCOUNT_NOT_FOUND"
	CodeAccountDisabled      = "ACCOUNT_DISABLED"
	CodeAccountIDInvalid     = "ACCOUNT_ID_INVALID"
	CodeIDInvalid            = "ID_INVALID"
	CodeEmailRequired        = "EMAIL_REQUIRED"
	CodeEmailAlreadyExists   = "EMAIL_ALREADY_EXISTS"
	CodeNicknameRequired     = "NICKNAME_REQUIRED"
	CodeNicknameMinLength    = "NICKNAME_MIN_LENGTH"
	CodeNicknameMaxLength    = "NICKNAME_MAX_LENGTH"
	CodeNicknameInvalid      = "NICKNAME_INVALID"
	CodeNicknameAlreadyTaken = "NICKNAME_ALREADY_EXISTS"
	CodePersonIDRequired     = "PERSON_ID_REQUIRED"

	CodePasswordRequired           = "PASSWORD_REQUIRED"
	CodePasswordLowercaseUppercase = "PASSWORD_LOWERCASE_UPPERCASE"
	CodePasswordNumber             = "PASSWORD_NUMBER"
	CodePasswordSpecialCharacter   = "PASSWORD_SPECIAL_CHARACTER"
	CodePasswordMinLength          = "PASSWORD_MIN_LENGTH"
	CodePasswordMaxLength          = "PASSWORD_MAX_LENGTH"
	CodePasswordDoesntMatch        = "PASSWORD_DOESNT_MATCH"
	CodePasswordInvalid            = "PASSWORD_INVALID"
	CodeSamePassword               = "CURRENT_PASSWORD_SAME_NEW_PASSWORD"

	CodeCantChangeActivationCode       = "CANT_CHANGE_ACTIVATION_CODE"
	CodeActivationCodeManyRequests     = "ACTIVATION_CODE_MANY_REQUESTS"
	CodeCantActivateAccount            = "CANT_ACTIVATE_ACCOUNT"
	CodeActivationManyInvalidAttempts  = "ACTIVATION_CODE_MANY_INVALID_ATTEMPTS"
	CodeActivationCodeExpired          = "ACTIVATION_CODE_EXPIRED"
	CodeActivationCodeInvalid          = "ACTIVATION_CODE_INVALID"
	CodeRecoverManyRequests            = "ACCOUNT_RECOVER_MANY_REQUESTS"
	CodeRecoverNotRequested            = "ACCOUNT_NOT_REQUESTED_RECOVER"
	CodeRecoverManyFailedAttempts      = "ACCOUNT_MANY_FAILED_RECOVERY_ATTEMPTS"
	CodeRecoverCodeExpired             = "ACCOUNT_RECOVER_CODE_EXPIRED"
	CodeRecoverCodeInvalid             = "ACCOUNT_RECOVER_CODE_INVALID"
	CodeSignInManyFailedAttempts       = "SIGN_IN_MANY_FAILED_ATTEMPTS"

	CodePersonNotFound       = "PERSON_NOT_FOUND"
	CodeAccountIsNotVerified = "ACCOUNT_IS_NOT_VERIFIED"
	CodeNameRequired         = "NAME_REQUIRED"
	CodeNameMinLength        = "NAME_MIN_LENGTH"
	CodeNameMaxLength        = "NAME_MAX_LENGTH"
	CodeNameInvalid          = "NAME_INVALID"
	CodeBirthDateRequired    = "BIRTH_DATE_REQUIRED"
	CodeBirthDateInvalid     = "BIRTH_DATE_INVALID"
	CodeBirthDateMinDate     = "BIRTH_DATE_MIN_DATE"

	CodeTokenIDRequired             = "TOKEN_ID_REQUIRED"
	CodeTokenRevocationDateRequired = "TOKEN_REVOCATION_DATE_REQUIRED"

	CodeInternalErrorInvalidEnv = "INTERNAL_ERROR_INVALID_ENV"
)

// ValidationError is the single business-rule failure type. Every
// domain check reports one of the Code* constants; Value carries an
// optional numeric parameter (minutes remaining, length limits) for
// message interpolation.
type ValidationError struct {
	Code  string
	Value any
}

// NewValidationError creates a validation error with the given code.
func NewValidationError(code string) *ValidationError {
	return &ValidationError{Code: code}
}

// NewValidationErrorWithValue creates a validation error carrying a
// message parameter.
func NewValidationErrorWithValue(code string, value any) *ValidationError {
	return &ValidationError{Code: code, Value: value}
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s (value=%v)", e.Code, e.Value)
	}
	return e.Code
}

// IsValidationCode reports whether err is a ValidationError with the
// given code.
func IsValidationCode(err error, code string) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr) && vErr.Code == code
}
