package domain

import "time"

// Status is the account lifecycle state. Accounts start UNVERIFIED,
// become VERIFIED through activation, and DISABLED is set externally.
type Status string

const (
	StatusUnverified Status = "unverified"
	StatusVerified   Status = "verified"
	StatusDisabled   Status = "disabled"
)

// Role is the account role; this service always creates DEFAULT.
type Role string

const (
	RoleDefault Role = "default"
	RoleAdmin   Role = "admin"
)

// Account is the aggregate root for a user account.
type Account struct {
	ID           string    `json:"id" db:"id"`
	Nickname     string    `json:"nickname" db:"nickname"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Status       Status    `json:"status" db:"status"`
	Role         Role      `json:"role" db:"role"`
	PersonID     string    `json:"person_id" db:"person_id"`
	Person       *Person   `json:"person,omitempty"`
	Details      *AccountDetails `json:"-"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Sanitized returns a copy safe to hand to callers: the password hash
// and the security sub-record are stripped.
func (a *Account) Sanitized() *Account {
	view := *a
	view.PasswordHash = ""
	view.Details = nil
	return &view
}

// AccountDetails is the security/audit sub-record paired one-to-one
// with an Account. It is created together with the account and updated
// independently by the lifecycle engine.
type AccountDetails struct {
	AccountID                     string     `db:"account_id"`
	ActivationCode                *string    `db:"activation_code"`
	ActivationCodeDate            *time.Time `db:"activation_code_date"`
	ActivationDate                *time.Time `db:"activation_date"`
	CountFailedActivationAttempts int        `db:"count_failed_activation_attempts"`
	RecoverCode                   *string    `db:"recover_code"`
	RecoverCodeDate               *time.Time `db:"recover_code_date"`
	CountFailedRecoveryAttempts   int        `db:"count_failed_recovery_attempts"`
	CountFailedSignInAttempts     int        `db:"count_failed_sign_in_attempts"`
	LastFailedSignInAttemptDate   *time.Time `db:"last_failed_sign_in_attempt_date"`
	LastSignIn                    *time.Time `db:"last_sign_in"`
	EmailUpdatedAt                *time.Time `db:"email_updated_at"`
}
