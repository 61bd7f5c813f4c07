package dto

// CreateAccountRequest registers a person together with their account.
type CreateAccountRequest struct {
	Nickname  string `json:"nickname" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Name      string `json:"name" binding:"required"`
	BirthDate string `json:"birthDate" binding:"required"`
}

// ActivateRequest carries the activation code; the account id comes
// from the session token.
type ActivateRequest struct {
	Code string `json:"code" binding:"required"`
}

// UpdatePasswordRequest changes the password of the authenticated account.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// RequestRecoverPasswordRequest asks for a recovery code by email.
type RequestRecoverPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RecoverPasswordRequest consumes a recovery code and sets a new password.
type RecoverPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Code     string `json:"code" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignInRequest authenticates by nickname or email.
type SignInRequest struct {
	Login      string `json:"login" binding:"required"`
	Password   string `json:"password" binding:"required"`
	IsNickname bool   `json:"isNickname"`
}

// UpdatePersonRequest rewrites the profile of the authenticated
// account's person.
type UpdatePersonRequest struct {
	Name      string `json:"name" binding:"required"`
	BirthDate string `json:"birthDate" binding:"required"`
}

// SignInResponse carries the session token and the sanitized account.
type SignInResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int         `json:"expires_in"`
	Account     interface{} `json:"account"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse carries the stable error code plus an optional message
// parameter (minutes remaining, length limits).
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}
