package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mvalerio/account-service/internal/domain"
	"github.com/mvalerio/account-service/internal/dto"
	"github.com/mvalerio/account-service/internal/service"
)

// AccountHandler handles account lifecycle requests
type AccountHandler struct {
	accountService service.AccountService
	personService  service.PersonService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService service.AccountService, personService service.PersonService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		personService:  personService,
	}
}

// parseBirthDate accepts a plain date or a full timestamp.
func parseBirthDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, domain.NewValidationError(domain.CodeBirthDateInvalid)
	}
	return t, nil
}

// Create registers a person together with their account
// @Summary Create account
// @Description Register a new person and account; an activation code is issued
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body dto.CreateAccountRequest true "Create account request"
// @Success 201 {object} domain.Account
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "VALIDATION_FAILED",
			Message: err.Error(),
		})
		return
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		respondError(c, err)
		return
	}

	person, err := h.personService.Create(c.Request.Context(), domain.PersonInput{
		Name:      req.Name,
		BirthDate: birthDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	account, err := h.accountService.Create(c.Request.Context(), domain.AccountInput{
		Nickname: req.Nickname,
		Email:    req.Email,
		Password: req.Password,
		PersonID: person.ID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	account.Person = person
	c.JSON(http.StatusCreated, account)
}

// Activate verifies the authenticated account with a one-time code
// @Summary Activate account
// @Tags accounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ActivateRequest true "Activation code"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /accounts/activate [post]
func (h *AccountHandler) Activate(c *gin.Context) {
	var req dto.ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "VALIDATION_FAILED",
			Message: err.Error(),
		})
		return
	}

	if err := h.accountService.Activate(c.Request.Context(), c.GetString("account_id"), req.Code); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Account activated"})
}

// ChangeActivationCode issues a fresh activation code
// @Summary Request a new activation code
// @Tags accounts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /accounts/activation-code [post]
func (h *AccountHandler) ChangeActivationCode(c *gin.Context) {
	if err := h.accountService.ChangeActivationCode(c.Request.Context(), c.GetString("account_id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Activation code sent"})
}

// UpdatePassword changes the password of the authenticated account
// @Summary Update password
// @Tags accounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdatePasswordRequest true "Password change request"
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /accounts/password [put]
func (h *AccountHandler) UpdatePassword(c *gin.Context) {
	var req dto.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "VALIDATION_FAILED",
			Message: err.Error(),
		})
		return
	}

	if err := h.accountService.UpdatePassword(c.Request.Context(), c.GetString("account_id"), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Password updated"})
}

// RequestRecoverPassword issues a recovery code by email
// @Summary Request password recovery
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body dto.RequestRecoverPasswordRequest true "Recovery request"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /accounts/recover/request [post]
func (h *AccountHandler) RequestRecoverPassword(c *gin.Context) {
	var req dto.RequestRecoverPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "VALIDATION_FAILED",
			Message: err.Error(),
		})
		return
	}

	if err := h.accountService.RequestRecoverPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Recovery code sent"})
}

// RecoverPassword consumes a recovery code and sets a new password
// @Summary Recover password
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body dto.RecoverPasswordRequest true "Recovery"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /accounts/recover [post]
func (h *AccountHandler) RecoverPassword(c *gin.Context) {
	var req dto.RecoverPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "VALIDATION_FAILED",
			Message: err.Error(),
		})
		return
	}

	if err := h.accountService.RecoverPassword(c.Request.Context(), req.Email, req.Code, req.Password); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Password recovered"})
}
