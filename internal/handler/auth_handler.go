package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mvalerio/account-service/internal/domain"
	"github.com/mvalerio/account-service/internal/dto"
	"github.com/mvalerio/account-service/internal/service"
)

// AuthHandler handles session requests
type AuthHandler struct {
	accountService   service.AccountService
	blacklistService service.TokenBlacklistService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accountService service.AccountService, blacklistService service.TokenBlacklistService) *AuthHandler {
	return &AuthHandler{
		accountService:   accountService,
		blacklistService: blacklistService,
	}
}

// SignIn authenticates by nickname or email
// @Summary Sign in
// @Description Authenticate and receive a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignInRequest true "Sign-in request"
// @Success 200 {object} dto.SignInResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /auth/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "VALIDATION_FAILED",
			Message: err.Error(),
		})
		return
	}

	result, err := h.accountService.SignIn(c.Request.Context(), req.Login, req.Password, req.IsNickname)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SignInResponse{
		AccessToken: result.Token,
		TokenType:   "Bearer",
		ExpiresIn:   result.ExpiresIn,
		Account:     result.Account,
	})
}

// SignOut revokes the presented session token
// @Summary Sign out
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/sign-out [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	// sign-out succeeds even without token data; there is nothing to revoke
	if value, exists := c.Get("claims"); exists {
		claims := value.(*domain.SessionClaims)
		if err := h.blacklistService.SignOut(c.Request.Context(), claims.TokenID, claims.CreatedAt); err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Signed out"})
}
