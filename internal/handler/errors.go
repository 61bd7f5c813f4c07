package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mvalerio/account-service/internal/domain"
	"github.com/mvalerio/account-service/internal/dto"
)

var codeStatus = map[string]int{
	domain.CodeAccountNotFound: http.StatusNotFound,
	domain.CodePersonNotFound:  http.StatusNotFound,

	domain.CodeEmailAlreadyExists:   http.StatusConflict,
	domain.CodeNicknameAlreadyTaken: http.StatusConflict,

	domain.CodeActivationCodeManyRequests:    http.StatusTooManyRequests,
	domain.CodeActivationManyInvalidAttempts: http.StatusTooManyRequests,
	domain.CodeRecoverManyRequests:           http.StatusTooManyRequests,
	domain.CodeRecoverManyFailedAttempts:     http.StatusTooManyRequests,
	domain.CodeSignInManyFailedAttempts:      http.StatusTooManyRequests,

	domain.CodePasswordInvalid:     http.StatusUnauthorized,
	domain.CodePasswordDoesntMatch: http.StatusUnauthorized,

	domain.CodeAccountDisabled:          http.StatusForbidden,
	domain.CodeCantActivateAccount:      http.StatusForbidden,
	domain.CodeCantChangeActivationCode: http.StatusForbidden,
	domain.CodeAccountIsNotVerified:     http.StatusForbidden,
}

// respondError maps a service error onto the wire: business-rule
// failures keep their stable code, everything else is a 500.
func respondError(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		status, found := codeStatus[vErr.Code]
		if !found {
			status = http.StatusBadRequest
		}
		c.JSON(status, dto.ErrorResponse{
			Error:   vErr.Code,
			Message: vErr.Error(),
			Value:   vErr.Value,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error:   "INTERNAL_ERROR",
		Message: "Internal server error",
	})
}
