package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mvalerio/account-service/internal/dto"
	"github.com/mvalerio/account-service/internal/service"
	"github.com/mvalerio/account-service/internal/utils"
)

// AuthMiddleware validates the session token and adds its claims to the
// request context. Tokens whose id was not derived for the claimed
// account, or that have been signed out, are rejected.
func AuthMiddleware(jwtManager *utils.JWTManager, blacklist service.TokenBlacklistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "UNAUTHORIZED",
				Message: "Authorization header is required",
			})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "UNAUTHORIZED",
				Message: "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateSessionToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "UNAUTHORIZED",
				Message: "Invalid or expired token",
			})
			c.Abort()
			return
		}

		if !jwtManager.TokenIDIsValid(claims.TokenID, claims.AccountID) {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "UNAUTHORIZED",
				Message: "Invalid or expired token",
			})
			c.Abort()
			return
		}

		revoked, err := blacklist.IsTokenRevoked(c.Request.Context(), claims.TokenID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error:   "INTERNAL_ERROR",
				Message: "Internal server error",
			})
			c.Abort()
			return
		}
		if revoked {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "UNAUTHORIZED",
				Message: "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set("account_id", claims.AccountID)
		c.Set("person_id", claims.PersonID)
		c.Set("token_id", claims.TokenID)
		c.Set("claims", claims)

		c.Next()
	}
}
