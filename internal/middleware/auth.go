// File: internal/middleware/auth.go
package middleware

import (
	"errors"

	"realty_bureau_backend/internal/common"
	"realty_bureau_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware requires a valid access token, read from the
// Authorization header or the named auth cookie.
func AuthMiddleware(tokenService shared.TokenService, cookieName string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := common.GetTokenFromContext(c, cookieName)
		if tokenString == "" {
			logger.Debug("Access token missing", zap.String("path", c.Request.URL.Path))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authentication token is required."))
			return
		}

		claims, err := tokenService.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.Debug("Token validation failed", zap.Error(err))
			common.RespondWithError(c, tokenError(err))
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware identifies the caller when a valid token is
// present and lets anonymous requests through. An invalid token is
// treated as anonymous.
func OptionalAuthMiddleware(tokenService shared.TokenService, cookieName string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := common.GetTokenFromContext(c, cookieName); tokenString != "" {
			claims, err := tokenService.ValidateToken(c.Request.Context(), tokenString)
			if err == nil {
				setClaims(c, claims)
			} else {
				logger.Debug("Ignoring invalid optional token", zap.Error(err))
			}
		}
		c.Next()
	}
}

func setClaims(c *gin.Context, claims *shared.Claims) {
	c.Set(common.UserIDKey, claims.UserID)
	c.Set(common.UserEmailKey, claims.Email)
	c.Set(common.UserRoleKey, claims.Role)
	c.Set(common.UserClaimsKey, claims)
}

func tokenError(err error) error {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, shared.ErrTokenRevoked) {
		return common.ErrUnauthorized.WithDetails("Token has been revoked.")
	}
	return common.ErrUnauthorized.WithDetails("Invalid or expired token.")
}

// GetUserClaimsFromContext retrieves the full claims object from the Gin context.
func GetUserClaimsFromContext(c *gin.Context) *shared.Claims {
	val, exists := c.Get(common.UserClaimsKey)
	if !exists {
		return nil
	}
	claims, ok := val.(*shared.Claims)
	if !ok {
		return nil
	}
	return claims
}

// RoleAuthMiddleware creates a middleware to check if the authenticated user has one of the required roles.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := common.GetUserRoleFromContext(c)
		if userRole == "" {
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authentication required."))
			return
		}

		for _, role := range allowedRoles {
			if userRole == role {
				c.Next()
				return
			}
		}
		common.RespondWithError(c, common.ErrForbidden.WithDetails("You do not have sufficient permissions for this resource."))
	}
}
