// File: internal/middleware/auth.go
package middleware

import (
	"local_services_backend/internal/auth"
	"local_services_backend/internal/common"
	"local_services_backend/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware requires a valid Firebase ID token and attaches the session.
func AuthMiddleware(authService auth.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := common.GetTokenFromContext(c)
		if token == "" {
			logger.Debug("Bearer token missing or malformed")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			return
		}

		sess, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			logger.Warn("Token validation failed", zap.Error(err))
			common.RespondWithError(c, err)
			return
		}

		session.Set(c, sess)
		logger.Debug("User authenticated successfully", zap.String("userID", sess.UserID()))
		c.Next()
	}
}

// OptionalAuthMiddleware attaches a session when a valid token is present.
// Missing or invalid tokens leave the request anonymous.
func OptionalAuthMiddleware(authService auth.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := common.GetTokenFromContext(c); token != "" {
			sess, err := authService.Authenticate(c.Request.Context(), token)
			if err != nil {
				logger.Debug("Ignoring invalid token on optional-auth route", zap.Error(err))
			} else {
				session.Set(c, sess)
			}
		}
		c.Next()
	}
}
