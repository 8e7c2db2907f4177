package middleware

import (
	"net/http"
	"strings"

	"finance_tracker/internal/logger"
	"finance_tracker/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	AuthUserKey  = "authUser"
	AuthEmailKey = "authEmail"
)

// JWTAuthMiddleware creates a middleware for JWT authentication
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims, err := jwtUtil.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(AuthUserKey, claims.UserID)
		c.Set(AuthEmailKey, claims.Email)

		ctx := c.Request.Context()
		log := logger.FromContext(ctx).With().Str("user_id", claims.UserID.String()).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(ctx, log))

		c.Next()
	}
}

// UserID returns the authenticated user set by JWTAuthMiddleware.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get(AuthUserKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok && id != uuid.Nil
}
