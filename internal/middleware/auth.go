package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/utils"
)

const CtxUserIDKey = "userID"

// AuthMiddleware rejects requests without a valid bearer token before any handler runs.
// A missing header is 401; a token that fails signature or expiry checks is 403.
func AuthMiddleware(jwt *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		tokenString = strings.TrimSpace(tokenString)
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid token"})
			return
		}

		claims, err := jwt.ValidateJWT(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid token"})
			return
		}

		// Only the caller's identity reaches the handlers.
		c.Set(CtxUserIDKey, claims.UserID)

		c.Next()
	}
}

// UserID returns the id set by AuthMiddleware, or "" outside a protected route.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
