package middleware

import (
	"net/http"
	"strings"

	"gearshed/internal/auth"
	"gearshed/internal/models"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// AuthRequired accepts "Authorization: Bearer <token>" and stores the token's
// identity on the context. Anything else is a 401.
func AuthRequired(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			return
		}

		claims, err := jwtManager.Validate(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(identityKey, claims.Identity())
		c.Set("user_id", claims.UserID)
		c.Next()
	}
}

// IdentityFrom returns the identity set by AuthRequired.
func IdentityFrom(c *gin.Context) (models.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := value.(models.Identity)
	return identity, ok
}

// MustIdentity is IdentityFrom for routes behind AuthRequired.
func MustIdentity(c *gin.Context) models.Identity {
	return c.MustGet(identityKey).(models.Identity)
}
