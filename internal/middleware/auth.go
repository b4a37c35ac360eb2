package middleware

import (
	"net/http"
	"strings"

	"aduan-portal/internal/model"
	"aduan-portal/internal/service"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// Authenticate resolves the bearer token and stashes the verified claims
// in the request context. Missing, malformed, tampered and expired tokens
// all end the request with 401.
func Authenticate(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token required"})
			return
		}

		claims := service.ParseClaims(tokenString, jwtSecret)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRoles admits the request only when the authenticated role is in
// the allow-list.
func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token required"})
			return
		}

		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}

// Claims returns the verified token claims set by Authenticate, or nil.
func Claims(c *gin.Context) *model.TokenClaims {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*model.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}
