package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/careerkit/internal/auth"
)

const userKey = "auth.user"

// RequireUser resolves the bearer token to a user before the handler runs.
func RequireUser(authn auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No authorization header"})
			return
		}

		user, err := authn.Authenticate(c.Request.Context(), header)
		switch {
		case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication"})
			return
		case err != nil:
			log.Printf("❌ Auth service error: %v", err)
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Authentication service unavailable"})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user set by RequireUser, or nil outside it.
func CurrentUser(c *gin.Context) *auth.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*auth.User)
	return user
}
