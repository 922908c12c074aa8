package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	dom "github.com/ig0r-ferreira/todoapi/internal/domain"
)

const contextKeyUserID = "user_id"

// UserGetter resolves a token subject to a stored user.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (dom.User, error)
}

// UserIDFromContext returns the current user ID set by RequireToken. 0 if not set.
func UserIDFromContext(c *gin.Context) int64 {
	v, ok := c.Get(contextKeyUserID)
	if !ok {
		return 0
	}
	id, ok := v.(int64)
	if !ok {
		return 0
	}
	return id
}

// RequireToken returns a middleware that checks for a valid bearer token and
// sets the current user ID in context. Missing header, bad scheme, invalid or
// expired token, and a subject that no longer exists all respond 401 with a
// Bearer challenge.
func RequireToken(tokens *TokenManager, users UserGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c)
			return
		}
		userID, err := tokens.Subject(raw)
		if err != nil {
			unauthorized(c)
			return
		}
		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			unauthorized(c)
			return
		}
		c.Set(contextKeyUserID, user.ID)
		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" value.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
}
