package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"medreps/internal/models"
	"medreps/internal/service"
)

const (
	CurrentIdentityKey = "current_identity"
	CurrentSessionKey  = "current_session"
)

// TokenResolver maps a bearer token to the caller.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (models.Identity, models.Session, error)
}

func Auth(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		identity, session, err := resolver.Resolve(c.Request.Context(), tokenStr)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
			return
		}

		c.Set(CurrentIdentityKey, identity)
		c.Set(CurrentSessionKey, session)
		c.Request = c.Request.WithContext(service.WithActor(c.Request.Context(), identity))

		c.Next()
	}
}

func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(CurrentIdentityKey)
	if !ok {
		return models.Identity{}, false
	}
	identity, ok := v.(models.Identity)
	return identity, ok
}

func CurrentSession(c *gin.Context) (models.Session, bool) {
	v, ok := c.Get(CurrentSessionKey)
	if !ok {
		return models.Session{}, false
	}
	session, ok := v.(models.Session)
	return session, ok
}
