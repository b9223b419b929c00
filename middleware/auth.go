package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/jobs-service/internal/core/domain"
	"github.com/duynhne/jobs-service/internal/logger"
	"github.com/duynhne/jobs-service/internal/token"
)

const identityKey = "identity"

// TokenParser verifies a bearer token and returns its claims.
type TokenParser interface {
	Parse(token string) (*token.Claims, error)
}

// Authenticate rejects requests without a valid bearer token and attaches
// the caller's identity to the gin context.
func Authenticate(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token provided"})
			return
		}

		claims, err := parser.Parse(raw)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn().Err(err).Msg("Token verification failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Not authorized to this route"})
			return
		}

		c.Set(identityKey, domain.Identity{
			UserID:   claims.UserID,
			UserName: claims.UserName,
			Demo:     claims.Role == domain.RoleDemo,
		})
		c.Next()
	}
}

// IdentityFromContext returns the identity attached by Authenticate.
func IdentityFromContext(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	raw := strings.TrimSpace(header[len(prefix):])
	return raw, raw != ""
}
