package auth

import (
	"net/http"
	"strings"

	"glamgo/internal/authz"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// TokenVerifier turns a raw bearer token into an identity.
type TokenVerifier interface {
	Verify(raw string) (authz.Identity, error)
}

// RequireIdentity rejects requests without a valid bearer token and stores
// the caller's identity on the gin context.
func RequireIdentity(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))

		id, err := v.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"details": err.Error(),
			})
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// IdentityFrom returns the identity stored by RequireIdentity, or the zero
// identity when none is present.
func IdentityFrom(c *gin.Context) authz.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return authz.Identity{}
	}
	id, _ := v.(authz.Identity)
	return id
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
