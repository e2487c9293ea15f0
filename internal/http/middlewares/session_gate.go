package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopstack/catalog/internal/auth"
)

// TokenVerifier is kept small so tests can fake it easily.
type TokenVerifier interface {
	VerifySessionToken(token string) (*auth.Claims, error)
	SecretConfigured() bool
}

// SessionGate fronts the protected path prefixes. Every request is checked
// independently: no cookie or a bad token redirects to the login page, a
// missing server-side secret is answered with 500.
type SessionGate struct {
	jwt       TokenVerifier
	loginPath string
}

func NewSessionGate(jwt TokenVerifier) *SessionGate {
	return &SessionGate{
		jwt:       jwt,
		loginPath: "/login",
	}
}

func (g *SessionGate) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(auth.SessionCookieName)

		if err != nil || raw == "" {
			g.redirectToLogin(c)
			return
		}

		if !g.jwt.SecretConfigured() {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{
					"code":    "server_config",
					"message": "Server is not configured for sessions",
				},
			})
			return
		}

		claims, err := g.jwt.VerifySessionToken(raw)

		if err != nil {
			// covers both a bad signature and an expired token
			g.redirectToLogin(c)
			return
		}

		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxEmailKey, claims.Email)

		c.Next()
	}
}

func (g *SessionGate) redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, g.loginPath)
	c.Abort()
}

// Helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxUserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func EmailFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxEmailKey)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}
