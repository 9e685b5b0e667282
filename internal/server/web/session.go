package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ttakano/climblog/internal/server/auth"
	"github.com/ttakano/climblog/internal/server/policy"
)

const (
	sessionCookie = "climblog_session"
	principalKey  = "principal"
)

// sessionPrincipal resolves the session cookie to a principal. A missing,
// expired or undecodable cookie just means an anonymous visitor.
func (h *Handlers) sessionPrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err == nil && token != "" {
			if userID, err := auth.GetUserIDFromToken(token, []byte(h.config.SecretKey)); err == nil {
				if p, err := h.users.GetPrincipal(c.Request.Context(), userID); err == nil {
					c.Set(principalKey, p)
				}
			}
		}
		c.Next()
	}
}

func principalFrom(c *gin.Context) *policy.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(*policy.Principal); ok {
			return p
		}
	}
	return nil
}

func (h *Handlers) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(sessionCookie, token, int(h.config.SessionValidityDuration.Seconds()), "/", "", false, true)
}

func (h *Handlers) clearSessionCookie(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}

// requirePrincipal redirects anonymous visitors to the login page and
// reports whether a principal was present.
func (h *Handlers) requirePrincipal(c *gin.Context) *policy.Principal {
	p := principalFrom(c)
	if p == nil {
		c.Redirect(http.StatusFound, "/login")
	}
	return p
}
