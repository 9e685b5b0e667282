package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/ttakano/climblog/internal/server/policy"
)

const principalKey = "principal"

// resolvePrincipal turns HTTP Basic credentials into a policy.Principal in
// the request context. Requests without credentials proceed as anonymous;
// whether anonymity is acceptable is each operation's decision, made by
// the policy. Supplied-but-wrong credentials are rejected outright.
func (s *Server) resolvePrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Next()
			return
		}

		p, err := s.users.Authenticate(c.Request.Context(), username, password)
		if err != nil {
			s.writeError(c, err)
			c.Abort()
			return
		}

		c.Set(principalKey, p)
		c.Next()
	}
}

// principalFrom returns the resolved principal, or nil for anonymous.
func principalFrom(c *gin.Context) *policy.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(*policy.Principal); ok {
			return p
		}
	}
	return nil
}
