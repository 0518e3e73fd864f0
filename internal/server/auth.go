package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vantagehq/vantage/internal/idp"
)

const principalKey = "principal"

// RequirePrincipal verifies the bearer credential against the IdP and
// stores the resulting principal in the request context.
func (s *Server) RequirePrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		principal, err := s.idpClient.VerifyToken(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

func currentPrincipal(c *gin.Context) (*idp.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	principal, ok := value.(*idp.Principal)
	return principal, ok
}
