package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/quizhub/internal/auth/domain"
	userdomain "github.com/smallbiznis/quizhub/internal/user/domain"
)

const contextUserKey = "current_user"

// AuthRequired resolves the caller from the session cookie, falling
// back to a JWT bearer token for API clients.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if token, ok := s.sessions.ReadToken(c); ok {
			user, err := s.authsvc.ResolveSession(ctx, token)
			if err != nil {
				AbortWithError(c, err)
				return
			}
			c.Set(contextUserKey, user)
			c.Next()
			return
		}

		bearer := bearerToken(c)
		if bearer == "" {
			AbortWithError(c, authdomain.ErrUnauthorized)
			return
		}
		user, err := s.authsvc.ResolveBearer(ctx, bearer)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Set(contextUserKey, user)
		c.Next()
	}
}

func (s *Server) currentUser(c *gin.Context) (*userdomain.User, bool) {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*userdomain.User)
	return user, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
