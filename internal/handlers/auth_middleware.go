package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pgs-software-club/club-service/internal/auth"
)

// SessionCookieName carries the admin token between requests.
const SessionCookieName = "admin-token"

// AdminAuthMiddleware guards the admin API with the session token.
type AdminAuthMiddleware struct {
	tokens *auth.TokenService
}

func NewAdminAuthMiddleware(tokens *auth.TokenService) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{tokens: tokens}
}

// AuthMiddleware accepts the token from the session cookie first, then
// from a Bearer header for non-browser clients. All failures answer the
// same 401 so callers learn nothing about why.
func (m *AdminAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			m.unauthorized(c)
			return
		}

		claims, err := m.tokens.Verify(token)
		if err != nil {
			m.unauthorized(c)
			return
		}

		c.Set("admin_email", claims.Email)
		c.Set("admin_role", claims.Role)
		c.Next()
	}
}

func (m *AdminAuthMiddleware) extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func (m *AdminAuthMiddleware) unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
}
