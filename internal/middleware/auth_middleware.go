package middleware

import (
	"net/http"
	"strings"

	"crm-service/internal/pkg/response"
	"crm-service/internal/service/auth"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

type AuthMiddleware struct {
	authService *auth.AuthService
}

func NewAuthMiddleware(authService *auth.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Auth validates the bearer token and stores the resolved actor in the
// request context.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing authorization token", nil)
			return
		}

		actor, err := m.authService.ResolveActor(c.Request.Context(), token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token", err)
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireDelete gates permanent-deletion routes. MUST be used after Auth().
func (m *AuthMiddleware) RequireDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "authentication required", nil)
			return
		}
		if !actor.CanDelete() {
			response.Error(c, http.StatusForbidden, "permanent deletion requires admin role", nil)
			return
		}
		c.Next()
	}
}

// RequireUserAdmin gates user-administration routes. MUST be used after Auth().
func (m *AuthMiddleware) RequireUserAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "authentication required", nil)
			return
		}
		if !actor.CanManageUsers() {
			response.Error(c, http.StatusForbidden, "user administration requires admin role", nil)
			return
		}
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header,
// falling back to the token query param for websocket upgrades.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	return c.Query("token")
}
