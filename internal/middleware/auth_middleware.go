package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/internlink/internlink/internal/app/models"
	"github.com/internlink/internlink/internal/app/models/dto"
	"github.com/internlink/internlink/internal/pkg/apperrors"
	"github.com/internlink/internlink/internal/pkg/auth"
	"github.com/internlink/internlink/internal/pkg/logger"
)

const principalKey = "principal"

// LoginPath is where unauthenticated requests to guarded routes are sent
const LoginPath = "/login"

// SessionValidator resolves a session token to the principal it identifies
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*models.Principal, error)
}

// AuthMiddleware loads sessions and guards routes by role
type AuthMiddleware struct {
	sessions   SessionValidator
	cookieName string
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sessions SessionValidator, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:   sessions,
		cookieName: cookieName,
	}
}

// CookieName is the name of the session cookie
func (m *AuthMiddleware) CookieName() string {
	return m.cookieName
}

// sessionToken reads the session cookie, falling back to a bearer token
func (m *AuthMiddleware) sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
		return cookie
	}
	if header := c.GetHeader("Authorization"); header != "" {
		if token, err := auth.ExtractBearerToken(header); err == nil {
			return token
		}
	}
	return ""
}

// LoadSession attaches the principal of a valid session to the request.
// Requests without a usable session continue anonymously.
func (m *AuthMiddleware) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.sessionToken(c)
		if token == "" {
			c.Next()
			return
		}

		principal, err := m.sessions.ValidateSession(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, apperrors.ErrTokenInvalid) && !errors.Is(err, apperrors.ErrTokenRevoked) {
				logger.Warn().Err(err).Msg("Session validation failed")
			}
			c.Next()
			return
		}

		c.Set(principalKey, *principal)
		c.Next()
	}
}

// RequireRoles lets the request through only for a principal holding one of
// roles. Anonymous requests are redirected to the login page; a signed-in
// user with another role gets 403.
func (m *AuthMiddleware) RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		logger.Warn().
			Int64("userID", principal.UserID).
			Str("role", string(principal.Role)).
			Str("path", c.Request.URL.Path).
			Msg("Role not permitted for route")
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied.")
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
	}
}

// RequireAuth admits any signed-in user
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return m.RequireRoles(models.AllRoles...)
}

// CurrentPrincipal returns the principal loaded by LoadSession
func CurrentPrincipal(c *gin.Context) (models.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return models.Principal{}, false
	}
	principal, ok := value.(models.Principal)
	return principal, ok
}
