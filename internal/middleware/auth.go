package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/audiofx/api/internal/auth"
	"github.com/audiofx/api/pkg/response"
)

// AuthMiddleware validates HMAC-signed bearer tokens.
type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: jwtSecret}
}

// Authenticate requires a valid token and puts the claims on the
// request context.
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := m.claimsFromHeader(c)
		if !ok {
			return response.Unauthorized(c, "Invalid or expired token")
		}
		c.Locals("userId", claims.UserID)
		c.Locals("username", claims.Username)
		return c.Next()
	}
}

// Optional accepts requests with or without a token. A valid token
// attaches the user; a missing or bad token leaves the request
// anonymous instead of rejecting it.
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if claims, ok := m.claimsFromHeader(c); ok {
			c.Locals("userId", claims.UserID)
			c.Locals("username", claims.Username)
		}
		return c.Next()
	}
}

func (m *AuthMiddleware) claimsFromHeader(c *fiber.Ctx) (*auth.Claims, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, false
	}
	claims, err := auth.ValidateToken(parts[1], m.jwtSecret)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// GetUserID extracts the authenticated user ID from the request
// context, or "" for anonymous requests.
func GetUserID(c *fiber.Ctx) string {
	if userID, ok := c.Locals("userId").(string); ok {
		return userID
	}
	return ""
}

// GetUsername extracts the authenticated username from the request
// context.
func GetUsername(c *fiber.Ctx) string {
	if username, ok := c.Locals("username").(string); ok {
		return username
	}
	return ""
}
