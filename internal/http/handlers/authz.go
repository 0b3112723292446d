package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/repos"
)

// Identity is issued elsewhere; this layer only verifies the bearer token
// and resolves the subject to a known user.
func currentUser(c *fiber.Ctx, users *repos.UserRepo, secret string) (*domain.User, error) {
	header := c.Get(fiber.HeaderAuthorization)
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return nil, fiber.ErrUnauthorized
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, fiber.ErrUnauthorized
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fiber.ErrUnauthorized
	}
	return users.ByID(sub)
}

func RequireUser(users *repos.UserRepo, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := currentUser(c, users, secret)
		if err != nil || u == nil {
			applog.Security(c, "access.denied.user", nil)
			return jsonError(c, fiber.StatusUnauthorized, "Authentication required")
		}
		c.Locals("user", u)
		c.Locals("userID", u.ID)
		return c.Next()
	}
}

func RequireAdmin(users *repos.UserRepo, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := currentUser(c, users, secret)
		if err != nil || u == nil {
			applog.Security(c, "access.denied.admin", nil)
			return jsonError(c, fiber.StatusUnauthorized, "Authentication required")
		}
		if u.Role != "ADMIN" {
			applog.Security(c, "access.denied.admin", map[string]any{"user_id": u.ID})
			return jsonError(c, fiber.StatusForbidden, "Admin access required")
		}
		c.Locals("user", u)
		c.Locals("userID", u.ID)
		return c.Next()
	}
}

// userID reads the authenticated user id set by RequireUser/RequireAdmin.
func userID(c *fiber.Ctx) string {
	uid, _ := c.Locals("userID").(string)
	return uid
}
