package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"artstore/internal/auth"
	"artstore/internal/domain"
	applog "artstore/internal/log"
	"artstore/internal/services"
)

const sidKey = "sid"

// Identify resolves the caller from a bearer token or the sid cookie and stores
// it in Locals. Unknown callers continue as Guest; the guards below decide.
func Identify(sessions *services.AuthService, tokens *auth.Tokens) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who := domain.Guest()
		sid := c.Cookies(sidKey)

		if raw, ok := bearer(c); ok {
			id, tokenSID, err := tokens.Parse(raw)
			if err != nil {
				applog.Security(c, "auth.token.invalid", map[string]any{"err": err.Error()})
			} else {
				sid = tokenSID
				// the session must still be bound, so logout revokes the token
				if u, err := sessions.CurrentUser(c.UserContext(), sid); err == nil && u != nil && u.ID == id.UserID {
					who = u.Identity()
				} else {
					applog.Security(c, "auth.token.revoked", map[string]any{"sub": id.UserID})
				}
			}
		} else if sid != "" {
			if u, err := sessions.CurrentUser(c.UserContext(), sid); err == nil && u != nil {
				who = u.Identity()
			}
		}

		c.Locals(applog.IdentityKey, who)
		c.Locals(sidKey, sid)
		return c.Next()
	}
}

func bearer(c *fiber.Ctx) (string, bool) {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:]), true
	}
	return "", false
}

func identity(c *fiber.Ctx) domain.Identity {
	if who, ok := c.Locals(applog.IdentityKey).(domain.Identity); ok {
		return who
	}
	return domain.Guest()
}

// RequireUser rejects guests the same way the services do, with
// ErrUserNotAuthenticated (403).
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !identity(c).Authenticated() {
			c.Status(statusFor(domain.ErrUserNotAuthenticated))
			applog.Security(c, "access.denied.user", nil)
			return c.JSON(fiber.Map{"error": domain.ErrUserNotAuthenticated.Error()})
		}
		return c.Next()
	}
}

// RequireAdmin rejects guests with 401 and non-admins with 403.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		who := identity(c)
		if !who.Authenticated() {
			c.Status(fiber.StatusUnauthorized)
			applog.Security(c, "access.denied.admin", nil)
			return c.JSON(fiber.Map{"error": "login required"})
		}
		if !who.IsAdmin() {
			c.Status(fiber.StatusForbidden)
			applog.Security(c, "access.denied.admin", map[string]any{"role": who.Role.String()})
			return c.JSON(fiber.Map{"error": "access denied"})
		}
		return c.Next()
	}
}
