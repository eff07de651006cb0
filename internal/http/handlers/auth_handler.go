package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"artstore/internal/auth"
	"artstore/internal/domain"
	applog "artstore/internal/log"
	"artstore/internal/services"
	"artstore/internal/validate"
)

type AuthHandler struct {
	Auth   *services.AuthService
	Tokens *auth.Tokens
	TTL    time.Duration
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func setSID(c *fiber.Ctx, sid string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     sidKey,
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false, // enable behind TLS
		Expires:  expires,
	})
}

// POST /login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	email, ok := validate.Email(req.Email)
	if !ok || !validate.Password(req.Password) {
		c.Status(fiber.StatusUnauthorized)
		applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email, "reason": "bad_format"})
		return c.JSON(fiber.Map{"error": domain.ErrBadCredentials.Error()})
	}

	// a fresh id per login so an old cookie can't be fixated onto the account
	sid := uuid.NewString()
	u, err := h.Auth.Login(c.UserContext(), sid, email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrBadCredentials) {
			c.Status(fiber.StatusUnauthorized)
			applog.Security(c, "auth.login.fail", map[string]any{"email": email})
			return c.JSON(fiber.Map{"error": err.Error()})
		}
		return fail(c, "auth.login", err)
	}
	token, err := h.Tokens.Issue(u, sid)
	if err != nil {
		return fail(c, "auth.login", err)
	}

	setSID(c, sid, time.Now().Add(h.TTL))
	c.Locals(applog.IdentityKey, u.Identity())
	applog.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.JSON(fiber.Map{
		"token": token,
		"user":  fiber.Map{"id": u.ID, "email": u.Email, "name": u.Name, "role": u.Role},
	})
}

// POST /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid, _ := c.Locals(sidKey).(string)
	if sid != "" {
		if err := h.Auth.Logout(c.UserContext(), sid); err != nil {
			return fail(c, "auth.logout", err)
		}
	}
	setSID(c, "", time.Now().Add(-1*time.Hour))
	applog.Audit(c, "auth.logout", nil)
	return c.SendStatus(fiber.StatusNoContent)
}
