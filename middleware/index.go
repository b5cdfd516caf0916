package middleware

import (
	"errors"
	"strings"
	"time"

	"cinema_storefront/identity"
	"cinema_storefront/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const DeviceCookie = "device_id"

func bearer(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// OptionalJWT exposes the caller's bearer token and claims when present.
// The backend owns the signing key, so only shape and expiry against clock
// are checked here.
func OptionalJWT(clock clockwork.Clock) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearer(c)
		if token == "" {
			c.Locals("token", "")
			return c.Next()
		}

		claims, ok := identity.Claims(token)
		if !ok || !identity.TokenValid(token, clock.Now()) {
			c.Locals("token", "")
			return c.Next()
		}

		c.Locals("token", token)
		c.Locals("claims", claims)
		return c.Next()
	}
}

// Protected rejects requests without a usable bearer token. Use after OptionalJWT.
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, _ := c.Locals("token").(string)
		if token == "" {
			if bearer(c) == "" {
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Token fehlt", errors.New("no token"))
			}
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Ungültiges Token", errors.New("invalid or expired token"))
		}
		return c.Next()
	}
}

// DeviceSession pins the browser to a device id cookie, issuing one on first visit.
func DeviceSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(DeviceCookie)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     DeviceCookie,
				Value:    id,
				Path:     "/",
				Expires:  time.Now().AddDate(1, 0, 0),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		c.Locals("deviceId", id)
		return c.Next()
	}
}
