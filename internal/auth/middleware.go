package auth

import (
	"strings"

	"github.com/SahilDudhatWork/Synthia.AI/internal/logger"

	"github.com/gofiber/fiber/v2"
)

// UserIDLocal is the Locals key holding the token subject.
const UserIDLocal = "authUserId"

// Middleware requires a valid bearer token on every request except those
// whose path starts with one of the public prefixes. With an empty secret
// it lets everything through.
func Middleware(secret string, public ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" || c.Method() == fiber.MethodOptions {
			return c.Next()
		}
		for _, prefix := range public {
			if strings.HasPrefix(c.Path(), prefix) {
				return c.Next()
			}
		}

		raw := bearerToken(c)
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization token",
			})
		}

		userID, err := ValidateJWT(raw, secret)
		if err != nil {
			logger.Log.WithError(err).WithField("path", c.Path()).Debug("rejected token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(UserIDLocal, userID)
		return c.Next()
	}
}

// bearerToken reads the Authorization header, or the token query parameter
// for websocket upgrades which cannot set headers from a browser.
func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return c.Query("token")
}

// UserID is the token subject of an authenticated request.
func UserID(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals(UserIDLocal).(string)
	return id, ok && id != ""
}

// CheckUser rejects requests acting on behalf of someone other than the
// token subject. Unauthenticated requests pass.
func CheckUser(c *fiber.Ctx, claimed string) error {
	id, ok := UserID(c)
	if !ok || claimed == "" || strings.EqualFold(id, claimed) {
		return nil
	}
	return fiber.NewError(fiber.StatusForbidden, "userId does not match the authenticated user")
}
