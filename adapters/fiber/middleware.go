package fiber

import (
	"github.com/gofiber/fiber/v3"

	collaboracal "github.com/LeanHydra84/CollaboraCal"
)

// requireAuth rejects requests without a resolvable session token before the
// handler runs. Handlers still pass the raw (email, token) pair down to the
// services, which re-check the pair against the session; this middleware is
// an early exit, not the gate itself.
func (a *Adapter) requireAuth(c fiber.Ctx) error {
	token := extractToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": collaboracal.ErrMissingAuthHeader.Error(),
		})
	}

	sessionData, err := a.auth.GetSession(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": collaboracal.ErrUnauthorized.Error(),
		})
	}

	// Store user and session in context for downstream handlers
	c.Locals("user", sessionData.User)
	c.Locals("session", sessionData.Session)

	return c.Next()
}
