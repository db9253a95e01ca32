package auth

import (
	"slices"

	"github.com/gofiber/fiber/v2"
)

// OnlyRoles menolak request yang role-nya (dari token) tidak termasuk roles.
func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	if customMessage == "" {
		customMessage = "Forbidden: you are not authorized to access this resource"
	}
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalUserRole).(string)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: missing role information")
		}
		if slices.Contains(roles, role) {
			return c.Next()
		}
		return fiber.NewError(fiber.StatusForbidden, customMessage)
	}
}
