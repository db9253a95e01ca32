package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetUserUUID membaca user_id yang di-set AuthJWT. ok=false bila tidak ada/invalid.
func GetUserUUID(c *fiber.Ctx) (uuid.UUID, bool) {
	if raw, ok := c.Locals("user_id").(string); ok {
		if parsed, err := uuid.Parse(raw); err == nil {
			return parsed, true
		}
	}
	return uuid.Nil, false
}

func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Params(name)))
}
