package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// WebhookSignature memverifikasi webhook dari media server: header Authorization
// berisi JWT (HMAC, secret bersama) dengan claim "sha256" = base64(sha256(body)).
func WebhookSignature(secret string, logger *slog.Logger) fiber.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *fiber.Ctx) error {
		if secret == "" {
			logger.Error("WEBHOOK_SECRET kosong, webhook ditolak")
			return fiber.NewError(fiber.StatusServiceUnavailable, "Webhook belum dikonfigurasi")
		}

		raw := strings.TrimSpace(c.Get("Authorization"))
		if f := strings.Fields(raw); len(f) == 2 && strings.EqualFold(f[0], "Bearer") {
			raw = f[1]
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - missing webhook signature")
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{ValidMethods: []string{"HS256"}}
		if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}); err != nil {
			logger.Warn("signature webhook tidak valid", "err", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - invalid webhook signature")
		}

		want, _ := claims["sha256"].(string)
		sum := sha256.Sum256(c.Body())
		got := base64.StdEncoding.EncodeToString(sum[:])
		if want == "" || subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
			logger.Warn("hash body webhook tidak cocok")
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - body hash mismatch")
		}
		return c.Next()
	}
}
