// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool
	Logger              *slog.Logger
}

// AuthJWT memverifikasi bearer token lalu menyimpan user_id, userRole,
// dan academy_ids ke Locals.
func AuthJWT(opts AuthJWTOpts) fiber.Handler {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return func(c *fiber.Ctx) error {
		if opts.Secret == "" {
			log.Error("JWT_SECRET kosong")
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		tokenString, err := extractBearerToken(c, opts.AllowCookieFallback)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true, ValidMethods: []string{"HS256", "HS384", "HS512"}}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(opts.Secret), nil
		}); err != nil {
			log.Warn("gagal parse token", "path", c.Path(), "err", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		userID, err := extractUserID(claims)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
		}
		c.Locals(LocalUserID, userID.String())
		storeClaimsToLocals(c, claims)

		return c.Next()
	}
}
