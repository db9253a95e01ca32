package middlewares

import (
	"log/slog"

	"halaqahku_backend/internals/middlewares/logger"

	"github.com/gofiber/fiber/v2"
)

// SetupMiddlewares memasang middleware global (urutan penting: recovery paling luar).
func SetupMiddlewares(app *fiber.App, l *slog.Logger) {
	app.Use(RecoveryMiddleware(l))
	app.Use(logger.LoggerMiddleware(l))
	app.Use(CorsMiddleware())
}
