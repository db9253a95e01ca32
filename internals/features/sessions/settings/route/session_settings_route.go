package route

import (
	"halaqahku_backend/internals/features/sessions/settings/controller"

	"github.com/gofiber/fiber/v2"
)

func SessionSettingsAdminRoutes(r fiber.Router, ctl *controller.SessionSettingsController) {
	g := r.Group("/settings/sessions")
	g.Get("/", ctl.List)
	g.Put("/", ctl.Upsert)
}
