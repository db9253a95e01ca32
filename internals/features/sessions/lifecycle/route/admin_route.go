package route

import (
	"halaqahku_backend/internals/features/sessions/lifecycle/controller"
	"halaqahku_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
)

func SessionLifecycleAdminRoutes(r fiber.Router, ctl *controller.SessionLifecycleController) {
	g := r.Group("/sessions")

	// statis dulu sebelum /:id
	g.Post("/status/run", middlewares.BatchTriggerRateLimiter(), ctl.RunBatch)

	g.Get("/:id", ctl.GetSession)
	g.Post("/:id/start", ctl.Start)
	g.Post("/:id/complete", ctl.Complete)
	g.Post("/:id/cancel", ctl.Cancel)
}
