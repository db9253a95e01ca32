package route

import (
	"halaqahku_backend/internals/features/sessions/attendance/controller"

	"github.com/gofiber/fiber/v2"
)

// Webhook dari media server (signature diverifikasi di group pemanggil)
func AttendanceWebhookRoutes(r fiber.Router, ctl *controller.AttendanceController) {
	g := r.Group("/attendance")
	g.Post("/join", ctl.Join)
	g.Post("/leave", ctl.Leave)
}

func AttendanceAdminRoutes(r fiber.Router, ctl *controller.AttendanceController) {
	r.Get("/sessions/:id/attendance", ctl.ListBySession)
}
