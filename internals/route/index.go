// file: internals/route/index.go
package routes

import (
	"log/slog"
	"time"

	"halaqahku_backend/internals/constants"
	attendanceCtrl "halaqahku_backend/internals/features/sessions/attendance/controller"
	attendanceRoute "halaqahku_backend/internals/features/sessions/attendance/route"
	lifecycleCtrl "halaqahku_backend/internals/features/sessions/lifecycle/controller"
	lifecycleRoute "halaqahku_backend/internals/features/sessions/lifecycle/route"
	settingsCtrl "halaqahku_backend/internals/features/sessions/settings/controller"
	settingsRoute "halaqahku_backend/internals/features/sessions/settings/route"
	"halaqahku_backend/internals/middlewares"
	authMiddleware "halaqahku_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var startTime time.Time

type Deps struct {
	DB            *gorm.DB
	Logger        *slog.Logger
	JWTSecret     string
	WebhookSecret string

	Lifecycle  *lifecycleCtrl.SessionLifecycleController
	Attendance *attendanceCtrl.AttendanceController
	Settings   *settingsCtrl.SessionSettingsController
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()
	log := d.Logger.With("component", "routes")

	BaseRoutes(app, d.DB)

	// ===================== WEBHOOK (signature, tanpa JWT) =====================
	log.Info("[INFO] Setting up WEBHOOK group...")
	webhooks := app.Group("/api/webhooks",
		middlewares.WebhookRateLimiter(),
		authMiddleware.WebhookSignature(d.WebhookSecret, d.Logger),
	)
	attendanceRoute.AttendanceWebhookRoutes(webhooks, d.Attendance)

	// ===================== ADMIN =====================
	log.Info("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		middlewares.GlobalRateLimiter(),
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              d.JWTSecret,
			AllowCookieFallback: true,
			Logger:              d.Logger,
		}),
		authMiddleware.OnlyRoles(constants.RoleErrorSessionManager("sesi"), constants.SessionManagerRoles...),
	)
	lifecycleRoute.SessionLifecycleAdminRoutes(admin, d.Lifecycle)
	attendanceRoute.AttendanceAdminRoutes(admin, d.Attendance)
	settingsRoute.SessionSettingsAdminRoutes(admin, d.Settings)
}
