package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/coder/quartz"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/redis/go-redis/v9"

	"halaqahku_backend/internals/configs"
	database "halaqahku_backend/internals/databases"
	attendanceCtrl "halaqahku_backend/internals/features/sessions/attendance/controller"
	attendanceModel "halaqahku_backend/internals/features/sessions/attendance/model"
	attendanceSvc "halaqahku_backend/internals/features/sessions/attendance/service"
	attendanceStore "halaqahku_backend/internals/features/sessions/attendance/store"
	lifecycleCtrl "halaqahku_backend/internals/features/sessions/lifecycle/controller"
	lifecycleModel "halaqahku_backend/internals/features/sessions/lifecycle/model"
	"halaqahku_backend/internals/features/sessions/lifecycle/scheduler"
	lifecycleSvc "halaqahku_backend/internals/features/sessions/lifecycle/service"
	lifecycleStore "halaqahku_backend/internals/features/sessions/lifecycle/store"
	notificationSvc "halaqahku_backend/internals/features/sessions/notifications/service"
	settingsCtrl "halaqahku_backend/internals/features/sessions/settings/controller"
	settingsModel "halaqahku_backend/internals/features/sessions/settings/model"
	settingsSvc "halaqahku_backend/internals/features/sessions/settings/service"
	"halaqahku_backend/internals/helpers/cache"
	middlewares "halaqahku_backend/internals/middlewares"
	routes "halaqahku_backend/internals/route"
	"halaqahku_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()
	logger, logCloser := configs.NewLogger()
	defer logCloser.Close()
	slog.SetDefault(logger)

	// 🔌 DB connect + pool + migrate
	if err := database.ConnectDB(logger); err != nil {
		logger.Error("startup gagal", "err", err)
		os.Exit(1)
	}
	database.TunePool(logger)
	if err := database.Migrate(
		&lifecycleModel.TutoringSessionModel{},
		&attendanceModel.SessionAttendanceModel{},
		&settingsModel.SessionSettingModel{},
	); err != nil {
		logger.Error("startup gagal", "err", err)
		os.Exit(1)
	}

	if configs.GetEnv("RUN_SEEDS") == "true" {
		seeds.RunAllSeeds(database.DB, logger)
	}

	ctx := context.Background()
	clock := quartz.NewReal()

	// Redis: invalidasi proyeksi attendance
	var invalidator attendanceSvc.CacheInvalidator = cache.LogInvalidator{Logger: logger}
	var redisClient *redis.Client
	if configs.RedisURL != "" {
		client, err := cache.Connect(ctx, configs.RedisURL)
		if err != nil {
			logger.Warn("redis tidak tersedia, invalidasi cache hanya di-log", "err", err)
		} else {
			redisClient = client
			invalidator = cache.NewRedisInvalidator(client)
		}
	}

	// Kafka: event lifecycle untuk service notifikasi
	var sink lifecycleSvc.NotificationSink = notificationSvc.LogSink{Logger: logger}
	var publisher *notificationSvc.KafkaPublisher
	if len(configs.KafkaBrokers) > 0 {
		p, err := notificationSvc.NewKafkaPublisher(configs.KafkaBrokers, configs.KafkaSessionTopic)
		if err != nil {
			logger.Warn("kafka publisher tidak bisa dibuat, notifikasi hanya di-log", "err", err)
		} else {
			publisher = p
			sink = notificationSvc.NewEventSink(p)
		}
	}

	settingsSource := settingsSvc.GormSource{DB: database.DB}
	settings := settingsSvc.NewProvider(settingsSource, configs.LoadSessionDefaults(), clock)
	sessionStore := lifecycleStore.NewGormSessionStore(database.DB)
	ledger := attendanceSvc.NewLedger(attendanceStore.NewGormAttendanceStore(database.DB), settings, invalidator, logger)
	machine := lifecycleSvc.NewStateMachine(sessionStore, settings, sink, ledger, clock, logger)
	batch := lifecycleSvc.NewBatchProcessor(machine, sessionStore, configs.GetEnvInt("SESSION_BATCH_CONCURRENCY", 8), logger)

	// ⏱ scheduler setelah DB siap
	statusScheduler := scheduler.NewStatusScheduler(batch, configs.SessionStatusCron, logger)
	if err := statusScheduler.Start(); err != nil {
		logger.Error("startup gagal", "err", err)
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"
			if fe, ok := err.(*fiber.Error); ok {
				code, msg = fe.Code, fe.Message
			}
			return c.Status(code).JSON(fiber.Map{"success": false, "message": msg})
		},
	})
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	middlewares.SetupMiddlewares(app, logger)

	routes.SetupRoutes(app, routes.Deps{
		DB:            database.DB,
		Logger:        logger,
		JWTSecret:     configs.JWTSecret,
		WebhookSecret: configs.WebhookSecret,
		Lifecycle:     lifecycleCtrl.NewSessionLifecycleController(sessionStore, machine, batch, logger),
		Attendance:    attendanceCtrl.NewAttendanceController(sessionStore, ledger, machine, logger),
		Settings:      settingsCtrl.NewSessionSettingsController(settingsSource, settings, logger),
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")
	go func() {
		logger.Info("listening", "port", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown: HTTP → scheduler → broker/cache → DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(shutdownCtx)
	statusScheduler.Stop(shutdownCtx)
	if publisher != nil {
		_ = publisher.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	database.Close()
}
