package configs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	JWTSecret         string
	WebhookSecret     string
	RedisURL          string
	KafkaBrokers      []string
	KafkaSessionTopic string
	SessionStatusCron string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			slog.Warn("tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			slog.Info(".env file berhasil dimuat")
		}
	} else {
		slog.Info("running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	WebhookSecret = GetEnv("WEBHOOK_SECRET")
	RedisURL = GetEnv("REDIS_URL")
	KafkaBrokers = splitList(GetEnv("KAFKA_BROKERS"))
	KafkaSessionTopic = GetEnv("KAFKA_SESSION_TOPIC", "tutoring.sessions.lifecycle")
	SessionStatusCron = GetEnv("SESSION_STATUS_CRON", "@every 1m")

	if JWTSecret == "" {
		slog.Warn("JWT_SECRET belum diset, route admin akan menolak semua request")
	}
	if WebhookSecret == "" {
		slog.Warn("WEBHOOK_SECRET belum diset, webhook attendance akan ditolak")
	}
	if RedisURL == "" {
		slog.Warn("REDIS_URL belum diset, invalidasi cache attendance hanya dicatat ke log")
	}
	if len(KafkaBrokers) == 0 {
		slog.Warn("KAFKA_BROKERS belum diset, notifikasi sesi hanya dicatat ke log")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// GetEnvInt: nilai invalid/negatif → default
func GetEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		slog.Warn("nilai env tidak valid, pakai default", "key", key, "value", raw, "default", def)
		return def
	}
	return n
}

func splitList(raw string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
	Logger        *slog.Logger
}

func NewGormLogger(l *slog.Logger) gormLogger.Interface {
	if l == nil {
		l = slog.Default()
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
		Logger:        l.With("component", "gorm"),
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	cp := *l
	cp.LogLevel = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		l.Logger.InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		l.Logger.WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		l.Logger.ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error:
		l.Logger.ErrorContext(ctx, "query error", "file", file, "err", err, "elapsed", elapsed, "rows", rows, "sql", sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		l.Logger.WarnContext(ctx, "slow sql", "file", file, "elapsed", elapsed, "rows", rows, "sql", sql)
	case l.LogLevel >= gormLogger.Info:
		l.Logger.DebugContext(ctx, "query", "file", file, "elapsed", elapsed, "rows", rows, "sql", sql)
	}
}
