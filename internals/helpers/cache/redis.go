package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Connect menerima redis://… maupun host:port.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	var client *redis.Client
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: redisURL})
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func AttendanceStatusKey(sessionID, participantID uuid.UUID) string {
	return fmt.Sprintf("attendance_status_%s_%s", sessionID, participantID)
}

func SessionAttendanceSummaryKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("session_attendance_summary_%s", sessionID)
}

// RedisInvalidator menghapus proyeksi attendance yang di-cache fitur lain.
type RedisInvalidator struct {
	client *redis.Client
}

func NewRedisInvalidator(client *redis.Client) *RedisInvalidator {
	return &RedisInvalidator{client: client}
}

func (r *RedisInvalidator) Invalidate(ctx context.Context, sessionID, participantID uuid.UUID) error {
	return r.client.Del(ctx,
		AttendanceStatusKey(sessionID, participantID),
		SessionAttendanceSummaryKey(sessionID),
	).Err()
}

// LogInvalidator dipakai kalau REDIS_URL kosong (dev lokal).
type LogInvalidator struct {
	Logger *slog.Logger
}

func (l LogInvalidator) Invalidate(ctx context.Context, sessionID, participantID uuid.UUID) error {
	if l.Logger != nil {
		l.Logger.DebugContext(ctx, "invalidate attendance cache (noop)", "session_id", sessionID, "participant_id", participantID)
	}
	return nil
}
