package configs

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger: LOG_FILE kosong → stdout. Kalau diisi, file dirotasi lumberjack.
// io.Closer wajib ditutup saat shutdown supaya buffer ter-flush.
func NewLogger() (*slog.Logger, io.Closer) {
	level := ParseLogLevel(GetEnv("LOG_LEVEL", "info"))
	path := strings.TrimSpace(GetEnv("LOG_FILE"))

	if path == "" {
		h := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		return slog.New(h), nopCloser{}
	}

	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    GetEnvInt("LOG_MAX_SIZE_MB", 50),
		MaxBackups: 3,
		MaxAge:     28,
	}
	h := slog.NewJSONHandler(io.MultiWriter(os.Stdout, lj), &slog.HandlerOptions{Level: level})
	return slog.New(h), lj
}
