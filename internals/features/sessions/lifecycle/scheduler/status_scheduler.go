package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"halaqahku_backend/internals/features/sessions/lifecycle/service"

	"github.com/robfig/cron/v3"
)

const defaultRunTimeout = 4 * time.Minute

// BatchRunner dipenuhi oleh *service.BatchProcessor.
type BatchRunner interface {
	RunDue(ctx context.Context, f service.Filter, dryRun bool) (service.BatchResult, error)
}

type StatusScheduler struct {
	cron    *cron.Cron
	runner  BatchRunner
	spec    string
	timeout time.Duration
	log     *slog.Logger
}

// NewStatusScheduler: satu job status sesi. Run yang masih berjalan tidak ditumpuk
// di proses yang sama; antar proses aman karena transisi berupa compare-and-swap.
func NewStatusScheduler(runner BatchRunner, spec string, logger *slog.Logger) *StatusScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if spec == "" {
		spec = "@every 1m"
	}
	l := logger.With("component", "session_status_scheduler")
	cl := cron.PrintfLogger(slog.NewLogLogger(l.Handler(), slog.LevelInfo))
	return &StatusScheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		runner:  runner,
		spec:    spec,
		timeout: defaultRunTimeout,
		log:     l,
	}
}

func (s *StatusScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.tick); err != nil {
		return fmt.Errorf("add cron %q: %w", s.spec, err)
	}
	s.log.Info("[SESSION-STATUS] started", "schedule", s.spec)
	s.cron.Start()
	return nil
}

// Stop menunggu job yang sedang berjalan selesai atau ctx habis.
func (s *StatusScheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("[SESSION-STATUS] stop timeout, job masih berjalan")
	}
}

func (s *StatusScheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.RunOnce(ctx)
}

func (s *StatusScheduler) RunOnce(ctx context.Context) service.BatchResult {
	start := time.Now()
	res, err := s.runner.RunDue(ctx, service.Filter{}, false)
	if err != nil {
		s.log.ErrorContext(ctx, "[SESSION-STATUS] gagal memuat sesi", "err", err)
		return res
	}
	for _, e := range res.Errors {
		s.log.WarnContext(ctx, "[SESSION-STATUS] sesi gagal diproses", "session_id", e.SessionID, "message", e.Message)
	}
	if res.Total() > 0 || len(res.Errors) > 0 {
		s.log.InfoContext(ctx, "[SESSION-STATUS] selesai",
			"ready", res.TransitionsToReady,
			"ongoing", res.TransitionsToOngoing,
			"completed", res.TransitionsToCompleted,
			"absent", res.TransitionsToAbsent,
			"errors", len(res.Errors),
			"elapsed", time.Since(start),
		)
	}
	return res
}
