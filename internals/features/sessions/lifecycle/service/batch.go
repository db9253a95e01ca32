package service

import (
	"context"
	"fmt"
	"log/slog"

	"halaqahku_backend/internals/features/sessions/lifecycle/model"

	"golang.org/x/sync/errgroup"
)

const (
	defaultBatchConcurrency = 8
	defaultBatchPageSize    = 500
)

type BatchError struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type BatchResult struct {
	TransitionsToReady     int          `json:"transitions_to_ready"`
	TransitionsToOngoing   int          `json:"transitions_to_ongoing"`
	TransitionsToCompleted int          `json:"transitions_to_completed"`
	TransitionsToAbsent    int          `json:"transitions_to_absent"`
	Errors                 []BatchError `json:"errors"`
	DryRun                 bool         `json:"dry_run"`
}

func (r BatchResult) Total() int {
	return r.TransitionsToReady + r.TransitionsToOngoing + r.TransitionsToCompleted + r.TransitionsToAbsent
}

// hasil per sesi, digabung setelah semua worker selesai
type itemOutcome struct {
	ready, ongoing, completed, absent bool
	err                               error
}

type BatchProcessor struct {
	sm          *StateMachine
	store       SessionStore
	concurrency int
	pageSize    int
	log         *slog.Logger
}

func NewBatchProcessor(sm *StateMachine, store SessionStore, concurrency int, logger *slog.Logger) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchProcessor{
		sm:          sm,
		store:       store,
		concurrency: concurrency,
		pageSize:    defaultBatchPageSize,
		log:         logger.With("component", "session_batch"),
	}
}

// WithPageSize mengganti jumlah baris per halaman working set.
func (p *BatchProcessor) WithPageSize(n int) *BatchProcessor {
	if n > 0 {
		p.pageSize = n
	}
	return p
}

// Run mengevaluasi & mengeksekusi transisi untuk setiap sesi.
// Kegagalan satu sesi (error maupun panic) hanya masuk ke Errors.
func (p *BatchProcessor) Run(ctx context.Context, sessions []model.Session) BatchResult {
	return p.run(ctx, sessions, false)
}

// Simulate = dry-run: hanya guard yang dievaluasi, tidak ada write/notifikasi.
func (p *BatchProcessor) Simulate(ctx context.Context, sessions []model.Session) BatchResult {
	return p.run(ctx, sessions, true)
}

// RunDue menelusuri seluruh working set (keyset scheduled_at, id) per halaman
// lalu menjalankan Run/Simulate untuk tiap halaman. Sesi aktif yang tidak lagi
// bisa bertransisi tidak menahan sesi setelahnya. f.Limit > 0 = batas total.
func (p *BatchProcessor) RunDue(ctx context.Context, f Filter, dryRun bool) (BatchResult, error) {
	total := BatchResult{Errors: []BatchError{}, DryRun: dryRun}
	if p.store == nil {
		return total, fmt.Errorf("session store belum di-set")
	}

	remaining := f.Limit
	page := f
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		page.Limit = p.pageSize
		if remaining > 0 && remaining < page.Limit {
			page.Limit = remaining
		}

		rows, err := p.store.ListActive(ctx, page)
		if err != nil {
			return total, fmt.Errorf("list sesi aktif: %w", err)
		}
		if len(rows) == 0 {
			return total, nil
		}

		sessions := make([]model.Session, 0, len(rows))
		for _, r := range rows {
			s, err := model.Adapt(r)
			if err != nil {
				total.Errors = append(total.Errors, BatchError{SessionID: r.TutoringSessionID.String(), Message: err.Error()})
				continue
			}
			sessions = append(sessions, s)
		}
		total.merge(p.run(ctx, sessions, dryRun))

		last := rows[len(rows)-1]
		page.After = &Cursor{ScheduledAt: last.TutoringSessionScheduledAt, ID: last.TutoringSessionID}
		if remaining > 0 {
			remaining -= len(rows)
			if remaining <= 0 {
				return total, nil
			}
		}
		if len(rows) < page.Limit {
			return total, nil
		}
	}
}

func (r *BatchResult) merge(o BatchResult) {
	r.TransitionsToReady += o.TransitionsToReady
	r.TransitionsToOngoing += o.TransitionsToOngoing
	r.TransitionsToCompleted += o.TransitionsToCompleted
	r.TransitionsToAbsent += o.TransitionsToAbsent
	r.Errors = append(r.Errors, o.Errors...)
}

func (p *BatchProcessor) run(ctx context.Context, sessions []model.Session, dryRun bool) BatchResult {
	outcomes := make([]itemOutcome, len(sessions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, s := range sessions {
		g.Go(func() error {
			outcomes[i] = p.processOne(gctx, s, dryRun)
			return nil
		})
	}
	_ = g.Wait()

	res := BatchResult{Errors: []BatchError{}, DryRun: dryRun}
	for i, o := range outcomes {
		if o.ready {
			res.TransitionsToReady++
		}
		if o.ongoing {
			res.TransitionsToOngoing++
		}
		if o.completed {
			res.TransitionsToCompleted++
		}
		if o.absent {
			res.TransitionsToAbsent++
		}
		if o.err != nil {
			res.Errors = append(res.Errors, BatchError{
				SessionID: sessionIDOf(sessions[i]),
				Message:   o.err.Error(),
			})
		}
	}

	p.log.InfoContext(ctx, "batch status sesi selesai",
		"dry_run", dryRun,
		"sessions", len(sessions),
		"ready", res.TransitionsToReady,
		"ongoing", res.TransitionsToOngoing,
		"completed", res.TransitionsToCompleted,
		"absent", res.TransitionsToAbsent,
		"errors", len(res.Errors),
	)
	return res
}

func sessionIDOf(s model.Session) (id string) {
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	if s == nil {
		return ""
	}
	return s.ID().String()
}

// processOne: urutan ready → ongoing → absent → auto-complete terhadap status terbaru.
func (p *BatchProcessor) processOne(ctx context.Context, s model.Session, dryRun bool) (out itemOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out.err = fmt.Errorf("panic: %v", r)
			p.log.ErrorContext(ctx, "panic saat memproses sesi", "session_id", sessionIDOf(s), "panic", r)
		}
	}()
	if s == nil {
		out.err = fmt.Errorf("session nil")
		return out
	}

	type step struct {
		should func(context.Context, model.Session) (bool, error)
		apply  func(context.Context, model.Session) (bool, error)
		hit    *bool
	}
	steps := []step{
		{p.sm.ShouldTransitionToReady, p.sm.TransitionToReady, &out.ready},
		{p.sm.ShouldTransitionToOngoing, p.sm.TransitionToOngoing, &out.ongoing},
		{p.sm.ShouldTransitionToAbsent, p.sm.TransitionToAbsent, &out.absent},
		{p.sm.ShouldAutoComplete, p.sm.TransitionToCompleted, &out.completed},
	}

	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			out.err = err
			return out
		}
		should, err := st.should(ctx, s)
		if err != nil {
			out.err = err
			return out
		}
		if !should {
			continue
		}
		if dryRun {
			*st.hit = true
			// status tidak berubah saat simulasi, langkah berikutnya tidak berantai
			return out
		}
		done, err := st.apply(ctx, s)
		if err != nil {
			out.err = err
			return out
		}
		*st.hit = done
	}
	return out
}
