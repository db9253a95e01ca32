package service

import (
	"context"
	"fmt"
	"log/slog"

	"halaqahku_backend/internals/features/sessions/lifecycle/model"

	"github.com/coder/quartz"
)

// allowedFrom: status asal yang sah untuk setiap status tujuan.
var allowedFrom = map[model.SessionStatus][]model.SessionStatus{
	model.SessionReady:     {model.SessionScheduled},
	model.SessionOngoing:   {model.SessionReady},
	model.SessionCompleted: {model.SessionReady, model.SessionOngoing},
	model.SessionCancelled: {model.SessionScheduled, model.SessionReady},
	model.SessionAbsent:    {model.SessionReady},
}

// CanTransition melaporkan apakah edge from→to ada di graph lifecycle.
func CanTransition(from, to model.SessionStatus) bool {
	for _, s := range allowedFrom[to] {
		if s == from {
			return true
		}
	}
	return false
}

type StateMachine struct {
	store      SessionStore
	settings   SettingsProvider
	notifier   NotificationSink
	attendance ParticipationReader
	clock      quartz.Clock
	log        *slog.Logger
}

func NewStateMachine(
	store SessionStore,
	settings SettingsProvider,
	notifier NotificationSink,
	attendance ParticipationReader,
	clock quartz.Clock,
	logger *slog.Logger,
) *StateMachine {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StateMachine{
		store:      store,
		settings:   settings,
		notifier:   notifier,
		attendance: attendance,
		clock:      clock,
		log:        logger.With("component", "session_state_machine"),
	}
}

// apply menulis status secara compare-and-swap terhadap status yang diamati
// saat guard dicek. Nol baris = baris sudah berubah oleh pemanggil lain,
// false tanpa error dan tanpa side effect.
func (m *StateMachine) apply(ctx context.Context, s model.Session, to model.SessionStatus, fields StatusFields) (bool, error) {
	from := s.Status()
	ok, err := m.store.CompareAndSetStatus(ctx, s.ID(), []model.SessionStatus{from}, to, fields)
	if err != nil {
		return false, fmt.Errorf("transisi %s -> %s session %s: %w", from, to, s.ID(), err)
	}
	if !ok {
		m.log.InfoContext(ctx, "transisi sudah diterapkan proses lain, skip",
			"session_id", s.ID(), "observed_status", from, "target_status", to)
		return false, nil
	}

	rec := s.Record()
	fields.applyTo(rec)
	rec.TutoringSessionStatus = to
	return true, nil
}

func (m *StateMachine) rejectInvalid(ctx context.Context, s model.Session, to model.SessionStatus) bool {
	if CanTransition(s.Status(), to) {
		return false
	}
	m.log.WarnContext(ctx, "transisi ditolak: status sekarang tidak valid",
		"session_id", s.ID(), "current_status", s.Status(), "target_status", to)
	return true
}

// notify: kegagalan notifikasi hanya dicatat, status yang sudah tersimpan tetap.
func (m *StateMachine) notify(ctx context.Context, s model.Session, event string) {
	if m.notifier == nil {
		return
	}
	nc := NotificationContext{
		Event:      event,
		Kind:       m.settings.SessionKind(s),
		OccurredAt: m.clock.Now(),
	}
	defer func() {
		if r := recover(); r != nil {
			m.log.ErrorContext(ctx, "notifikasi panic", "session_id", s.ID(), "event", event, "panic", r)
		}
	}()

	var err error
	switch event {
	case NotifyReady:
		err = m.notifier.SendReady(ctx, s, nc)
	case NotifyStarted:
		err = m.notifier.SendStarted(ctx, s, nc)
	case NotifyCompleted:
		err = m.notifier.SendCompleted(ctx, s, nc)
	case NotifyAbsent:
		err = m.notifier.SendAbsent(ctx, s, nc)
	default:
		err = fmt.Errorf("event notifikasi tidak dikenal: %s", event)
	}
	if err != nil {
		m.log.ErrorContext(ctx, "gagal kirim notifikasi sesi", "session_id", s.ID(), "event", event, "err", err)
	}
}
