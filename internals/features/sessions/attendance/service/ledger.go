package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"halaqahku_backend/internals/features/sessions/attendance/model"
	sessionmodel "halaqahku_backend/internals/features/sessions/lifecycle/model"

	"github.com/google/uuid"
)

var errNegativeDuration = errors.New("leave lebih awal dari join pasangannya")

type Ledger struct {
	store Store
	kinds KindResolver
	cache CacheInvalidator
	locks *keyedMutex
	log   *slog.Logger
}

func NewLedger(store Store, kinds KindResolver, cache CacheInvalidator, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		store: store,
		kinds: kinds,
		cache: cache,
		locks: newKeyedMutex(),
		log:   logger.With("component", "attendance_ledger"),
	}
}

// ResolveRole: teacher sesi → teacher, ada di roster → learner, selain itu supervisor.
func ResolveRole(s sessionmodel.Session, participantID uuid.UUID) model.ParticipantRole {
	if participantID == s.TeacherID() {
		return model.RoleTeacher
	}
	if slices.Contains(s.LearnerIDs(), participantID) {
		return model.RoleLearner
	}
	return model.RoleSupervisor
}

func (l *Ledger) kindOf(s sessionmodel.Session) sessionmodel.SessionKind {
	if l.kinds != nil {
		return l.kinds.SessionKind(s)
	}
	return s.Kind()
}

func lockKey(sessionID, participantID uuid.UUID) string {
	return sessionID.String() + ":" + participantID.String()
}

func (l *Ledger) validate(ctx context.Context, op string, s sessionmodel.Session, participantID uuid.UUID, ev Event) bool {
	switch {
	case s == nil:
		l.log.WarnContext(ctx, op+": session nil")
	case participantID == uuid.Nil:
		l.log.WarnContext(ctx, op+": participant kosong", "session_id", s.ID())
	case ev.Timestamp.IsZero():
		l.log.WarnContext(ctx, op+": timestamp kosong", "session_id", s.ID(), "participant_id", participantID, "event_id", ev.EventID)
	default:
		return true
	}
	return false
}

// RecordJoin menambah cycle join. Event duplikat (event_id sama) di-ack tanpa mutasi.
// Tidak pernah panic; kegagalan dicatat dan dikembalikan sebagai false.
func (l *Ledger) RecordJoin(ctx context.Context, s sessionmodel.Session, participantID uuid.UUID, ev Event) (ok bool) {
	defer l.recoverInto(ctx, "record join", &ok)
	if !l.validate(ctx, "record join", s, participantID, ev) {
		return false
	}
	sid := s.ID()

	unlock := l.locks.Lock(lockKey(sid, participantID))
	defer unlock()

	init := &model.SessionAttendanceModel{
		SessionAttendanceSessionID:     sid,
		SessionAttendanceParticipantID: participantID,
		SessionAttendanceRole:          ResolveRole(s, participantID),
		SessionAttendanceKind:          l.kindOf(s),
	}
	_ = init.SetCycles(nil)

	duplicate := false
	err := l.store.Mutate(ctx, sid, participantID, init, func(rec *model.SessionAttendanceModel) (bool, error) {
		cycles, err := rec.DecodeCycles()
		if err != nil {
			return false, fmt.Errorf("decode cycles: %w", err)
		}
		if hasEvent(cycles, model.CycleJoin, ev.EventID) {
			duplicate = true
			return false, nil
		}

		cycles = append(cycles, model.Cycle{
			Type:                 model.CycleJoin,
			Timestamp:            ev.Timestamp,
			EventID:              ev.EventID,
			ParticipantSessionID: ev.ParticipantSessionID,
		})
		if err := rec.SetCycles(cycles); err != nil {
			return false, fmt.Errorf("encode cycles: %w", err)
		}
		rec.SessionAttendanceJoinCount++
		if rec.SessionAttendanceFirstJoinTime == nil {
			t := ev.Timestamp
			rec.SessionAttendanceFirstJoinTime = &t
		}
		rec.SessionAttendanceTotalDurationMinutes = TotalDuration(cycles)
		rec.SessionAttendanceIsCalculated = false
		return true, nil
	})
	if err != nil {
		l.log.ErrorContext(ctx, "gagal mencatat join", "session_id", sid, "participant_id", participantID, "event_id", ev.EventID, "err", err)
		return false
	}
	if duplicate {
		l.log.InfoContext(ctx, "join duplikat diabaikan", "session_id", sid, "participant_id", participantID, "event_id", ev.EventID)
		return true
	}

	l.invalidate(ctx, sid, participantID)
	l.log.InfoContext(ctx, "join tercatat", "session_id", sid, "participant_id", participantID, "participant_session_id", ev.ParticipantSessionID)
	return true
}

// RecordLeave memasangkan leave dengan join terbuka lalu menghitung ulang total durasi.
// Leave tanpa record (belum pernah join) ditolak.
func (l *Ledger) RecordLeave(ctx context.Context, s sessionmodel.Session, participantID uuid.UUID, ev Event) (ok bool) {
	defer l.recoverInto(ctx, "record leave", &ok)
	if !l.validate(ctx, "record leave", s, participantID, ev) {
		return false
	}
	sid := s.ID()

	unlock := l.locks.Lock(lockKey(sid, participantID))
	defer unlock()

	duplicate := false
	var duration *int
	err := l.store.Mutate(ctx, sid, participantID, nil, func(rec *model.SessionAttendanceModel) (bool, error) {
		cycles, err := rec.DecodeCycles()
		if err != nil {
			return false, fmt.Errorf("decode cycles: %w", err)
		}
		if hasEvent(cycles, model.CycleLeave, ev.EventID) {
			duplicate = true
			return false, nil
		}

		leave := model.Cycle{
			Type:                 model.CycleLeave,
			Timestamp:            ev.Timestamp,
			EventID:              ev.EventID,
			ParticipantSessionID: ev.ParticipantSessionID,
		}

		idx, _, matched := pairLeave(cycles, openJoins(cycles), ev.ParticipantSessionID)
		switch {
		case idx < 0:
			l.log.WarnContext(ctx, "leave tanpa join terbuka, durasi tidak dihitung",
				"session_id", sid, "participant_id", participantID, "event_id", ev.EventID)
		default:
			join := cycles[idx]
			if !matched {
				l.log.WarnContext(ctx, "participant_session_id leave tidak cocok, dipasangkan ke join terbuka terakhir",
					"session_id", sid,
					"participant_id", participantID,
					"leave_participant_session_id", ev.ParticipantSessionID,
					"join_participant_session_id", join.ParticipantSessionID,
				)
			}
			d := ev.Timestamp.Sub(join.Timestamp)
			if d < 0 {
				return false, fmt.Errorf("%w: join=%s leave=%s", errNegativeDuration, join.Timestamp, ev.Timestamp)
			}
			m := floorMinutes(d)
			leave.DurationMinutes = &m
			duration = &m
		}

		cycles = append(cycles, leave)
		if err := rec.SetCycles(cycles); err != nil {
			return false, fmt.Errorf("encode cycles: %w", err)
		}
		rec.SessionAttendanceLeaveCount++
		t := ev.Timestamp
		rec.SessionAttendanceLastLeaveTime = &t
		rec.SessionAttendanceTotalDurationMinutes = TotalDuration(cycles)
		rec.SessionAttendanceIsCalculated = false
		return true, nil
	})
	switch {
	case errors.Is(err, ErrAttendanceNotFound):
		l.log.WarnContext(ctx, "leave tanpa join sebelumnya ditolak", "session_id", sid, "participant_id", participantID, "event_id", ev.EventID)
		return false
	case errors.Is(err, errNegativeDuration):
		l.log.WarnContext(ctx, "leave ditolak", "session_id", sid, "participant_id", participantID, "event_id", ev.EventID, "err", err)
		return false
	case err != nil:
		l.log.ErrorContext(ctx, "gagal mencatat leave", "session_id", sid, "participant_id", participantID, "event_id", ev.EventID, "err", err)
		return false
	}
	if duplicate {
		l.log.InfoContext(ctx, "leave duplikat diabaikan", "session_id", sid, "participant_id", participantID, "event_id", ev.EventID)
		return true
	}

	l.invalidate(ctx, sid, participantID)
	l.log.InfoContext(ctx, "leave tercatat", "session_id", sid, "participant_id", participantID, "duration_minutes", duration)
	return true
}

func (l *Ledger) recoverInto(ctx context.Context, op string, ok *bool) {
	if r := recover(); r != nil {
		l.log.ErrorContext(ctx, op+" panic", "panic", r)
		*ok = false
	}
}

// invalidate: mutasi sudah commit, kegagalan cache hanya dicatat.
func (l *Ledger) invalidate(ctx context.Context, sessionID, participantID uuid.UUID) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Invalidate(ctx, sessionID, participantID); err != nil {
		l.log.ErrorContext(ctx, "gagal invalidasi cache attendance", "session_id", sessionID, "participant_id", participantID, "err", err)
	}
}

/* ===== Read side ===== */

func (l *Ledger) Get(ctx context.Context, sessionID, participantID uuid.UUID) (*model.SessionAttendanceModel, error) {
	return l.store.Find(ctx, sessionID, participantID)
}

func (l *Ledger) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.SessionAttendanceModel, error) {
	return l.store.ListBySession(ctx, sessionID)
}

// HasParticipation: ada record dengan total durasi > 0.
func (l *Ledger) HasParticipation(ctx context.Context, sessionID, participantID uuid.UUID) (bool, error) {
	rec, err := l.store.Find(ctx, sessionID, participantID)
	if errors.Is(err, ErrAttendanceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return rec.SessionAttendanceTotalDurationMinutes > 0, nil
}

func (l *Ledger) AnyParticipantJoined(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	rows, err := l.store.ListBySession(ctx, sessionID)
	if err != nil {
		return false, err
	}
	for _, r := range rows {
		if r.SessionAttendanceJoinCount > 0 {
			return true, nil
		}
	}
	return false, nil
}
