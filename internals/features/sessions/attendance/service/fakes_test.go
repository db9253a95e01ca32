package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"halaqahku_backend/internals/features/sessions/attendance/model"
	sessionmodel "halaqahku_backend/internals/features/sessions/lifecycle/model"

	"github.com/google/uuid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var base = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func at(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }

/* ===== store ===== */

type memStore struct {
	mu      sync.Mutex
	rows    map[string]*model.SessionAttendanceModel
	mutates int
	findErr error
}

func newMemStore() *memStore {
	return &memStore{rows: map[string]*model.SessionAttendanceModel{}}
}

func (m *memStore) Mutate(_ context.Context, sessionID, participantID uuid.UUID, init *model.SessionAttendanceModel, fn MutateFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutates++

	key := lockKey(sessionID, participantID)
	row, ok := m.rows[key]
	if !ok {
		if init == nil {
			return ErrAttendanceNotFound
		}
		cp := *init
		cp.SessionAttendanceID = uuid.New()
		row = &cp
		m.rows[key] = row
	}

	work := *row
	changed, err := fn(&work)
	if err != nil {
		// rollback: record baru ikut batal
		if !ok {
			delete(m.rows, key)
		}
		return err
	}
	if changed {
		*row = work
	}
	return nil
}

func (m *memStore) Find(_ context.Context, sessionID, participantID uuid.UUID) (*model.SessionAttendanceModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	row, ok := m.rows[lockKey(sessionID, participantID)]
	if !ok {
		return nil, ErrAttendanceNotFound
	}
	cp := *row
	return &cp, nil
}

func (m *memStore) ListBySession(_ context.Context, sessionID uuid.UUID) ([]model.SessionAttendanceModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []model.SessionAttendanceModel
	for _, r := range m.rows {
		if r.SessionAttendanceSessionID == sessionID {
			out = append(out, *r)
		}
	}
	return out, nil
}

/* ===== cache ===== */

type recordingCache struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *recordingCache) Invalidate(_ context.Context, _, _ uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.err
}

func (r *recordingCache) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

/* ===== builders ===== */

type fixture struct {
	session sessionmodel.Session
	learner uuid.UUID
	store   *memStore
	cache   *recordingCache
	ledger  *Ledger
}

func newFixture(kind sessionmodel.SessionKind) *fixture {
	learner := uuid.New()
	rec := &sessionmodel.TutoringSessionModel{
		TutoringSessionID:              uuid.New(),
		TutoringSessionAcademyID:       uuid.New(),
		TutoringSessionKind:            kind,
		TutoringSessionStatus:          sessionmodel.SessionReady,
		TutoringSessionScheduledAt:     base,
		TutoringSessionDurationMinutes: 60,
		TutoringSessionTeacherID:       uuid.New(),
	}
	if kind == sessionmodel.SessionKindIndividual {
		rec.TutoringSessionStudentID = &learner
	} else {
		rec.TutoringSessionLearnerIDs = []string{learner.String()}
	}
	s, err := sessionmodel.Adapt(rec)
	if err != nil {
		panic(err)
	}
	f := &fixture{session: s, learner: learner, store: newMemStore(), cache: &recordingCache{}}
	f.ledger = NewLedger(f.store, nil, f.cache, discardLogger())
	return f
}

func (f *fixture) record(t interface{ Fatalf(string, ...any) }, participantID uuid.UUID) *model.SessionAttendanceModel {
	rec, err := f.store.Find(context.Background(), f.session.ID(), participantID)
	if err != nil {
		t.Fatalf("record %s: %v", participantID, err)
	}
	return rec
}

func ev(ts time.Time, eventID, psid string) Event {
	return Event{Timestamp: ts, EventID: eventID, ParticipantSessionID: psid}
}

var errBoom = errors.New("boom")
