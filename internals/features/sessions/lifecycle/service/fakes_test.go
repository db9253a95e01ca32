package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"halaqahku_backend/internals/features/sessions/lifecycle/model"

	"github.com/google/uuid"
)

var errStoreDown = errors.New("store unavailable")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testThresholds() Thresholds {
	return Thresholds{
		PreparationMinutes:    10,
		MaxFutureHours:        24,
		MaxPastHours:          24,
		EarlyJoinMinutes:      15,
		MaxFutureHoursOngoing: 2,
		GracePeriodMinutes:    15,
		BufferMinutes:         5,
	}
}

/* ===== store ===== */

type fakeStore struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]*model.TutoringSessionModel
	err       error
	casCalls  int
	listCalls int
}

func newFakeStore(sessions ...model.Session) *fakeStore {
	f := &fakeStore{rows: map[uuid.UUID]*model.TutoringSessionModel{}}
	for _, s := range sessions {
		cp := *s.Record()
		f.rows[s.ID()] = &cp
	}
	return f
}

func (f *fakeStore) CompareAndSetStatus(_ context.Context, id uuid.UUID, from []model.SessionStatus, to model.SessionStatus, fields StatusFields) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.casCalls++
	if f.err != nil {
		return false, f.err
	}
	row, ok := f.rows[id]
	if !ok || !slices.Contains(from, row.TutoringSessionStatus) {
		return false, nil
	}
	fields.applyTo(row)
	row.TutoringSessionStatus = to
	return true, nil
}

func (f *fakeStore) FindByID(_ context.Context, id uuid.UUID) (*model.TutoringSessionModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeStore) ListActive(_ context.Context, flt Filter) ([]*model.TutoringSessionModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.TutoringSessionModel
	for _, row := range f.rows {
		if !slices.Contains(model.ActiveStatuses, row.TutoringSessionStatus) {
			continue
		}
		if flt.AcademyID != nil && row.TutoringSessionAcademyID != *flt.AcademyID {
			continue
		}
		if flt.Kind != nil && row.TutoringSessionKind != *flt.Kind {
			continue
		}
		if flt.After != nil && compareKey(row, flt.After.ScheduledAt, flt.After.ID) <= 0 {
			continue
		}
		cp := *row
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *model.TutoringSessionModel) int {
		return compareKey(a, b.TutoringSessionScheduledAt, b.TutoringSessionID)
	})
	if flt.Limit > 0 && len(out) > flt.Limit {
		out = out[:flt.Limit]
	}
	return out, nil
}

func compareKey(row *model.TutoringSessionModel, at time.Time, id uuid.UUID) int {
	if c := row.TutoringSessionScheduledAt.Compare(at); c != 0 {
		return c
	}
	return bytes.Compare(row.TutoringSessionID[:], id[:])
}

func (f *fakeStore) status(id uuid.UUID) model.SessionStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[id].TutoringSessionStatus
}

/* ===== settings ===== */

type fakeSettings struct {
	th       Thresholds
	failFor  map[uuid.UUID]error
	panicFor map[uuid.UUID]bool
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{th: testThresholds(), failFor: map[uuid.UUID]error{}, panicFor: map[uuid.UUID]bool{}}
}

func (f *fakeSettings) SessionKind(s model.Session) model.SessionKind { return s.Kind() }

func (f *fakeSettings) IsIndividual(s model.Session) bool {
	return s.Kind() == model.SessionKindIndividual
}

func (f *fakeSettings) Thresholds(_ context.Context, s model.Session) (Thresholds, error) {
	if f.panicFor[s.ID()] {
		panic("settings exploded")
	}
	if err := f.failFor[s.ID()]; err != nil {
		return Thresholds{}, err
	}
	return f.th, nil
}

/* ===== notification sink ===== */

type sent struct {
	event     string
	sessionID uuid.UUID
}

type recordingSink struct {
	mu     sync.Mutex
	events []sent
	err    error
	panics bool
}

func (r *recordingSink) record(event string, s model.Session) error {
	if r.panics {
		panic("sink exploded")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, sent{event: event, sessionID: s.ID()})
	return r.err
}

func (r *recordingSink) SendReady(_ context.Context, s model.Session, _ NotificationContext) error {
	return r.record(NotifyReady, s)
}

func (r *recordingSink) SendStarted(_ context.Context, s model.Session, _ NotificationContext) error {
	return r.record(NotifyStarted, s)
}

func (r *recordingSink) SendCompleted(_ context.Context, s model.Session, _ NotificationContext) error {
	return r.record(NotifyCompleted, s)
}

func (r *recordingSink) SendAbsent(_ context.Context, s model.Session, _ NotificationContext) error {
	return r.record(NotifyAbsent, s)
}

func (r *recordingSink) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.event == event {
			n++
		}
	}
	return n
}

func (r *recordingSink) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

/* ===== participation ===== */

type fakeParticipation struct {
	mu           sync.Mutex
	participated map[string]bool
	joined       map[uuid.UUID]bool
	err          error
}

func newFakeParticipation() *fakeParticipation {
	return &fakeParticipation{participated: map[string]bool{}, joined: map[uuid.UUID]bool{}}
}

func (f *fakeParticipation) set(sessionID, participantID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.participated[sessionID.String()+participantID.String()] = true
	f.joined[sessionID] = true
}

func (f *fakeParticipation) HasParticipation(_ context.Context, sessionID, participantID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	return f.participated[sessionID.String()+participantID.String()], nil
}

func (f *fakeParticipation) AnyParticipantJoined(_ context.Context, sessionID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	return f.joined[sessionID], nil
}

/* ===== builders ===== */

func newSession(kind model.SessionKind, status model.SessionStatus, scheduledAt time.Time) model.Session {
	student := uuid.New()
	m := &model.TutoringSessionModel{
		TutoringSessionID:              uuid.New(),
		TutoringSessionAcademyID:       uuid.New(),
		TutoringSessionKind:            kind,
		TutoringSessionStatus:          status,
		TutoringSessionScheduledAt:     scheduledAt,
		TutoringSessionDurationMinutes: 60,
		TutoringSessionTeacherID:       uuid.New(),
	}
	if kind == model.SessionKindIndividual {
		m.TutoringSessionStudentID = &student
	} else {
		m.TutoringSessionLearnerIDs = []string{student.String(), uuid.NewString()}
	}
	s, err := model.Adapt(m)
	if err != nil {
		panic(err)
	}
	return s
}
