package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Session adalah kapabilitas yang dibutuhkan state machine & ledger.
// Tiga adapter (individual, circle, course) membungkus TutoringSessionModel.
type Session interface {
	ID() uuid.UUID
	AcademyID() uuid.UUID
	Kind() SessionKind
	Status() SessionStatus
	ScheduledAt() time.Time
	DurationMinutes() int
	StartedAt() *time.Time
	TeacherID() uuid.UUID
	LearnerIDs() []uuid.UUID
	Title() string
	Record() *TutoringSessionModel
}

type IndividualSession struct{ *TutoringSessionModel }

func (IndividualSession) Kind() SessionKind { return SessionKindIndividual }

func (s IndividualSession) LearnerIDs() []uuid.UUID {
	if s.TutoringSessionStudentID == nil || *s.TutoringSessionStudentID == uuid.Nil {
		return nil
	}
	return []uuid.UUID{*s.TutoringSessionStudentID}
}

type CircleSession struct{ *TutoringSessionModel }

func (CircleSession) Kind() SessionKind { return SessionKindCircle }

func (s CircleSession) LearnerIDs() []uuid.UUID { return parseRoster(s.TutoringSessionLearnerIDs) }

type CourseSession struct{ *TutoringSessionModel }

func (CourseSession) Kind() SessionKind { return SessionKindCourse }

func (s CourseSession) LearnerIDs() []uuid.UUID { return parseRoster(s.TutoringSessionLearnerIDs) }

// Adapt memilih adapter sesuai kolom kind.
func Adapt(m *TutoringSessionModel) (Session, error) {
	if m == nil {
		return nil, fmt.Errorf("session kosong")
	}
	switch SessionKind(strings.ToLower(strings.TrimSpace(string(m.TutoringSessionKind)))) {
	case SessionKindIndividual:
		return IndividualSession{m}, nil
	case SessionKindCircle:
		return CircleSession{m}, nil
	case SessionKindCourse:
		return CourseSession{m}, nil
	default:
		return nil, fmt.Errorf("session %s: kind tidak dikenal %q", m.TutoringSessionID, m.TutoringSessionKind)
	}
}

// roster disimpan sebagai text[]; entri invalid di-skip
func parseRoster(raw []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(strings.TrimSpace(r))
		if err != nil || id == uuid.Nil {
			continue
		}
		out = append(out, id)
	}
	return out
}
