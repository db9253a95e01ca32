package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"halaqahku_backend/internals/features/sessions/lifecycle/model"
	lsvc "halaqahku_backend/internals/features/sessions/lifecycle/service"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

// SessionEvent = payload yang dikonsumsi service notifikasi (push/email/WA).
type SessionEvent struct {
	EventType   string            `json:"event_type"`
	SessionID   uuid.UUID         `json:"session_id"`
	AcademyID   uuid.UUID         `json:"academy_id"`
	Kind        model.SessionKind `json:"kind"`
	Status      string            `json:"status"`
	Title       string            `json:"title,omitempty"`
	TeacherID   uuid.UUID         `json:"teacher_id"`
	LearnerIDs  []uuid.UUID       `json:"learner_ids"`
	ScheduledAt time.Time         `json:"scheduled_at"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

func eventType(event string) string { return "tutoring_session." + event }

/* ===== Kafka sink ===== */

type EventSink struct {
	pub Publisher
}

func NewEventSink(pub Publisher) *EventSink { return &EventSink{pub: pub} }

var _ lsvc.NotificationSink = (*EventSink)(nil)

func (k *EventSink) publish(ctx context.Context, s model.Session, nc lsvc.NotificationContext) error {
	learners := s.LearnerIDs()
	if learners == nil {
		learners = []uuid.UUID{}
	}
	ev := SessionEvent{
		EventType:   eventType(nc.Event),
		SessionID:   s.ID(),
		AcademyID:   s.AcademyID(),
		Kind:        nc.Kind,
		Status:      string(s.Status()),
		Title:       s.Title(),
		TeacherID:   s.TeacherID(),
		LearnerIDs:  learners,
		ScheduledAt: s.ScheduledAt(),
		OccurredAt:  nc.OccurredAt,
	}
	b, err := sonic.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", ev.EventType, err)
	}
	// key = session id: semua event satu sesi masuk partisi yang sama (urutan terjaga)
	return k.pub.Publish(ctx, ev.EventType, b, s.ID().String())
}

func (k *EventSink) SendReady(ctx context.Context, s model.Session, nc lsvc.NotificationContext) error {
	return k.publish(ctx, s, nc)
}

func (k *EventSink) SendStarted(ctx context.Context, s model.Session, nc lsvc.NotificationContext) error {
	return k.publish(ctx, s, nc)
}

func (k *EventSink) SendCompleted(ctx context.Context, s model.Session, nc lsvc.NotificationContext) error {
	return k.publish(ctx, s, nc)
}

func (k *EventSink) SendAbsent(ctx context.Context, s model.Session, nc lsvc.NotificationContext) error {
	return k.publish(ctx, s, nc)
}

/* ===== Log sink (tanpa broker) ===== */

type LogSink struct {
	Logger *slog.Logger
}

var _ lsvc.NotificationSink = LogSink{}

func (l LogSink) log(ctx context.Context, s model.Session, nc lsvc.NotificationContext) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "notifikasi sesi", "event", eventType(nc.Event), "session_id", s.ID(), "kind", nc.Kind)
	return nil
}

func (l LogSink) SendReady(ctx context.Context, s model.Session, nc lsvc.NotificationContext) error {
	return l.log(ctx, s, nc)
}

func (l LogSink) SendStarted(ctx context.Context, s model.Session, nc lsvc.NotificationContext) error {
	return l.log(ctx, s, nc)
}

func (l LogSink) SendCompleted(ctx context.Context, s model.Session, nc lsvc.NotificationContext) error {
	return l.log(ctx, s, nc)
}

func (l LogSink) SendAbsent(ctx context.Context, s model.Session, nc lsvc.NotificationContext) error {
	return l.log(ctx, s, nc)
}
