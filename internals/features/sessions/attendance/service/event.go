package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Event = payload join/leave dari sumber signaling (at-least-once).
type Event struct {
	Timestamp            time.Time
	EventID              string
	ParticipantSessionID string
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
}

// NormalizeTimestamp menerima time.Time, *time.Time, string ISO-8601, atau unix detik.
// String tanpa zona dianggap UTC.
func NormalizeTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, fmt.Errorf("timestamp kosong")
		}
		return t.UTC(), nil
	case *time.Time:
		if t == nil {
			return time.Time{}, fmt.Errorf("timestamp kosong")
		}
		return NormalizeTimestamp(*t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, fmt.Errorf("timestamp kosong")
		}
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC(), nil
			}
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.Unix(n, 0).UTC(), nil
		}
		return time.Time{}, fmt.Errorf("format timestamp tidak dikenal: %q", s)
	case int64:
		return time.Unix(t, 0).UTC(), nil
	case int:
		return time.Unix(int64(t), 0).UTC(), nil
	case float64:
		return time.Unix(int64(t), 0).UTC(), nil
	case json.Number:
		return NormalizeTimestamp(t.String())
	case nil:
		return time.Time{}, fmt.Errorf("timestamp kosong")
	default:
		return time.Time{}, fmt.Errorf("tipe timestamp tidak didukung: %T", v)
	}
}

func NewEvent(ts any, eventID, participantSessionID string) (Event, error) {
	t, err := NormalizeTimestamp(ts)
	if err != nil {
		return Event{}, err
	}
	return Event{
		Timestamp:            t,
		EventID:              strings.TrimSpace(eventID),
		ParticipantSessionID: strings.TrimSpace(participantSessionID),
	}, nil
}
