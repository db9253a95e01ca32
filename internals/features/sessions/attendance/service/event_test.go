package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTimestamp(t *testing.T) {
	t.Parallel()

	want := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	jakarta := time.FixedZone("WIB", 7*3600)

	ok := []struct {
		name string
		in   any
	}{
		{"time", want},
		{"time other zone", want.In(jakarta)},
		{"pointer", &want},
		{"rfc3339", "2026-03-02T10:00:00Z"},
		{"rfc3339 offset", "2026-03-02T17:00:00+07:00"},
		{"fractional", "2026-03-02T10:00:00.000000Z"},
		{"no zone", "2026-03-02T10:00:00"},
		{"space", " 2026-03-02 10:00:00 "},
		{"unix string", "1772445600"},
		{"unix int64", int64(1772445600)},
		{"unix int", 1772445600},
		{"unix float", float64(1772445600)},
		{"json number", json.Number("1772445600")},
	}
	for _, tc := range ok {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeTimestamp(tc.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(want), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	var nilTime *time.Time
	for _, bad := range []any{nil, "", "kemarin", time.Time{}, nilTime, true} {
		_, err := NormalizeTimestamp(bad)
		assert.Error(t, err, "%#v", bad)
	}
}

func TestNewEvent_TrimsIdentifiers(t *testing.T) {
	t.Parallel()

	e, err := NewEvent("2026-03-02T10:00:00Z", "  evt-1 ", " ps-9\n")
	require.NoError(t, err)
	assert.Equal(t, "evt-1", e.EventID)
	assert.Equal(t, "ps-9", e.ParticipantSessionID)

	_, err = NewEvent(nil, "evt-1", "")
	assert.Error(t, err)
}
