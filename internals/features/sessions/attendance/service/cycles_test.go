package service

import (
	"testing"
	"time"

	"halaqahku_backend/internals/features/sessions/attendance/model"

	"github.com/stretchr/testify/assert"
)

func join(min int, psid string) model.Cycle {
	return model.Cycle{Type: model.CycleJoin, Timestamp: at(min), ParticipantSessionID: psid}
}

func leave(min int, psid string) model.Cycle {
	return model.Cycle{Type: model.CycleLeave, Timestamp: at(min), ParticipantSessionID: psid}
}

func TestFloorMinutes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, floorMinutes(59*time.Second))
	assert.Equal(t, 1, floorMinutes(time.Minute))
	assert.Equal(t, 20, floorMinutes(20*time.Minute+59*time.Second))
}

func TestTotalDuration(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		cycles []model.Cycle
		want   int
	}{
		{"empty", nil, 0},
		{"join only", []model.Cycle{join(0, "a")}, 0},
		{"leave only", []model.Cycle{leave(10, "a")}, 0},
		{"single pair", []model.Cycle{join(0, "a"), leave(20, "a")}, 20},
		{"two pairs", []model.Cycle{join(0, "a"), leave(10, "a"), join(20, "b"), leave(40, "b")}, 30},
		{"interleaved by id", []model.Cycle{join(0, "a"), join(5, "b"), leave(10, "a"), leave(30, "b")}, 35},
		{"unknown id falls back to latest open", []model.Cycle{join(0, "a"), join(5, "b"), leave(15, "x")}, 10},
		{"negative pair ignored", []model.Cycle{join(10, "a"), leave(5, "a")}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TotalDuration(tc.cycles))
		})
	}
}

func TestOpenJoins(t *testing.T) {
	t.Parallel()

	cycles := []model.Cycle{join(0, "a"), join(5, "b"), leave(10, "a")}
	assert.Equal(t, []int{1}, openJoins(cycles))

	assert.Empty(t, openJoins([]model.Cycle{join(0, "a"), leave(1, "a")}))
}

func TestPairLeave(t *testing.T) {
	t.Parallel()

	cycles := []model.Cycle{join(0, "a"), join(5, "b"), join(7, "a")}
	open := []int{0, 1, 2}

	idx, pos, matched := pairLeave(cycles, open, "a")
	assert.Equal(t, 2, idx, "join terakhir dengan id sama")
	assert.Equal(t, 2, pos)
	assert.True(t, matched)

	idx, _, matched = pairLeave(cycles, open, "zzz")
	assert.Equal(t, 2, idx)
	assert.False(t, matched)

	idx, _, matched = pairLeave(cycles, open, "")
	assert.Equal(t, 2, idx)
	assert.False(t, matched)

	idx, pos, _ = pairLeave(cycles, nil, "a")
	assert.Equal(t, -1, idx)
	assert.Equal(t, -1, pos)
}

func TestHasEvent(t *testing.T) {
	t.Parallel()

	cycles := []model.Cycle{{Type: model.CycleJoin, EventID: "e1"}}
	assert.True(t, hasEvent(cycles, model.CycleJoin, "e1"))
	assert.False(t, hasEvent(cycles, model.CycleLeave, "e1"))
	assert.False(t, hasEvent(cycles, model.CycleJoin, ""))
}
