package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"halaqahku_backend/internals/features/sessions/lifecycle/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldTransitionToReady(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		offset time.Duration // scheduled_at - now
		status model.SessionStatus
		want   bool
	}{
		{"far future beyond lookahead", 25 * time.Hour, model.SessionScheduled, false},
		{"future outside preparation", 11 * time.Minute, model.SessionScheduled, false},
		{"exactly preparation bound", 10 * time.Minute, model.SessionScheduled, true},
		{"inside preparation", 3 * time.Minute, model.SessionScheduled, true},
		{"already started", -30 * time.Minute, model.SessionScheduled, true},
		{"stale past bound", -25 * time.Hour, model.SessionScheduled, false},
		{"not scheduled", 3 * time.Minute, model.SessionReady, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newSession(model.SessionKindIndividual, tt.status, baseNow.Add(tt.offset))
			h := newHarness(t, s)

			got, err := h.sm.ShouldTransitionToReady(context.Background(), s)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShouldTransitionToReady_IndependentBounds(t *testing.T) {
	t.Parallel()

	s := newSession(model.SessionKindIndividual, model.SessionScheduled, baseNow.Add(-10*time.Hour))
	h := newHarness(t, s)
	h.settings.th.MaxPastHours = 6

	got, err := h.sm.ShouldTransitionToReady(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, got, "past bound is configured separately from the future bound")

	h.settings.th.MaxPastHours = 12
	got, err = h.sm.ShouldTransitionToReady(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestShouldTransitionToReady_SettingsError(t *testing.T) {
	t.Parallel()

	s := newSession(model.SessionKindIndividual, model.SessionScheduled, baseNow)
	h := newHarness(t, s)
	h.settings.failFor[s.ID()] = errors.New("settings table locked")

	_, err := h.sm.ShouldTransitionToReady(context.Background(), s)
	require.Error(t, err)
}

func TestShouldTransitionToOngoing(t *testing.T) {
	t.Parallel()

	s := newSession(model.SessionKindCircle, model.SessionReady, baseNow.Add(5*time.Minute))
	h := newHarness(t, s)
	ctx := context.Background()

	got, err := h.sm.ShouldTransitionToOngoing(ctx, s)
	require.NoError(t, err)
	assert.False(t, got, "nobody joined yet")

	h.part.set(s.ID(), s.TeacherID())
	got, err = h.sm.ShouldTransitionToOngoing(ctx, s)
	require.NoError(t, err)
	assert.True(t, got)

	late := newSession(model.SessionKindCircle, model.SessionReady, baseNow.Add(-3*time.Hour))
	h.part.set(late.ID(), late.TeacherID())
	got, err = h.sm.ShouldTransitionToOngoing(ctx, late)
	require.NoError(t, err)
	assert.False(t, got, "past maxFutureHoursOngoing")
}

func TestShouldTransitionToAbsent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("individual past grace with no participation", func(t *testing.T) {
		t.Parallel()
		s := newSession(model.SessionKindIndividual, model.SessionReady, baseNow.Add(-20*time.Minute))
		h := newHarness(t, s)

		got, err := h.sm.ShouldTransitionToAbsent(ctx, s)
		require.NoError(t, err)
		assert.True(t, got)

		h.part.set(s.ID(), s.LearnerIDs()[0])
		got, err = h.sm.ShouldTransitionToAbsent(ctx, s)
		require.NoError(t, err)
		assert.False(t, got, "any positive duration blocks absence")
	})

	t.Run("inside grace period", func(t *testing.T) {
		t.Parallel()
		s := newSession(model.SessionKindIndividual, model.SessionReady, baseNow.Add(-10*time.Minute))
		h := newHarness(t, s)

		got, err := h.sm.ShouldTransitionToAbsent(ctx, s)
		require.NoError(t, err)
		assert.False(t, got)
	})

	t.Run("teacher participation does not count for learner", func(t *testing.T) {
		t.Parallel()
		s := newSession(model.SessionKindIndividual, model.SessionReady, baseNow.Add(-20*time.Minute))
		h := newHarness(t, s)
		h.part.set(s.ID(), s.TeacherID())

		got, err := h.sm.ShouldTransitionToAbsent(ctx, s)
		require.NoError(t, err)
		assert.True(t, got)
	})

	t.Run("group sessions never", func(t *testing.T) {
		t.Parallel()
		s := newSession(model.SessionKindCourse, model.SessionReady, baseNow.Add(-2*time.Hour))
		h := newHarness(t, s)

		got, err := h.sm.ShouldTransitionToAbsent(ctx, s)
		require.NoError(t, err)
		assert.False(t, got)
	})

	t.Run("individual without learner", func(t *testing.T) {
		t.Parallel()
		s := newSession(model.SessionKindIndividual, model.SessionReady, baseNow.Add(-2*time.Hour))
		s.Record().TutoringSessionStudentID = nil
		h := newHarness(t, s)

		got, err := h.sm.ShouldTransitionToAbsent(ctx, s)
		require.NoError(t, err)
		assert.False(t, got)
	})

	t.Run("ledger error", func(t *testing.T) {
		t.Parallel()
		s := newSession(model.SessionKindIndividual, model.SessionReady, baseNow.Add(-2*time.Hour))
		h := newHarness(t, s)
		h.part.err = errStoreDown

		_, err := h.sm.ShouldTransitionToAbsent(ctx, s)
		require.ErrorIs(t, err, errStoreDown)
	})
}

func TestShouldAutoComplete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status model.SessionStatus
		offset time.Duration // now - scheduled_at
		want   bool
	}{
		{"ongoing before duration+buffer", model.SessionOngoing, 64 * time.Minute, false},
		{"ongoing exactly at bound", model.SessionOngoing, 65 * time.Minute, false},
		{"ongoing past bound", model.SessionOngoing, 66 * time.Minute, true},
		{"scheduled far past", model.SessionScheduled, 5 * time.Hour, false},
		{"ready far past", model.SessionReady, 5 * time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newSession(model.SessionKindIndividual, tt.status, baseNow.Add(-tt.offset))
			h := newHarness(t, s)

			got, err := h.sm.ShouldAutoComplete(context.Background(), s)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWindowsFollowClock(t *testing.T) {
	t.Parallel()

	s := newSession(model.SessionKindIndividual, model.SessionScheduled, baseNow.Add(30*time.Minute))
	h := newHarness(t, s)
	ctx := context.Background()

	got, err := h.sm.ShouldTransitionToReady(ctx, s)
	require.NoError(t, err)
	assert.False(t, got)

	h.clock.Advance(21 * time.Minute)
	got, err = h.sm.ShouldTransitionToReady(ctx, s)
	require.NoError(t, err)
	assert.True(t, got)
}
