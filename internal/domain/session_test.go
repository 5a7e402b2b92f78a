package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.Local)

func TestNewSession_Valid(t *testing.T) {
	s, err := NewSession(1, " Sato ", "Packing", "first batch", testNow)
	require.NoError(t, err)
	assert.Equal(t, "Sato", s.Worker)
	assert.Equal(t, "Packing", s.Task)
	assert.Equal(t, "first batch", s.Memo)
	assert.Equal(t, testNow, s.InitialStartTime)
	assert.Equal(t, testNow, s.CurrentStartTime)
	assert.Equal(t, time.Duration(0), s.TotalElapsed)
	assert.Equal(t, SessionActive, s.Status)
}

func TestNewSession_MissingWorker(t *testing.T) {
	_, err := NewSession(1, "  ", "Packing", "", testNow)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "worker")
}

func TestNewSession_MissingTask(t *testing.T) {
	_, err := NewSession(1, "Sato", "", "", testNow)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "task", ve.Field)
}

func TestHold_FoldsPendingInterval(t *testing.T) {
	s, err := NewSession(1, "Sato", "Packing", "", testNow)
	require.NoError(t, err)

	require.True(t, s.Hold(testNow.Add(90*time.Second)))
	assert.Equal(t, 90*time.Second, s.TotalElapsed)
	assert.Equal(t, SessionHolding, s.Status)
}

func TestHold_AlreadyHolding(t *testing.T) {
	s, _ := NewSession(1, "Sato", "Packing", "", testNow)
	require.True(t, s.Hold(testNow.Add(time.Minute)))

	assert.False(t, s.Hold(testNow.Add(5*time.Minute)))
	assert.Equal(t, time.Minute, s.TotalElapsed, "second hold must not accumulate")
}

func TestResume_AlreadyActive(t *testing.T) {
	s, _ := NewSession(1, "Sato", "Packing", "", testNow)
	before := *s

	assert.False(t, s.Resume(testNow.Add(time.Minute)))
	assert.Equal(t, before, *s)
}

func TestResume_ResetsCurrentStart(t *testing.T) {
	s, _ := NewSession(1, "Sato", "Packing", "", testNow)
	s.Hold(testNow.Add(time.Minute))

	resumeAt := testNow.Add(3 * time.Minute)
	require.True(t, s.Resume(resumeAt))
	assert.Equal(t, resumeAt, s.CurrentStartTime)
	assert.Equal(t, testNow, s.InitialStartTime, "initial start is immutable")
	assert.Equal(t, SessionActive, s.Status)
}

func TestElapsedAt_IgnoresHeldIntervals(t *testing.T) {
	s, _ := NewSession(1, "Sato", "Packing", "", testNow)
	s.Hold(testNow.Add(2 * time.Minute))

	assert.Equal(t, 2*time.Minute, s.ElapsedAt(testNow.Add(time.Hour)))

	s.Resume(testNow.Add(10 * time.Minute))
	assert.Equal(t, 3*time.Minute, s.ElapsedAt(testNow.Add(11*time.Minute)))
}

func TestPendingElapsed_ClockMovedBackwards(t *testing.T) {
	s, _ := NewSession(1, "Sato", "Packing", "", testNow)

	assert.Equal(t, time.Duration(0), s.PendingElapsed(testNow.Add(-time.Minute)))
	require.True(t, s.Hold(testNow.Add(-time.Minute)))
	assert.Equal(t, time.Duration(0), s.TotalElapsed, "total must never decrease")
}
