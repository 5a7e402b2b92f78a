package ledger

import (
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 15, 9, 0, 0, 0, time.Local)

func at(d time.Duration) time.Time { return t0.Add(d) }

func newTestLedger() *Ledger { return New(domain.DefaultLayouts) }

func TestStart_AppendsActiveSession(t *testing.T) {
	l := newTestLedger()

	s, err := l.Start("Sato", "Packing", "memo", t0)
	require.NoError(t, err)
	assert.Equal(t, t0.UnixMilli(), s.ID)
	assert.Equal(t, domain.SessionActive, s.Status)

	require.Len(t, l.Sessions(), 1)
	assert.Equal(t, s, l.Sessions()[0])
}

func TestStart_ValidationLeavesStateUnchanged(t *testing.T) {
	l := newTestLedger()
	_, err := l.Start("Sato", "Packing", "", t0)
	require.NoError(t, err)
	before := l.State()

	_, err = l.Start("", "Packing", "", at(time.Second))
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	_, err = l.Start("Sato", " ", "", at(time.Second))
	require.Error(t, err)

	assert.Equal(t, before, l.State())
}

func TestStart_DoesNotHoldOtherSessions(t *testing.T) {
	l := newTestLedger()
	a, _ := l.Start("Sato", "Packing", "", t0)
	b, _ := l.Start("Suzuki", "Sorting", "", at(time.Minute))

	active := l.Active()
	require.Len(t, active, 2)
	assert.Equal(t, a.ID, active[0].ID)
	assert.Equal(t, b.ID, active[1].ID)
}

func TestStart_IDsStayUniqueWithinSameMillisecond(t *testing.T) {
	l := newTestLedger()
	a, _ := l.Start("Sato", "Packing", "", t0)
	b, _ := l.Start("Sato", "Packing", "", t0)
	c, _ := l.Start("Sato", "Packing", "", t0.Add(-time.Hour))

	assert.Less(t, a.ID, b.ID)
	assert.Less(t, b.ID, c.ID, "a clock step backwards must still yield a larger ID")
}

func TestRestore_IDsContinuePastLogs(t *testing.T) {
	l := newTestLedger()
	s, _ := l.Start("Sato", "Packing", "", at(time.Hour))
	l.Finish(s.ID, at(2*time.Hour))

	other := newTestLedger()
	other.Restore(l.State())
	next, _ := other.Start("Sato", "Packing", "", t0)
	assert.Greater(t, next.ID, s.ID)
}

func TestScenario_HoldResumeFinish(t *testing.T) {
	l := newTestLedger()
	s, err := l.Start("Sato", "Packing", "", t0)
	require.NoError(t, err)

	require.True(t, l.Hold(s.ID, at(90*time.Second)))
	held, ok := l.Session(s.ID)
	require.True(t, ok)
	assert.Equal(t, 90*time.Second, held.TotalElapsed)
	assert.Equal(t, domain.SessionHolding, held.Status)

	require.True(t, l.Resume(s.ID, at(150*time.Second)))
	entry, ok := l.Finish(s.ID, at(210*time.Second))
	require.True(t, ok)

	assert.Equal(t, domain.HMS{Hours: 0, Minutes: 2, Seconds: 30}, entry.Duration)
	assert.Equal(t, domain.HMS{Hours: 0, Minutes: 1, Seconds: 0}, entry.HoldingTime)
	assert.Equal(t, int64(210000), entry.ActiveMillis+entry.HoldingMillis)
	assert.Empty(t, l.Sessions())
	require.Len(t, l.Logs(), 1)
	assert.Equal(t, s.ID, l.Logs()[0].ID)
}

func TestScenario_ImmediateFinish(t *testing.T) {
	l := newTestLedger()
	s, _ := l.Start("Sato", "Packing", "", t0)

	entry, ok := l.Finish(s.ID, t0)
	require.True(t, ok)
	assert.Equal(t, domain.HMS{}, entry.Duration)
	assert.Equal(t, domain.HMS{}, entry.HoldingTime)
}

func TestFinish_PrependsMostRecentFirst(t *testing.T) {
	l := newTestLedger()
	a, _ := l.Start("Sato", "Packing", "", t0)
	b, _ := l.Start("Suzuki", "Sorting", "", at(time.Second))

	l.Finish(a.ID, at(time.Minute))
	l.Finish(b.ID, at(2*time.Minute))

	logs := l.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, b.ID, logs[0].ID)
	assert.Equal(t, a.ID, logs[1].ID)
}

func TestHold_MissingOrHoldingIsNoop(t *testing.T) {
	l := newTestLedger()
	s, _ := l.Start("Sato", "Packing", "", t0)

	assert.False(t, l.Hold(999, at(time.Minute)))
	require.True(t, l.Hold(s.ID, at(time.Minute)))
	before := l.State()

	assert.False(t, l.Hold(s.ID, at(time.Hour)))
	assert.Equal(t, before, l.State())
}

func TestResume_ActiveIsNoop(t *testing.T) {
	l := newTestLedger()
	s, _ := l.Start("Sato", "Packing", "", t0)
	before := l.State()

	assert.False(t, l.Resume(s.ID, at(time.Minute)))
	assert.False(t, l.Resume(12345, at(time.Minute)))
	assert.Equal(t, before, l.State())
}

func TestFinish_MissingIsNoop(t *testing.T) {
	l := newTestLedger()
	l.Start("Sato", "Packing", "", t0)
	before := l.State()

	_, ok := l.Finish(42, at(time.Minute))
	assert.False(t, ok)
	assert.Equal(t, before, l.State())
}

func TestUpdateMemo(t *testing.T) {
	l := newTestLedger()
	s, _ := l.Start("Sato", "Packing", "old", t0)

	assert.True(t, l.UpdateMemo(s.ID, "new"))
	got, _ := l.Session(s.ID)
	assert.Equal(t, "new", got.Memo)

	assert.False(t, l.UpdateMemo(s.ID, "new"))
	assert.False(t, l.UpdateMemo(404, "x"))
}

func TestUpdateMemo_CarriedIntoLog(t *testing.T) {
	l := newTestLedger()
	s, _ := l.Start("Sato", "Packing", "", t0)
	l.Hold(s.ID, at(time.Minute))
	l.UpdateMemo(s.ID, "edited while holding")

	entry, _ := l.Finish(s.ID, at(2*time.Minute))
	assert.Equal(t, "edited while holding", entry.Memo)
}

func TestDeletes_AreIdempotent(t *testing.T) {
	l := newTestLedger()
	a, _ := l.Start("Sato", "Packing", "", t0)
	b, _ := l.Start("Suzuki", "Sorting", "", at(time.Second))
	l.Finish(b.ID, at(time.Minute))
	before := l.State()

	assert.False(t, l.DeleteSession(999))
	assert.False(t, l.DeleteLog(999))
	assert.False(t, l.DeleteLog(a.ID), "a live session is not a log")
	assert.Equal(t, before, l.State())

	assert.True(t, l.DeleteSession(a.ID))
	assert.False(t, l.DeleteSession(a.ID))
	assert.True(t, l.DeleteLog(b.ID))
	assert.False(t, l.DeleteLog(b.ID))

	assert.Empty(t, l.Sessions())
	assert.Empty(t, l.Logs())
}

func TestClearLogs(t *testing.T) {
	l := newTestLedger()
	assert.False(t, l.ClearLogs())

	s, _ := l.Start("Sato", "Packing", "", t0)
	live, _ := l.Start("Sato", "Sorting", "", t0)
	l.Finish(s.ID, at(time.Minute))

	assert.True(t, l.ClearLogs())
	assert.Empty(t, l.Logs())
	require.Len(t, l.Sessions(), 1, "clearing logs leaves live sessions alone")
	assert.Equal(t, live.ID, l.Sessions()[0].ID)
}

func TestHolding_SortByElapsed(t *testing.T) {
	l := newTestLedger()
	short, _ := l.Start("A", "T", "", t0)
	long, _ := l.Start("B", "T", "", t0)
	mid, _ := l.Start("C", "T", "", t0)
	running, _ := l.Start("D", "T", "", t0)

	l.Hold(short.ID, at(time.Minute))
	l.Hold(long.ID, at(time.Hour))
	l.Hold(mid.ID, at(10*time.Minute))

	unsorted := l.Holding(false)
	require.Len(t, unsorted, 3)
	assert.Equal(t, []int64{short.ID, long.ID, mid.ID}, ids(unsorted))

	sorted := l.Holding(true)
	assert.Equal(t, []int64{long.ID, mid.ID, short.ID}, ids(sorted))

	active := l.Active()
	require.Len(t, active, 1)
	assert.Equal(t, running.ID, active[0].ID)
}

func TestState_IsDeepCopy(t *testing.T) {
	l := newTestLedger()
	s, _ := l.Start("Sato", "Packing", "", t0)

	st := l.State()
	st.Sessions[0].Memo = "mutated"

	got, _ := l.Session(s.ID)
	assert.Empty(t, got.Memo)
}

// TestProperty_ElapsedEqualsSumOfActiveIntervals drives random hold/resume
// sequences and checks the accounting identities at finish.
func TestProperty_ElapsedEqualsSumOfActiveIntervals(t *testing.T) {
	rng := rand.New(rand.NewSource(20250615))

	for round := 0; round < 200; round++ {
		l := newTestLedger()
		s, err := l.Start("Sato", "Packing", "", t0)
		require.NoError(t, err)

		now := t0
		active := true
		var wantActive time.Duration
		cycles := rng.Intn(12)

		for i := 0; i < cycles; i++ {
			step := time.Duration(rng.Int63n(3*3600*1000)) * time.Millisecond
			now = now.Add(step)
			if active {
				wantActive += step
				require.True(t, l.Hold(s.ID, now))
			} else {
				require.True(t, l.Resume(s.ID, now))
			}
			active = !active

			cur, _ := l.Session(s.ID)
			assert.Equal(t, wantActive, cur.TotalElapsed, "round %d step %d", round, i)
		}

		final := time.Duration(rng.Int63n(3600*1000)) * time.Millisecond
		now = now.Add(final)
		if active {
			wantActive += final
		}

		entry, ok := l.Finish(s.ID, now)
		require.True(t, ok)
		assert.Equal(t, wantActive.Milliseconds(), entry.ActiveMillis, "round %d", round)
		assert.Equal(t, now.Sub(t0).Milliseconds(), entry.ActiveMillis+entry.HoldingMillis, "round %d", round)
		assert.Equal(t, domain.SplitDuration(wantActive), entry.Duration)
	}
}

func ids(sessions []domain.Session) []int64 {
	out := make([]int64, len(sessions))
	for i, s := range sessions {
		out[i] = s.ID
	}
	return out
}
