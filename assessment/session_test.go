package assessment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minutes(n int) *int { return &n }

func newTimedSession(t *testing.T) *Session {
	t.Helper()
	return NewSession("s1", 1, 10, 1, 4, minutes(1), 50)
}

// Scenario: a 1-minute exam auto-submits exactly once after 60 ticks with
// no user action.
func TestExamCountdownAutoSubmitsOnce(t *testing.T) {
	s := newTimedSession(t)
	require.Equal(t, 60, s.TimeLeft())

	fired := 0
	for i := 0; i < 70; i++ {
		if s.Tick() {
			fired++
		}
	}
	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, s.TimeLeft())
}

func TestNoAutoSubmitBeforeExpiry(t *testing.T) {
	s := newTimedSession(t)
	for i := 0; i < 59; i++ {
		assert.False(t, s.Tick(), "tick %d must not fire", i)
	}
	assert.Equal(t, 1, s.TimeLeft())
}

// Scenario: fullscreen exit while in progress; the 50-second grace
// countdown reaches zero without a restore, firing exactly one auto-submit.
func TestGraceExpiryAutoSubmitsOnce(t *testing.T) {
	s := NewSession("s2", 1, 10, 1, 4, nil, 50)
	s.Violation()
	assert.Equal(t, StateGrace, s.State())
	assert.Equal(t, 50, s.GraceLeft())

	fired := 0
	for i := 0; i < 60; i++ {
		if s.Tick() {
			fired++
		}
	}
	assert.Equal(t, 1, fired)
}

func TestRestoreCancelsGrace(t *testing.T) {
	s := NewSession("s3", 1, 10, 1, 4, nil, 50)
	s.Violation()
	for i := 0; i < 20; i++ {
		require.False(t, s.Tick())
	}
	s.Restore()
	assert.Equal(t, StateInProgress, s.State())
	assert.Equal(t, 0, s.GraceLeft())

	// No residual grace countdown keeps ticking.
	for i := 0; i < 100; i++ {
		assert.False(t, s.Tick())
	}
}

func TestRepeatViolationDoesNotRestartGrace(t *testing.T) {
	s := NewSession("s4", 1, 10, 1, 4, nil, 50)
	s.Violation()
	for i := 0; i < 10; i++ {
		require.False(t, s.Tick())
	}
	s.Violation()
	assert.Equal(t, 40, s.GraceLeft())
}

// When the exam timer and the grace timer would fire on the same tick, the
// exam timer wins; only one submit fires.
func TestExamTimerPrecedesGraceTimer(t *testing.T) {
	s := NewSession("s5", 1, 10, 1, 4, minutes(1), 60)
	s.Violation() // both countdowns now at 60

	fired := 0
	for i := 0; i < 60; i++ {
		if s.Tick() {
			fired++
		}
	}
	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, s.TimeLeft())
}

func TestCancelAbandonsWithoutSubmit(t *testing.T) {
	s := newTimedSession(t)
	s.Abandon()
	assert.Equal(t, StateAbandoned, s.State())

	// Timers must not fire after teardown.
	for i := 0; i < 120; i++ {
		assert.False(t, s.Tick())
	}
	assert.False(t, s.BeginSubmit())
	assert.False(t, s.Select(0, 1))
}

func TestDoubleSubmitIgnored(t *testing.T) {
	s := newTimedSession(t)
	require.True(t, s.BeginSubmit())
	assert.False(t, s.BeginSubmit(), "second submit while one is pending must be ignored")
	s.Finish()
	assert.Equal(t, StateSubmitted, s.State())
	assert.False(t, s.Tick())
}

func TestReopenAllowsRetryAfterFailedPersist(t *testing.T) {
	s := newTimedSession(t)
	require.True(t, s.BeginSubmit())
	s.Reopen()
	assert.True(t, s.BeginSubmit())
}

func TestSelectRecordsAnswers(t *testing.T) {
	s := newTimedSession(t)
	require.True(t, s.Select(0, 2))
	require.True(t, s.Select(3, 1))
	assert.False(t, s.Select(4, 0), "out-of-range question index")

	got := s.Answers()
	assert.Equal(t, 2, got[0].SelectedIndex)
	assert.Equal(t, Unanswered, got[1].SelectedIndex)
	assert.Equal(t, 1, got[3].SelectedIndex)
}

func TestUntimedSessionNeverExpires(t *testing.T) {
	s := NewSession("s6", 1, 10, 1, 4, nil, 50)
	assert.Equal(t, Untimed, s.TimeLeft())
	for i := 0; i < 3600; i++ {
		assert.False(t, s.Tick())
	}
	assert.Equal(t, StateInProgress, s.State())
}

func TestControllerDrivesExpiry(t *testing.T) {
	expired := make([]*Session, 0, 1)
	c := NewController(func(s *Session) {
		s.Finish()
		expired = append(expired, s)
	}, nil)

	s := NewSession("c1", 1, 10, 1, 2, minutes(1), 50)
	c.Add(s)
	require.Same(t, s, c.Lookup(1, 10))

	for i := 0; i < 120; i++ {
		c.TickAll()
	}
	require.Len(t, expired, 1)
	assert.Equal(t, StateSubmitted, expired[0].State())
}

func TestControllerReplacesExistingAttempt(t *testing.T) {
	abandoned := make([]*Session, 0, 1)
	c := NewController(nil, func(s *Session) { abandoned = append(abandoned, s) })
	first := NewSession("a", 1, 10, 1, 2, nil, 50)
	second := NewSession("b", 1, 10, 1, 2, nil, 50)
	c.Add(first)
	c.Add(second)

	assert.Equal(t, StateAbandoned, first.State())
	assert.Same(t, second, c.Lookup(1, 10))
	assert.Equal(t, 1, c.Count())

	// The replaced attempt must reach the abandon callback exactly once.
	require.Len(t, abandoned, 1)
	assert.Same(t, first, abandoned[0])
}

func TestControllerSweepRemovesTerminalAndStale(t *testing.T) {
	c := NewController(nil, nil)
	done := NewSession("d", 1, 10, 1, 2, nil, 50)
	done.Finish()
	c.Add(done)

	live := NewSession("l", 2, 10, 1, 2, nil, 50)
	c.Add(live)

	removed := c.Sweep(time.Hour)
	assert.Equal(t, 1, removed)
	assert.Nil(t, c.Get("d"))
	assert.Same(t, live, c.Get("l"))
}

func TestControllerSweepChargesLiveAbandons(t *testing.T) {
	abandoned := make([]*Session, 0, 2)
	c := NewController(nil, func(s *Session) { abandoned = append(abandoned, s) })

	done := NewSession("d", 1, 10, 1, 2, nil, 50)
	done.Finish()
	c.Add(done)

	idle := NewSession("i", 2, 10, 1, 2, nil, 50)
	c.Add(idle)

	// Zero max idle: every live session counts as stale.
	removed := c.Sweep(0)
	assert.Equal(t, 2, removed)

	// Only the session that was still live is charged; the finished one
	// was already recorded at submit time.
	require.Len(t, abandoned, 1)
	assert.Same(t, idle, abandoned[0])
	assert.Equal(t, StateAbandoned, idle.State())
}
