package assessment

import (
	"sync"
	"time"
)

// State of one attempt session.
type State string

const (
	StateInProgress State = "in_progress"
	StateGrace      State = "grace_period" // sub-state of in_progress
	StateSubmitted  State = "submitted"
	StateAbandoned  State = "abandoned"
)

// Untimed marks a session whose definition has no duration.
const Untimed = -1

// Session is one proctored attempt. It is driven by 1-second ticks from the
// Controller; all mutation goes through its methods, which are safe for
// concurrent use. Auto-submit fires at most once per session: the exam
// countdown reaching zero takes precedence over the grace countdown when
// both would fire on the same tick.
type Session struct {
	mu sync.Mutex

	ID                string
	UserID            uint
	CourseID          uint
	DefinitionVersion uint

	answers   []int
	state     State
	warning   bool
	timeLeft  int // seconds; Untimed when no duration
	graceLeft int
	graceFull int
	startedAt time.Time
	endedAt   time.Time
	touchedAt time.Time

	submitOnce bool
}

// NewSession starts an attempt. durationMinutes nil means untimed.
func NewSession(id string, userID, courseID, version uint, numQuestions int, durationMinutes *int, graceSeconds int) *Session {
	answers := make([]int, numQuestions)
	for i := range answers {
		answers[i] = Unanswered
	}
	timeLeft := Untimed
	if durationMinutes != nil && *durationMinutes > 0 {
		timeLeft = *durationMinutes * 60
	}
	now := time.Now()
	return &Session{
		ID:                id,
		UserID:            userID,
		CourseID:          courseID,
		DefinitionVersion: version,
		answers:           answers,
		state:             StateInProgress,
		timeLeft:          timeLeft,
		graceFull:         graceSeconds,
		startedAt:         now,
		touchedAt:         now,
	}
}

// State reports the current state, surfacing the grace sub-state while a
// proctoring warning is active.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateInProgress && s.warning {
		return StateGrace
	}
	return s.state
}

func (s *Session) terminal() bool {
	return s.state == StateSubmitted || s.state == StateAbandoned
}

func (s *Session) terminalState() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminal()
}

// TimeLeft reports the remaining exam seconds (Untimed when no countdown).
func (s *Session) TimeLeft() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeLeft
}

// GraceLeft reports the remaining grace seconds, 0 when no warning is
// active.
func (s *Session) GraceLeft() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.warning {
		return 0
	}
	return s.graceLeft
}

// Answers returns a copy of the selected option indices.
func (s *Session) Answers() []Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Answer, len(s.answers))
	for i, a := range s.answers {
		out[i] = Answer{SelectedIndex: a}
	}
	return out
}

// Select records an answer. Rejected once the session is no longer in
// progress.
func (s *Session) Select(questionIndex, optionIndex int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminal() || questionIndex < 0 || questionIndex >= len(s.answers) {
		return false
	}
	s.answers[questionIndex] = optionIndex
	s.touchedAt = time.Now()
	return true
}

// Violation ingests a proctoring signal (fullscreen exit or tab hidden).
// The first violation while in progress starts the grace countdown; repeat
// signals while the warning is active do not restart it.
func (s *Session) Violation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminal() || s.warning {
		return
	}
	s.warning = true
	s.graceLeft = s.graceFull
	s.touchedAt = time.Now()
}

// Restore clears the warning after the student re-entered fullscreen,
// cancelling the grace countdown.
func (s *Session) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminal() {
		return
	}
	s.warning = false
	s.graceLeft = 0
	s.touchedAt = time.Now()
}

// Tick advances the countdowns by one second and reports whether an
// auto-submit must fire now. The exam countdown is evaluated first so it
// wins over the grace countdown on a shared tick. Returns true at most once
// over the session's lifetime.
func (s *Session) Tick() (autoSubmit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminal() || s.submitOnce {
		return false
	}

	if s.timeLeft > 0 {
		s.timeLeft--
		if s.timeLeft == 0 {
			s.submitOnce = true
			return true
		}
	}

	if s.warning && s.graceLeft > 0 {
		s.graceLeft--
		if s.graceLeft == 0 {
			s.submitOnce = true
			return true
		}
	}
	return false
}

// BeginSubmit claims the right to submit. It returns false when a submit is
// already in flight or the session ended, making double-submits no-ops.
func (s *Session) BeginSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminal() || s.submitOnce {
		return false
	}
	s.submitOnce = true
	return true
}

// Finish marks the session submitted. Part of the single teardown path.
func (s *Session) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminal() {
		return
	}
	s.state = StateSubmitted
	s.warning = false
	s.graceLeft = 0
	s.endedAt = time.Now()
}

// Abandon ends the attempt without submission (explicit cancel or sweep of
// a stale session). No result is recorded.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminal() {
		return
	}
	s.state = StateAbandoned
	s.warning = false
	s.graceLeft = 0
	s.endedAt = time.Now()
}

// Reopen clears a claimed submit after a failed persistence attempt so the
// next tick or retry can submit again.
func (s *Session) Reopen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminal() {
		return
	}
	s.submitOnce = false
}

// TimeTaken reports elapsed seconds since the attempt started.
func (s *Session) TimeTaken() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	end := s.endedAt
	if end.IsZero() {
		end = time.Now()
	}
	return int(end.Sub(s.startedAt) / time.Second)
}

// IdleSince reports the last time the student interacted with the session.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt
}
