package assessment

import (
	"sync"
	"time"
)

// ExpireFunc receives sessions whose countdown (exam or grace) ran out and
// is responsible for scoring and persisting the auto-submission.
type ExpireFunc func(*Session)

// Controller owns the live attempt sessions of this process and drives all
// of their countdowns from a single 1-second ticker. Sessions are held only
// in memory: a restart loses in-flight attempts, which keeps the
// at-most-once-per-process submit guarantee.
type Controller struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	byOwner  map[uint]map[uint]string // userID -> courseID -> sessionID

	onExpire  ExpireFunc
	onAbandon ExpireFunc
	stop      chan struct{}
	stopOnce  sync.Once
}

// NewController builds the registry. onExpire receives sessions whose
// countdown ran out; onAbandon receives live sessions dropped without a
// submission (replaced by a restart, or swept while idle) so the attempt
// can still be recorded. Either may be nil.
func NewController(onExpire, onAbandon ExpireFunc) *Controller {
	return &Controller{
		sessions:  make(map[string]*Session),
		byOwner:   make(map[uint]map[uint]string),
		onExpire:  onExpire,
		onAbandon: onAbandon,
		stop:      make(chan struct{}),
	}
}

// Run starts the shared ticker loop. Call Stop to release it.
func (c *Controller) Run() {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				c.TickAll()
			}
		}
	}()
}

// Stop halts the ticker loop. Timers must not fire after teardown.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// TickAll advances every live session by one second and hands expired ones
// to the expiry callback. Exported so tests can drive simulated time.
func (c *Controller) TickAll() {
	c.mu.RLock()
	live := make([]*Session, 0, len(c.sessions))
	for _, s := range c.sessions {
		live = append(live, s)
	}
	c.mu.RUnlock()

	for _, s := range live {
		if s.Tick() && c.onExpire != nil {
			c.onExpire(s)
		}
	}
}

// Add registers a session, replacing (and abandoning) any previous live
// session of the same student on the same course. The replaced session is
// handed to the abandon callback.
func (c *Controller) Add(s *Session) {
	c.mu.Lock()
	var replaced *Session
	if prev := c.lookupLocked(s.UserID, s.CourseID); prev != nil {
		if !prev.terminalState() {
			replaced = prev
		}
		prev.Abandon()
		delete(c.sessions, prev.ID)
	}
	c.sessions[s.ID] = s
	if c.byOwner[s.UserID] == nil {
		c.byOwner[s.UserID] = make(map[uint]string)
	}
	c.byOwner[s.UserID][s.CourseID] = s.ID
	c.mu.Unlock()

	if replaced != nil && c.onAbandon != nil {
		c.onAbandon(replaced)
	}
}

// Get returns the session with the given id, or nil.
func (c *Controller) Get(id string) *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessions[id]
}

// Lookup returns the live session of a student on a course, or nil.
func (c *Controller) Lookup(userID, courseID uint) *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lookupLocked(userID, courseID)
}

func (c *Controller) lookupLocked(userID, courseID uint) *Session {
	if m, ok := c.byOwner[userID]; ok {
		if id, ok := m[courseID]; ok {
			return c.sessions[id]
		}
	}
	return nil
}

// Remove drops a session from the registry. Terminal state must already be
// set by the caller (Finish or Abandon).
func (c *Controller) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[id]
	if !ok {
		return
	}
	delete(c.sessions, id)
	if m, ok := c.byOwner[s.UserID]; ok {
		if m[s.CourseID] == id {
			delete(m, s.CourseID)
		}
		if len(m) == 0 {
			delete(c.byOwner, s.UserID)
		}
	}
}

// Sweep abandons sessions idle beyond maxIdle and removes terminal ones.
// Sessions that were still live go through the abandon callback. Invoked
// from the cron scheduler.
func (c *Controller) Sweep(maxIdle time.Duration) int {
	c.mu.RLock()
	stale := make([]*Session, 0)
	for _, s := range c.sessions {
		if s.terminalState() || time.Since(s.IdleSince()) > maxIdle {
			stale = append(stale, s)
		}
	}
	c.mu.RUnlock()

	for _, s := range stale {
		wasLive := !s.terminalState()
		s.Abandon()
		c.Remove(s.ID)
		if wasLive && c.onAbandon != nil {
			c.onAbandon(s)
		}
	}
	return len(stale)
}

// Count reports the number of registered sessions.
func (c *Controller) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}
