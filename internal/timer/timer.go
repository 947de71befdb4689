// Package timer implements entity-scoped timeout countdowns.
package timer

import (
	"time"

	"github.com/orbitarena/server/internal/core/ecs"
)

// Listener is notified once when a timer attached to an entity expires.
type Listener interface {
	TimeoutElapsed(id ecs.EntityID)
}

// Timer counts down for one host entity. It fires its listener exactly
// once per Start; Cancel or expiry leaves it inert until started again.
type Timer struct {
	host      ecs.EntityID
	listener  Listener
	remaining time.Duration
	running   bool
}

func New(host ecs.EntityID) *Timer {
	return &Timer{host: host}
}

func (t *Timer) Host() ecs.EntityID { return t.host }

// Listen registers l without starting a countdown.
func (t *Timer) Listen(l Listener) {
	t.listener = l
}

// Start begins the countdown, restarting it if already running. A nil
// listener keeps the one previously registered.
func (t *Timer) Start(d time.Duration, l Listener) {
	if l != nil {
		t.listener = l
	}
	if d < 0 {
		d = 0
	}
	t.remaining = d
	t.running = true
}

// Cancel stops the countdown without firing.
func (t *Timer) Cancel() {
	t.running = false
	t.remaining = 0
}

func (t *Timer) Running() bool { return t.running }

func (t *Timer) Remaining() time.Duration { return t.remaining }

// Advance counts down by dt and fires the listener when the countdown
// reaches zero. Returns true on the advance that fired.
func (t *Timer) Advance(dt time.Duration) bool {
	if !t.running {
		return false
	}
	t.remaining -= dt
	if t.remaining > 0 {
		return false
	}
	t.running = false
	t.remaining = 0
	if t.listener != nil {
		t.listener.TimeoutElapsed(t.host)
	}
	return true
}
