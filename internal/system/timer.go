package system

import (
	"time"

	"github.com/orbitarena/server/internal/core/ecs"
	coresys "github.com/orbitarena/server/internal/core/system"
	"github.com/orbitarena/server/internal/timer"
	"github.com/orbitarena/server/internal/world"
)

// TimerSystem counts down every entity timer and fires expired ones.
// Phase 2 (Update).
type TimerSystem struct {
	world *world.State
}

func NewTimerSystem(ws *world.State) *TimerSystem {
	return &TimerSystem{world: ws}
}

func (s *TimerSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *TimerSystem) Update(dt time.Duration) {
	s.world.Timers.Each(func(id ecs.EntityID, t *timer.Timer) {
		// An earlier expiry this frame may have removed the host.
		if s.world.Alive(id) {
			t.Advance(dt)
		}
	})
}
