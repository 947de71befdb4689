package system

import (
	"time"

	"github.com/orbitarena/server/internal/component"
	"github.com/orbitarena/server/internal/core/ecs"
	coresys "github.com/orbitarena/server/internal/core/system"
	"github.com/orbitarena/server/internal/physics"
	"github.com/orbitarena/server/internal/world"
)

// OrbitMotionSystem moves orbit items along their path with linear
// easing. An item that completes its traversal without its timer having
// removed it is queued for cleanup. Phase 2 (Update).
type OrbitMotionSystem struct {
	world *world.State
}

func NewOrbitMotionSystem(ws *world.State) *OrbitMotionSystem {
	return &OrbitMotionSystem{world: ws}
}

func (s *OrbitMotionSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *OrbitMotionSystem) Update(dt time.Duration) {
	s.world.OrbitItems.Each(func(id ecs.EntityID, item *component.OrbitItem) {
		item.Elapsed += dt
		frac := 1.0
		if item.Duration > 0 {
			frac = float64(item.Elapsed) / float64(item.Duration)
		}
		if b, ok := s.world.Bodies.Get(id); ok {
			b.Position = physics.SamplePath(item.Path, frac)
		}
		if item.Done() {
			s.world.ECS().MarkForDestruction(id)
		}
	})
}

// AgeSystem accumulates collectable lifetimes. Phase 2 (Update).
type AgeSystem struct {
	world *world.State
}

func NewAgeSystem(ws *world.State) *AgeSystem {
	return &AgeSystem{world: ws}
}

func (s *AgeSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *AgeSystem) Update(dt time.Duration) {
	s.world.Collectables.Each(func(_ ecs.EntityID, c *component.Collectable) {
		c.Lifetime += dt
	})
}
