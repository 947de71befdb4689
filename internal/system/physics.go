package system

import (
	"time"

	"github.com/orbitarena/server/internal/component"
	"github.com/orbitarena/server/internal/core/ecs"
	coresys "github.com/orbitarena/server/internal/core/system"
	"github.com/orbitarena/server/internal/physics"
	"github.com/orbitarena/server/internal/world"
)

// The systems below run on the fixed-step physics runner.

// GravitySystem accumulates planetary pull on every roster ship.
// Phase 2 (Update).
type GravitySystem struct {
	ctrl PhysicsStepper
}

type PhysicsStepper interface {
	PhysicsTick(dt time.Duration)
}

func NewGravitySystem(ctrl PhysicsStepper) *GravitySystem {
	return &GravitySystem{ctrl: ctrl}
}

func (s *GravitySystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *GravitySystem) Update(dt time.Duration) {
	s.ctrl.PhysicsTick(dt)
}

// MotionSystem integrates every free body. Planets are static and orbit
// items follow their paths. Phase 2 (Update), after gravity.
type MotionSystem struct {
	world *world.State
}

func NewMotionSystem(ws *world.State) *MotionSystem {
	return &MotionSystem{world: ws}
}

func (s *MotionSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MotionSystem) Update(dt time.Duration) {
	step := dt.Seconds()
	s.world.Bodies.Each(func(id ecs.EntityID, b *component.Body) {
		switch id.Kind() {
		case ecs.KindPlanet, ecs.KindOrbitItem:
			return
		}
		physics.Integrate(b, step)
	})
}

// CollisionHandler resolves contacts between arena entities.
type CollisionHandler interface {
	PickUp(ship, collectable ecs.EntityID)
	CollectableHitPlanet(collectable ecs.EntityID)
	ShipHitAsteroid(ship, asteroid ecs.EntityID)
	ShipHitPlanet(ship ecs.EntityID)
}

// CollisionSystem detects overlaps after integration and hands them to
// the round controller. Phase 3 (PostUpdate).
type CollisionSystem struct {
	world   *world.State
	handler CollisionHandler
}

func NewCollisionSystem(ws *world.State, h CollisionHandler) *CollisionSystem {
	return &CollisionSystem{world: ws, handler: h}
}

func (s *CollisionSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *CollisionSystem) Update(_ time.Duration) {
	planets := s.world.Planets.IDs()

	for _, ship := range s.world.Ships.IDs() {
		s.shipContacts(ship, planets)
	}

	for _, item := range s.world.Collectables.IDs() {
		for _, planet := range planets {
			if s.overlaps(item, planet) {
				s.handler.CollectableHitPlanet(item)
				break
			}
		}
	}
}

func (s *CollisionSystem) shipContacts(ship ecs.EntityID, planets []ecs.EntityID) {
	for _, item := range s.world.Collectables.IDs() {
		if s.overlaps(ship, item) {
			s.handler.PickUp(ship, item)
		}
	}
	for _, rock := range s.world.Asteroids.IDs() {
		if s.overlaps(ship, rock) {
			s.handler.ShipHitAsteroid(ship, rock)
			return
		}
	}
	for _, planet := range planets {
		if s.overlaps(ship, planet) {
			s.handler.ShipHitPlanet(ship)
			return
		}
	}
}

// overlaps is false once either entity has been removed.
func (s *CollisionSystem) overlaps(a, b ecs.EntityID) bool {
	ba, ok := s.world.Bodies.Get(a)
	if !ok {
		return false
	}
	bb, ok := s.world.Bodies.Get(b)
	if !ok {
		return false
	}
	return physics.Overlaps(ba, bb)
}
