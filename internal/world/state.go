package world

import (
	"time"

	"go.uber.org/zap"

	"github.com/orbitarena/server/internal/component"
	"github.com/orbitarena/server/internal/core/ecs"
	"github.com/orbitarena/server/internal/physics"
	"github.com/orbitarena/server/internal/timer"
	"github.com/orbitarena/server/internal/vmath"
)

// State is the arena scene: every live entity and its components.
// Accessed only from the game loop goroutine; no locks needed.
type State struct {
	ecs *ecs.World

	Bodies       *ecs.PtrComponentStore[component.Body]
	Ships        *ecs.PtrComponentStore[component.Ship]
	Asteroids    *ecs.PtrComponentStore[component.Asteroid]
	Collectables *ecs.PtrComponentStore[component.Collectable]
	OrbitItems   *ecs.PtrComponentStore[component.OrbitItem]
	Planets      *ecs.PtrComponentStore[component.Planet]
	Timers       *ecs.PtrComponentStore[timer.Timer]

	log *zap.Logger
}

func NewState(log *zap.Logger) *State {
	w := ecs.NewWorld()
	s := &State{
		ecs:          w,
		Bodies:       ecs.NewStore[component.Body](w),
		Ships:        ecs.NewStore[component.Ship](w),
		Asteroids:    ecs.NewStore[component.Asteroid](w),
		Collectables: ecs.NewStore[component.Collectable](w),
		OrbitItems:   ecs.NewStore[component.OrbitItem](w),
		Planets:      ecs.NewStore[component.Planet](w),
		Timers:       ecs.NewStore[timer.Timer](w),
		log:          log,
	}
	// A removed entity's countdown must never fire.
	s.Timers.OnRemove(func(_ ecs.EntityID, t *timer.Timer) { t.Cancel() })
	return s
}

func (s *State) ECS() *ecs.World { return s.ecs }

func (s *State) Alive(id ecs.EntityID) bool { return s.ecs.Alive(id) }

// Destroy removes an entity immediately. Returns false for stale references.
func (s *State) Destroy(id ecs.EntityID) bool {
	if !s.ecs.Destroy(id) {
		return false
	}
	s.log.Debug("entity destroyed", zap.Stringer("entity", id))
	return true
}

// Position returns the last known position of a live entity.
func (s *State) Position(id ecs.EntityID) (vmath.Vec3, bool) {
	b, ok := s.Bodies.Get(id)
	if !ok {
		return vmath.Vec3{}, false
	}
	return b.Position, true
}

// Timer returns the entity's timer, attaching a new one on first use.
// Returns nil for dead entities.
func (s *State) Timer(id ecs.EntityID) *timer.Timer {
	if !s.ecs.Alive(id) {
		return nil
	}
	if t, ok := s.Timers.Get(id); ok {
		return t
	}
	t := timer.New(id)
	s.Timers.Set(id, t)
	return t
}

// AddPlanet creates a static mass source.
func (s *State) AddPlanet(name string, pos vmath.Vec3, mass, scale float64) ecs.EntityID {
	id := s.ecs.CreateEntity(ecs.KindPlanet)
	s.Bodies.Set(id, &component.Body{Position: pos, Mass: mass, Radius: scale / 2, Scale: scale})
	s.Planets.Set(id, &component.Planet{Name: name})
	return id
}

// MassSources snapshots every planet as a gravity source.
func (s *State) MassSources() []physics.MassSource {
	out := make([]physics.MassSource, 0, s.Planets.Len())
	ecs.Each2(s.Planets, s.Bodies, func(_ ecs.EntityID, _ *component.Planet, b *component.Body) {
		out = append(out, physics.MassSource{Position: b.Position, Mass: b.Mass})
	})
	return out
}

// SpawnShip creates a ship body for playerID at pos.
func (s *State) SpawnShip(playerID int, pos vmath.Vec3, mass, radius float64) ecs.EntityID {
	id := s.ecs.CreateEntity(ecs.KindShip)
	s.Bodies.Set(id, &component.Body{Position: pos, Mass: mass, Radius: radius, Scale: 1})
	s.Ships.Set(id, &component.Ship{PlayerID: playerID})
	return id
}

// AsteroidSpec describes an asteroid to create.
type AsteroidSpec struct {
	Position vmath.Vec3
	Velocity vmath.Vec3
	Scale    float64
	Variant  component.AsteroidVariant
	Radius   float64 // collision radius at scale 1
}

func (s *State) SpawnAsteroid(spec AsteroidSpec) ecs.EntityID {
	id := s.ecs.CreateEntity(ecs.KindAsteroid)
	s.Bodies.Set(id, &component.Body{
		Position: spec.Position,
		Velocity: spec.Velocity,
		Radius:   spec.Radius * spec.Scale,
		Scale:    spec.Scale,
	})
	s.Asteroids.Set(id, &component.Asteroid{Variant: spec.Variant, Scale: spec.Scale})
	return id
}

func (s *State) SpawnCollectable(kind string, pos vmath.Vec3, radius float64) ecs.EntityID {
	id := s.ecs.CreateEntity(ecs.KindCollectable)
	s.Bodies.Set(id, &component.Body{Position: pos, Radius: radius, Scale: 1})
	s.Collectables.Set(id, &component.Collectable{Kind: kind})
	return id
}

// SpawnOrbitItem places an item at the head of path.
func (s *State) SpawnOrbitItem(itemType string, path []vmath.Vec3, duration time.Duration) ecs.EntityID {
	id := s.ecs.CreateEntity(ecs.KindOrbitItem)
	var start vmath.Vec3
	if len(path) > 0 {
		start = path[0]
	}
	s.Bodies.Set(id, &component.Body{Position: start, Scale: 1})
	s.OrbitItems.Set(id, &component.OrbitItem{Type: itemType, Path: path, Duration: duration})
	return id
}

// Count returns the number of live entities of kind.
func (s *State) Count(kind ecs.Kind) int {
	switch kind {
	case ecs.KindShip:
		return s.Ships.Len()
	case ecs.KindAsteroid:
		return s.Asteroids.Len()
	case ecs.KindCollectable:
		return s.Collectables.Len()
	case ecs.KindOrbitItem:
		return s.OrbitItems.Len()
	case ecs.KindPlanet:
		return s.Planets.Len()
	}
	return 0
}
