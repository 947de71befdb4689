package round

import (
	"go.uber.org/zap"

	"github.com/orbitarena/server/internal/core/ecs"
	"github.com/orbitarena/server/internal/core/event"
)

// PickUp moves a collectable into the ship's inventory.
func (c *Controller) PickUp(ship, collectable ecs.EntityID) {
	s, ok := c.world.Ships.Get(ship)
	if !ok {
		return
	}
	item, ok := c.world.Collectables.Get(collectable)
	if !ok {
		return
	}
	s.Collectables = append(s.Collectables, item.Kind)
	c.world.Destroy(collectable)
	event.Emit(c.bus, event.CollectablePicked{PlayerID: s.PlayerID, Kind: item.Kind})
	c.log.Debug("collectable picked",
		zap.Int("player", s.PlayerID),
		zap.String("kind", item.Kind),
	)
}

// CollectableHitPlanet removes a collectable that landed inside a planet.
func (c *Controller) CollectableHitPlanet(collectable ecs.EntityID) {
	c.world.Destroy(collectable)
}

// ShipHitAsteroid kills the ship and breaks the asteroid. Nobody is
// credited with either explosion.
func (c *Controller) ShipHitAsteroid(ship, asteroid ecs.EntityID) {
	c.DestroyWithExplosion(ship, true, true, NoPlayer)
	c.DestroyAsteroid(asteroid, NoPlayer)
}

func (c *Controller) ShipHitPlanet(ship ecs.EntityID) {
	c.DestroyWithExplosion(ship, true, true, NoPlayer)
}
