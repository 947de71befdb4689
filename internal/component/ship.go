package component

import "time"

// Ship marks a player-controlled entity.
type Ship struct {
	PlayerID int
	// IdleTime accumulates every frame but nothing reads it yet; the idle
	// timeout is driven by the ship's timer instead.
	IdleTime     time.Duration
	Collectables []string
	FireButton   string
}
