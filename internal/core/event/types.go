package event

import (
	"time"

	"github.com/orbitarena/server/internal/core/ecs"
)

// RoundStarted is emitted when a round enters the active state.
type RoundStarted struct {
	Round     int64
	Length    time.Duration
	StartedAt time.Time
}

// RoundEnded is emitted by StopRound after the roster has been torn down.
type RoundEnded struct {
	Round   int64
	EndedAt time.Time
	Scores  map[int]int
}

type PlayerJoined struct {
	PlayerID int
	Ship     ecs.EntityID
}

// PlayerDied is emitted when a ship is destroyed with the death penalty.
// Round teardown and timeouts do not count.
type PlayerDied struct {
	PlayerID int
}

type CollectablePicked struct {
	PlayerID int
	Kind     string
}
