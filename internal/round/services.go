package round

import (
	"time"

	"github.com/orbitarena/server/internal/vmath"
)

// NoPlayer marks an explosion nobody is responsible for.
const NoPlayer = -1

// DefaultExplosion is the effect asset used when no player is responsible.
const DefaultExplosion = "explosion"

// Clip identifies a one-shot audio clip.
type Clip string

const ClipExplosion Clip = "explosion"

// ScoreService keeps the running point totals.
type ScoreService interface {
	AddPoints(playerID, delta int)
}

// Announcer speaks lines and plays clips. Fire-and-forget.
type Announcer interface {
	Speak(text string)
	PlayClip(clip Clip)
}

type InsultService interface {
	PlayerDied(playerID int)
}

type PlayerInfo struct {
	Name           string
	ExplosionAsset string
}

// PlayerDirectory must answer for every id in [0, config.MaxPlayers).
type PlayerDirectory interface {
	PlayerInformation(playerID int) PlayerInfo
}

// Orbit is a flight path with at least one point.
type Orbit struct {
	Path     []vmath.Vec3
	Duration time.Duration
}

type OrbitProvider interface {
	Orbit() Orbit
}

type KeyBindings struct {
	Spawn string
	Fire  string
}

// InputService reports per-player controller state for the current frame.
type InputService interface {
	IsSpawnPressed(playerID int) bool
	KeyBindings(playerID int) KeyBindings
	// Active reports whether the player touched any control this frame.
	Active(playerID int) bool
}

type SessionClock interface {
	SecondsRemaining() float64
}

// Effects renders one-shot visuals. scale <= 0 keeps the asset's own size.
type Effects interface {
	Explosion(pos vmath.Vec3, asset string, scale float64)
}

type Display interface {
	ShowCountdown(text string)
	Hide()
}

// CollectableChooser picks the kind of each new collectable.
type CollectableChooser interface {
	ChooseCollectable() string
}

// Services bundles the collaborators the controller calls into.
// A nil Clock makes the controller answer from its own round end time.
type Services struct {
	Score       ScoreService
	Announcer   Announcer
	Insults     InsultService
	Players     PlayerDirectory
	Orbits      OrbitProvider
	Input       InputService
	Clock       SessionClock
	Effects     Effects
	Display     Display
	Collectable CollectableChooser
}
