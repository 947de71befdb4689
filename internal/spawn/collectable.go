package spawn

import (
	"math/rand"
	"time"
)

// CollectableTiming is the redraw window for the collectable countdown.
// Below BusyThreshold players the quiet window applies.
type CollectableTiming struct {
	BusyThreshold int
	QuietMin      time.Duration
	QuietMax      time.Duration
	BusyMin       time.Duration
	BusyMax       time.Duration
}

// CollectablePolicy counts down to the next collectable spawn.
type CollectablePolicy struct {
	timing    CollectableTiming
	rng       *rand.Rand
	remaining time.Duration
}

func NewCollectablePolicy(timing CollectableTiming, rng *rand.Rand) *CollectablePolicy {
	return &CollectablePolicy{timing: timing, rng: rng}
}

// Reset draws a fresh countdown for the given player count.
func (p *CollectablePolicy) Reset(players int) {
	p.remaining = p.Draw(players)
}

// Draw returns a delay from the window matching the player count.
func (p *CollectablePolicy) Draw(players int) time.Duration {
	if players < p.timing.BusyThreshold {
		return uniformDuration(p.rng, p.timing.QuietMin, p.timing.QuietMax)
	}
	return uniformDuration(p.rng, p.timing.BusyMin, p.timing.BusyMax)
}

// Advance counts down by dt. When the countdown runs out it is redrawn for
// players and Advance reports that one collectable is due.
func (p *CollectablePolicy) Advance(dt time.Duration, players int) bool {
	p.remaining -= dt
	if p.remaining > 0 {
		return false
	}
	p.remaining = p.Draw(players)
	return true
}

func (p *CollectablePolicy) Remaining() time.Duration { return p.remaining }
