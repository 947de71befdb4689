package spawn

import (
	"math/rand"
	"time"
)

// OrbitPolicy decides when an orbit item flies across the arena. An
// attempt is made once per interval; each attempt succeeds with Chance.
type OrbitPolicy struct {
	chance   float64
	interval time.Duration
	items    []string
	rng      *rand.Rand

	lastAttempt time.Duration
}

func NewOrbitPolicy(chance float64, interval time.Duration, items []string, rng *rand.Rand) *OrbitPolicy {
	return &OrbitPolicy{chance: chance, interval: interval, items: items, rng: rng}
}

// Attempt returns the item type to launch, if any. now is the round
// controller's simulated clock, which keeps running between rounds. The
// window restarts on every attempt, won or not.
func (p *OrbitPolicy) Attempt(now time.Duration) (string, bool) {
	if now-p.lastAttempt <= p.interval {
		return "", false
	}
	p.lastAttempt = now
	if len(p.items) == 0 || p.rng.Float64() >= p.chance {
		return "", false
	}
	return p.items[p.rng.Intn(len(p.items))], true
}
