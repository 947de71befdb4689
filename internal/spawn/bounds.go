// Package spawn holds the arena's population policies: when collectables
// appear, how the asteroid field is kept full, and when orbit items fly by.
// Policies decide; the round controller creates and destroys entities.
package spawn

import (
	"math/rand"
	"time"

	"github.com/orbitarena/server/internal/vmath"
)

// Bounds is the rectangular play area centred on the origin.
type Bounds struct {
	Width float64
	Depth float64
}

// RandomPoint returns a uniform point inside the bounds on the play plane.
func (b Bounds) RandomPoint(rng *rand.Rand) vmath.Vec3 {
	return vmath.Vec3{
		X: (rng.Float64() - 0.5) * b.Width,
		Z: (rng.Float64() - 0.5) * b.Depth,
	}
}

func (b Bounds) Contains(p vmath.Vec3) bool {
	return p.X >= -b.Width/2 && p.X <= b.Width/2 && p.Z >= -b.Depth/2 && p.Z <= b.Depth/2
}

// uniformDuration draws from [lo, hi].
func uniformDuration(rng *rand.Rand, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rng.Int63n(int64(hi-lo)+1))
}
