package physics

import (
	"math"

	"github.com/orbitarena/server/internal/component"
	"github.com/orbitarena/server/internal/vmath"
)

// MassSource is a static gravity well (a planet).
type MassSource struct {
	Position vmath.Vec3
	Mass     float64
}

// Field applies planetary gravity to ship bodies once per fixed step.
//
// Range is compared against the squared planar distance, not the distance:
// a ship is in range of a source when d² <= Range. Arena tuning is done
// against that comparison, so Range is effectively a squared radius.
type Field struct {
	Force   float64 // gravitational constant G
	Range   float64
	Epsilon float64 // lower clamp for d²
}

// Apply accumulates the net gravity impulse from every source in range into
// body.Impulse. When no source is in range the body is stopped dead: linear
// and angular velocity are zeroed. Returns whether any source was in range.
func (f Field) Apply(dt float64, sources []MassSource, body *component.Body) bool {
	inRange := false
	var impulse vmath.Vec3

	for _, src := range sources {
		// No movement along the depth axis.
		direction := src.Position.Sub(body.Position).Planar()

		distSq := direction.SqrMagnitude()
		if distSq > f.Range {
			continue
		}
		inRange = true

		if distSq < f.Epsilon {
			distSq = f.Epsilon
		}
		magnitude := f.Force * src.Mass * body.Mass / distSq
		impulse = impulse.Add(direction.Normalized().Scale(magnitude * dt))
	}

	if !inRange {
		body.Velocity = vmath.Vec3{}
		body.AngularVelocity = vmath.Vec3{}
		return false
	}
	body.Impulse = body.Impulse.Add(impulse)
	return true
}

// OrbitalSpeed is the tangential speed that keeps a body circling a source
// of mass at planar distance dist. Zero when dist is out of range.
func (f Field) OrbitalSpeed(mass, dist float64) float64 {
	distSq := dist * dist
	if dist <= 0 || distSq > f.Range {
		return 0
	}
	distSq = math.Max(distSq, f.Epsilon)
	return math.Sqrt(f.Force * mass * dist / distSq)
}
