package physics

import (
	"github.com/orbitarena/server/internal/component"
	"github.com/orbitarena/server/internal/vmath"
)

// Integrate applies the pending impulse and advances the body by dt
// (semi-implicit Euler). Non-finite results are discarded.
func Integrate(body *component.Body, dt float64) {
	if body.Mass > 0 && body.Impulse != (vmath.Vec3{}) {
		v := body.Velocity.Add(body.Impulse.Scale(1 / body.Mass))
		if v.IsFinite() {
			body.Velocity = v
		}
	}
	body.Impulse = vmath.Vec3{}

	p := body.Position.Add(body.Velocity.Scale(dt))
	if p.IsFinite() {
		body.Position = p
	}
}

// Overlaps reports whether two bodies touch on the play plane.
func Overlaps(a, b *component.Body) bool {
	r := a.Radius + b.Radius
	return vmath.PlanarDistSq(a.Position, b.Position) <= r*r
}
