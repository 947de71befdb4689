package component

import "github.com/orbitarena/server/internal/vmath"

// Body is the rigid-body state the physics step owns.
// Impulse accumulates during a fixed step and is applied by Integrate.
type Body struct {
	Position        vmath.Vec3
	Velocity        vmath.Vec3
	AngularVelocity vmath.Vec3
	Impulse         vmath.Vec3
	Mass            float64
	Radius          float64
	Scale           float64
}
