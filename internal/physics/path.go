package physics

import (
	"math"

	"github.com/orbitarena/server/internal/vmath"
)

// SamplePath returns the point at t ∈ [0,1] along a Catmull-Rom spline
// through path. Segments are weighted equally; endpoints are clamped by
// repeating the first and last control point.
func SamplePath(path []vmath.Vec3, t float64) vmath.Vec3 {
	switch len(path) {
	case 0:
		return vmath.Vec3{}
	case 1:
		return path[0]
	}
	t = math.Max(0, math.Min(1, t))

	segments := len(path) - 1
	scaled := t * float64(segments)
	i := int(scaled)
	if i >= segments {
		return path[segments]
	}
	u := scaled - float64(i)

	p0 := path[max(i-1, 0)]
	p1 := path[i]
	p2 := path[i+1]
	p3 := path[min(i+2, segments)]
	return catmullRom(p0, p1, p2, p3, u)
}

func catmullRom(p0, p1, p2, p3 vmath.Vec3, u float64) vmath.Vec3 {
	u2 := u * u
	u3 := u2 * u
	c0 := -0.5*u3 + u2 - 0.5*u
	c1 := 1.5*u3 - 2.5*u2 + 1
	c2 := -1.5*u3 + 2*u2 + 0.5*u
	c3 := 0.5*u3 - 0.5*u2
	return p0.Scale(c0).Add(p1.Scale(c1)).Add(p2.Scale(c2)).Add(p3.Scale(c3))
}
