package vmath

import "math"

// Vec3 is a float64 world-space vector. Play happens on the XZ plane; Y is
// depth and is zeroed for every planar computation.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) SqrMagnitude() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

func (v Vec3) Magnitude() float64 { return math.Sqrt(v.SqrMagnitude()) }

// Normalized returns the unit vector, or the zero vector for zero input.
func (v Vec3) Normalized() Vec3 {
	mag := v.Magnitude()
	if mag == 0 {
		return Vec3{}
	}
	inv := 1.0 / mag
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// Planar drops the depth axis.
func (v Vec3) Planar() Vec3 { return Vec3{X: v.X, Z: v.Z} }

func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// UnitCircle returns the planar direction at angle radians from +X toward +Z.
func UnitCircle(angle float64) Vec3 {
	return Vec3{X: math.Cos(angle), Z: math.Sin(angle)}
}

// PlanarDistSq is the squared XZ distance between a and b.
func PlanarDistSq(a, b Vec3) float64 {
	return b.Sub(a).Planar().SqrMagnitude()
}
