package vmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizedZero(t *testing.T) {
	assert.Equal(t, Vec3{}, Vec3{}.Normalized())
	assert.InDelta(t, 1.0, Vec3{X: 3, Z: 4}.Normalized().Magnitude(), 1e-12)
}

func TestPlanarDropsDepth(t *testing.T) {
	v := Vec3{X: 1, Y: 9, Z: 2}
	assert.Equal(t, Vec3{X: 1, Z: 2}, v.Planar())
	assert.Equal(t, 25.0, PlanarDistSq(Vec3{Y: 100}, Vec3{X: 3, Y: -7, Z: 4}))
}

func TestUnitCircle(t *testing.T) {
	d := UnitCircle(math.Pi / 2)
	assert.InDelta(t, 0, d.X, 1e-12)
	assert.InDelta(t, 1, d.Z, 1e-12)
	assert.Equal(t, 0.0, d.Y)
}

func TestIsFinite(t *testing.T) {
	assert.True(t, Vec3{X: 1}.IsFinite())
	assert.False(t, Vec3{X: math.Inf(1)}.IsFinite())
	assert.False(t, Vec3{Z: math.NaN()}.IsFinite())
}
