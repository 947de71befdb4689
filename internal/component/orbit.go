package component

import (
	"time"

	"github.com/orbitarena/server/internal/vmath"
)

// OrbitItem travels Path over Duration and is removed when it arrives.
type OrbitItem struct {
	Type     string
	Path     []vmath.Vec3
	Duration time.Duration
	Elapsed  time.Duration
}

// Done reports whether the traversal has completed.
func (o *OrbitItem) Done() bool {
	return o.Elapsed >= o.Duration
}
