package data

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/orbitarena/server/internal/round"
	"github.com/orbitarena/server/internal/vmath"
)

// OrbitEntry is one precomputed flight path across the arena. Points are
// (x, z) pairs on the play plane.
type OrbitEntry struct {
	Name     string        `yaml:"name"`
	Duration time.Duration `yaml:"duration"`
	Points   [][2]float64  `yaml:"points"`
}

type orbitListFile struct {
	Orbits []OrbitEntry `yaml:"orbits"`
}

// OrbitTable hands out random orbits to the orbit-item spawner.
type OrbitTable struct {
	orbits []round.Orbit
	names  []string
	rng    *rand.Rand
}

// LoadOrbitTable loads orbits.yaml.
func LoadOrbitTable(path string, rng *rand.Rand) (*OrbitTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read orbit list: %w", err)
	}
	return ParseOrbitTable(raw, rng)
}

func ParseOrbitTable(raw []byte, rng *rand.Rand) (*OrbitTable, error) {
	var f orbitListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse orbit list: %w", err)
	}
	if len(f.Orbits) == 0 {
		return nil, errors.New("parse orbit list: no orbits")
	}
	t := &OrbitTable{rng: rng}
	for _, e := range f.Orbits {
		if len(e.Points) == 0 {
			return nil, fmt.Errorf("parse orbit list: orbit %q has no points", e.Name)
		}
		if e.Duration <= 0 {
			return nil, fmt.Errorf("parse orbit list: orbit %q has no duration", e.Name)
		}
		path := make([]vmath.Vec3, len(e.Points))
		for i, p := range e.Points {
			path[i] = vmath.Vec3{X: p[0], Z: p[1]}
		}
		t.orbits = append(t.orbits, round.Orbit{Path: path, Duration: e.Duration})
		t.names = append(t.names, e.Name)
	}
	return t, nil
}

// Orbit returns a uniformly chosen orbit.
func (t *OrbitTable) Orbit() round.Orbit {
	return t.orbits[t.rng.Intn(len(t.orbits))]
}

func (t *OrbitTable) Count() int {
	return len(t.orbits)
}

func (t *OrbitTable) Names() []string {
	return t.names
}
