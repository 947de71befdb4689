package data

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitarena/server/internal/round"
	"github.com/orbitarena/server/internal/vmath"
)

func TestPlayerTable(t *testing.T) {
	tbl, err := ParsePlayerTable([]byte(`
players:
  - id: 0
    name: Red
    explosion: explosion_red
    spawn_button: Start1
  - id: 1
    name: Blue
`))
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Count())

	assert.Equal(t, round.PlayerInfo{Name: "Red", ExplosionAsset: "explosion_red"}, tbl.PlayerInformation(0))
	assert.Equal(t, round.DefaultExplosion, tbl.PlayerInformation(1).ExplosionAsset)
	assert.Equal(t, "Player 6", tbl.PlayerInformation(5).Name)

	assert.Equal(t, round.KeyBindings{Spawn: "Start1", Fire: "Fire1"}, tbl.KeyBindings(0))
	assert.Equal(t, round.KeyBindings{Spawn: "Spawn8", Fire: "Fire8"}, tbl.KeyBindings(7))
}

func TestPlayerTableRejectsDuplicates(t *testing.T) {
	_, err := ParsePlayerTable([]byte("players: [{id: 1}, {id: 1}]"))
	assert.Error(t, err)
}

func TestOrbitTable(t *testing.T) {
	tbl, err := ParseOrbitTable([]byte(`
orbits:
  - name: low
    duration: 8s
    points: [[-60, 10], [0, 25], [60, 10]]
  - name: high
    duration: 12s
    points: [[60, -20], [-60, -20]]
`), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, []string{"low", "high"}, tbl.Names())

	seen := map[time.Duration]bool{}
	for i := 0; i < 50; i++ {
		o := tbl.Orbit()
		require.NotEmpty(t, o.Path)
		seen[o.Duration] = true
	}
	assert.True(t, seen[8*time.Second])
	assert.True(t, seen[12*time.Second])
}

func TestOrbitTableValidation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := ParseOrbitTable([]byte("orbits: []"), rng)
	assert.Error(t, err)
	_, err = ParseOrbitTable([]byte("orbits: [{name: x, duration: 1s, points: []}]"), rng)
	assert.Error(t, err)
	_, err = ParseOrbitTable([]byte("orbits: [{name: x, points: [[0, 0]]}]"), rng)
	assert.Error(t, err)
}

func TestLoadOrbitTableFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orbits.yaml")
	require.NoError(t, os.WriteFile(path, []byte("orbits: [{name: one, duration: 2s, points: [[1, 2]]}]"), 0o644))

	tbl, err := LoadOrbitTable(path, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, []vmath.Vec3{{X: 1, Z: 2}}, tbl.Orbit().Path)

	_, err = LoadOrbitTable(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestCollectableTable(t *testing.T) {
	tbl, err := ParseCollectableTable([]byte(`
kinds:
  - {name: shield, weight: 3}
  - {name: boost, weight: 1}
`))
	require.NoError(t, err)
	assert.Equal(t, "shield", tbl.First())
	assert.Equal(t, 2, tbl.Count())

	_, err = ParseCollectableTable([]byte("kinds: [{name: '', weight: 1}]"))
	assert.Error(t, err)
}
