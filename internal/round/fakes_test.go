package round

import (
	"fmt"
	"time"

	"github.com/orbitarena/server/internal/vmath"
)

type pointsCall struct{ player, delta int }

type fakeScore struct{ calls []pointsCall }

func (f *fakeScore) AddPoints(player, delta int) {
	f.calls = append(f.calls, pointsCall{player, delta})
}

func (f *fakeScore) deltasFor(player int) []int {
	var out []int
	for _, c := range f.calls {
		if c.player == player {
			out = append(out, c.delta)
		}
	}
	return out
}

type fakeAnnouncer struct {
	lines []string
	clips []Clip
}

func (f *fakeAnnouncer) Speak(text string)  { f.lines = append(f.lines, text) }
func (f *fakeAnnouncer) PlayClip(clip Clip) { f.clips = append(f.clips, clip) }

func (f *fakeAnnouncer) count(line string) int {
	n := 0
	for _, l := range f.lines {
		if l == line {
			n++
		}
	}
	return n
}

type fakeInsults struct{ died []int }

func (f *fakeInsults) PlayerDied(player int) { f.died = append(f.died, player) }

type fakePlayers struct{}

func (fakePlayers) PlayerInformation(id int) PlayerInfo {
	return PlayerInfo{Name: fmt.Sprintf("pilot-%d", id), ExplosionAsset: fmt.Sprintf("explosion-%d", id)}
}

type fakeOrbits struct{ orbit Orbit }

func (f fakeOrbits) Orbit() Orbit { return f.orbit }

type fakeInput struct {
	pressed map[int]bool
	active  map[int]bool
}

func (f *fakeInput) IsSpawnPressed(id int) bool { return f.pressed[id] }
func (f *fakeInput) Active(id int) bool         { return f.active[id] }
func (f *fakeInput) KeyBindings(id int) KeyBindings {
	return KeyBindings{Spawn: fmt.Sprintf("Spawn%d", id), Fire: fmt.Sprintf("Fire%d", id)}
}

type explosion struct {
	pos   vmath.Vec3
	asset string
	scale float64
}

type fakeEffects struct{ explosions []explosion }

func (f *fakeEffects) Explosion(pos vmath.Vec3, asset string, scale float64) {
	f.explosions = append(f.explosions, explosion{pos, asset, scale})
}

type fakeDisplay struct {
	shown  []string
	hidden int
}

func (f *fakeDisplay) ShowCountdown(text string) { f.shown = append(f.shown, text) }
func (f *fakeDisplay) Hide()                     { f.hidden++ }

func (f *fakeDisplay) last() string {
	if len(f.shown) == 0 {
		return ""
	}
	return f.shown[len(f.shown)-1]
}

type fixedChooser string

func (c fixedChooser) ChooseCollectable() string { return string(c) }

var testOrbit = Orbit{
	Path:     []vmath.Vec3{{X: -60, Z: 10}, {X: 0, Z: 25}, {X: 60, Z: 10}},
	Duration: 8 * time.Second,
}
