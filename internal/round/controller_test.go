package round

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orbitarena/server/internal/config"
	"github.com/orbitarena/server/internal/core/ecs"
	"github.com/orbitarena/server/internal/core/event"
	"github.com/orbitarena/server/internal/physics"
	"github.com/orbitarena/server/internal/spawn"
	"github.com/orbitarena/server/internal/vmath"
	"github.com/orbitarena/server/internal/world"
)

type harness struct {
	cfg       *config.Config
	ctrl      *Controller
	world     *world.State
	bus       *event.Bus
	score     *fakeScore
	announcer *fakeAnnouncer
	insults   *fakeInsults
	input     *fakeInput
	effects   *fakeEffects
	display   *fakeDisplay
}

func newHarness(t *testing.T, tweak func(*config.Config)) *harness {
	t.Helper()
	cfg := config.Defaults()
	if tweak != nil {
		tweak(cfg)
	}
	require.NoError(t, cfg.Validate())

	h := &harness{
		cfg:       cfg,
		world:     world.NewState(zap.NewNop()),
		bus:       event.NewBus(),
		score:     &fakeScore{},
		announcer: &fakeAnnouncer{},
		insults:   &fakeInsults{},
		input:     &fakeInput{pressed: map[int]bool{}, active: map[int]bool{}},
		effects:   &fakeEffects{},
		display:   &fakeDisplay{},
	}
	h.ctrl = NewController(cfg, h.world, h.bus, Services{
		Score:       h.score,
		Announcer:   h.announcer,
		Insults:     h.insults,
		Players:     fakePlayers{},
		Orbits:      fakeOrbits{orbit: testOrbit},
		Input:       h.input,
		Effects:     h.effects,
		Display:     h.display,
		Collectable: fixedChooser("shield"),
	}, rand.New(rand.NewSource(42)), zap.NewNop())
	h.ctrl.LoadWorld()
	return h
}

func (h *harness) ship(t *testing.T, player int) ecs.EntityID {
	t.Helper()
	id, ok := h.ctrl.Ship(player)
	require.True(t, ok, "player %d not in roster", player)
	return id
}

func TestStartNewRoundSpawnsRoster(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.ctrl.StartNewRound(time.Minute))

	assert.True(t, h.ctrl.Active())
	assert.Equal(t, []int{0, 1, 2, 3}, h.ctrl.Roster())
	assert.Equal(t, 1, h.announcer.count("Board your ships."))
	assert.Equal(t, []string{""}, h.display.shown)

	want := 1.2 * 4 * math.Sqrt(3)
	seen := map[vmath.Vec3]bool{}
	for _, id := range h.ctrl.Roster() {
		assert.Equal(t, []int{0}, h.score.deltasFor(id), "join registers with zero points")
		pos, ok := h.world.Position(h.ship(t, id))
		require.True(t, ok)
		assert.InDelta(t, want, pos.Magnitude(), 1e-9)
		assert.False(t, seen[pos], "spawn point shared")
		seen[pos] = true

		s, _ := h.world.Ships.Get(h.ship(t, id))
		assert.Equal(t, "Fire"+string(rune('0'+id)), s.FireButton)
	}
}

func TestRoundStateTransitionsAreGuarded(t *testing.T) {
	h := newHarness(t, nil)
	assert.ErrorIs(t, h.ctrl.StopRound(), ErrRoundInactive)
	require.NoError(t, h.ctrl.StartNewRound(time.Minute))
	assert.ErrorIs(t, h.ctrl.StartNewRound(time.Minute), ErrRoundActive)
}

func TestCreatePlayerRefusesInvalidAndDuplicate(t *testing.T) {
	h := newHarness(t, nil)

	assert.ErrorIs(t, h.ctrl.CreatePlayer(-1), ErrInvalidPlayerID)
	assert.ErrorIs(t, h.ctrl.CreatePlayer(config.MaxPlayers), ErrInvalidPlayerID)
	require.NoError(t, h.ctrl.CreatePlayer(7))
	assert.ErrorIs(t, h.ctrl.CreatePlayer(7), ErrPlayerExists)

	assert.Equal(t, []int{7}, h.ctrl.Roster())
	assert.Equal(t, 1, h.world.Count(ecs.KindShip))
}

func TestCollectableCountdownScenario(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Round.ActivePlayers = 0 })
	require.NoError(t, h.ctrl.StartNewRound(60*time.Second))

	first := h.ctrl.CollectableCountdown()
	require.GreaterOrEqual(t, first, time.Second)
	require.LessOrEqual(t, first, 10*time.Second)

	h.ctrl.Frame(first)

	require.Equal(t, 1, h.world.Count(ecs.KindCollectable))
	bounds := spawn.Bounds{Width: h.cfg.Arena.Width, Depth: h.cfg.Arena.Depth}
	for _, id := range h.world.Collectables.IDs() {
		pos, _ := h.world.Position(id)
		assert.True(t, bounds.Contains(pos))
		assert.Zero(t, pos.Y)
		item, _ := h.world.Collectables.Get(id)
		assert.Equal(t, "shield", item.Kind)

		tm, ok := h.world.Timers.Get(id)
		require.True(t, ok, "timeout listener registered")
		assert.False(t, tm.Running(), "collectables never expire by default")
	}

	next := h.ctrl.CollectableCountdown()
	assert.GreaterOrEqual(t, next, time.Second)
	assert.LessOrEqual(t, next, 10*time.Second)
}

func TestDestroyWithExplosionScenario(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Round.ActivePlayers = 1 })
	require.NoError(t, h.ctrl.StartNewRound(time.Minute))
	ship := h.ship(t, 0)
	last, _ := h.world.Position(ship)
	h.score.calls = nil

	h.ctrl.DestroyWithExplosion(ship, true, false, NoPlayer)

	assert.Empty(t, h.ctrl.Roster())
	assert.Equal(t, []pointsCall{{0, h.cfg.Round.DeathPenalty}}, h.score.calls)
	require.Len(t, h.effects.explosions, 1)
	assert.Equal(t, last, h.effects.explosions[0].pos)
	assert.Equal(t, DefaultExplosion, h.effects.explosions[0].asset)
	assert.False(t, h.world.Alive(ship))
	assert.Empty(t, h.insults.died)
	assert.Empty(t, h.announcer.clips)

	h.ctrl.DestroyWithExplosion(ship, true, true, NoPlayer)
	assert.Len(t, h.score.calls, 1, "second destroy is a no-op")
	assert.Len(t, h.effects.explosions, 1)
}

func TestDestroyWithSoundAndResponsiblePlayer(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Round.ActivePlayers = 2 })
	require.NoError(t, h.ctrl.StartNewRound(time.Minute))

	h.ctrl.DestroyWithExplosion(h.ship(t, 1), false, true, 0)

	assert.Equal(t, []int{1}, h.insults.died)
	assert.Equal(t, []Clip{ClipExplosion}, h.announcer.clips)
	assert.Equal(t, []int{0}, h.score.deltasFor(1), "no penalty without awardScore")
	require.Len(t, h.effects.explosions, 1)
	assert.Equal(t, "explosion-0", h.effects.explosions[0].asset)
}

func TestStopRoundTearsDownQuietly(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Round.ActivePlayers = 3 })

	var ended []event.RoundEnded
	event.Subscribe(h.bus, func(e event.RoundEnded) { ended = append(ended, e) })

	require.NoError(t, h.ctrl.StartNewRound(time.Minute))
	require.NoError(t, h.ctrl.StopRound())

	assert.False(t, h.ctrl.Active())
	assert.Empty(t, h.ctrl.Roster())
	assert.Zero(t, h.world.Count(ecs.KindShip))
	assert.Len(t, h.effects.explosions, 3)
	assert.Equal(t, []Clip{ClipExplosion}, h.announcer.clips)
	assert.Empty(t, h.insults.died)
	for _, c := range h.score.calls {
		assert.Zero(t, c.delta)
	}
	assert.Equal(t, "Time's up.", h.announcer.lines[len(h.announcer.lines)-1])
	assert.Equal(t, 1, h.display.hidden)
	assert.Zero(t, h.ctrl.SecondsRemaining())

	h.bus.SwapBuffers()
	h.bus.DispatchAll()
	require.Len(t, ended, 1)
	assert.Equal(t, int64(1), ended[0].Round)
}

func TestWarningFiresOnce(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Round.ActivePlayers = 0 })
	require.NoError(t, h.ctrl.StartNewRound(60*time.Second))

	for i := 0; i < 59; i++ {
		h.ctrl.Frame(time.Second)
		if i == 29 {
			assert.Zero(t, h.announcer.count("You have 30 seconds"), "exactly 30s left is not below the threshold")
		}
	}
	assert.Equal(t, 1, h.announcer.count("You have 30 seconds"))
}

func TestWarningPluralizesSeconds(t *testing.T) {
	h := newHarness(t, func(c *config.Config) {
		c.Round.ActivePlayers = 0
		c.Round.WarningAt = time.Second
	})
	require.NoError(t, h.ctrl.StartNewRound(10*time.Second))

	h.ctrl.Frame(9500 * time.Millisecond)
	assert.Equal(t, 1, h.announcer.count("You have 1 second"))
	assert.Zero(t, h.announcer.count("You have 1 seconds"))
}

func TestCountdownDisplay(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Round.ActivePlayers = 0 })
	require.NoError(t, h.ctrl.StartNewRound(60*time.Second))

	h.ctrl.Frame(1500 * time.Millisecond)
	assert.Equal(t, "58 SEC", h.display.last())

	h.ctrl.Frame(2 * time.Minute)
	assert.Equal(t, "0 SEC", h.display.last())
	assert.True(t, h.ctrl.Expired())
}

func TestSpawnInputFillsEmptySlotsOnly(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Round.ActivePlayers = 2 })
	require.NoError(t, h.ctrl.StartNewRound(time.Minute))
	h.ctrl.DestroyWithExplosion(h.ship(t, 1), true, true, NoPlayer)

	h.input.pressed[0] = true
	h.input.pressed[1] = true
	h.input.pressed[5] = true
	h.ctrl.Frame(10 * time.Millisecond)

	assert.Equal(t, []int{0, 1}, h.ctrl.Roster())
	assert.Equal(t, 2, h.world.Count(ecs.KindShip))
}

func TestInactiveFrameIsNoop(t *testing.T) {
	h := newHarness(t, nil)
	h.input.pressed[0] = true
	h.ctrl.Frame(30 * time.Second)

	assert.Empty(t, h.ctrl.Roster())
	assert.Zero(t, h.world.Count(ecs.KindCollectable))
	assert.Empty(t, h.display.shown)
	assert.Equal(t, 30*time.Second, h.ctrl.Now())
}

func TestShipTimeoutIsNotPunitive(t *testing.T) {
	h := newHarness(t, func(c *config.Config) {
		c.Round.ActivePlayers = 1
		c.Round.IdleTimeout = 10 * time.Second
	})
	require.NoError(t, h.ctrl.StartNewRound(time.Minute))
	ship := h.ship(t, 0)

	tm, ok := h.world.Timers.Get(ship)
	require.True(t, ok)
	assert.True(t, tm.Advance(10*time.Second))

	assert.Empty(t, h.ctrl.Roster())
	assert.False(t, h.world.Alive(ship))
	assert.Equal(t, []int{0}, h.score.deltasFor(0))
	assert.Empty(t, h.insults.died)
	assert.Len(t, h.effects.explosions, 1)
}

func TestPlayerDiedOnlyForPenalizedDeaths(t *testing.T) {
	h := newHarness(t, func(c *config.Config) {
		c.Round.ActivePlayers = 3
		c.Round.IdleTimeout = 10 * time.Second
	})
	var died []event.PlayerDied
	event.Subscribe(h.bus, func(e event.PlayerDied) { died = append(died, e) })
	require.NoError(t, h.ctrl.StartNewRound(time.Minute))

	tm, _ := h.world.Timers.Get(h.ship(t, 0))
	tm.Advance(10 * time.Second)
	h.ctrl.DestroyWithExplosion(h.ship(t, 1), true, true, NoPlayer)
	require.NoError(t, h.ctrl.StopRound())

	h.bus.SwapBuffers()
	h.bus.DispatchAll()
	assert.Equal(t, []event.PlayerDied{{PlayerID: 1}}, died)
}

func TestActivityRestartsIdleTimer(t *testing.T) {
	h := newHarness(t, func(c *config.Config) {
		c.Round.ActivePlayers = 1
		c.Round.IdleTimeout = 10 * time.Second
	})
	require.NoError(t, h.ctrl.StartNewRound(time.Minute))
	ship := h.ship(t, 0)
	tm, _ := h.world.Timers.Get(ship)

	h.ctrl.Frame(5 * time.Second)
	tm.Advance(5 * time.Second)
	s, _ := h.world.Ships.Get(ship)
	assert.Equal(t, 5*time.Second, s.IdleTime)

	h.input.active[0] = true
	h.ctrl.Frame(time.Second)
	assert.Zero(t, s.IdleTime)
	assert.Equal(t, 10*time.Second, tm.Remaining())
}

func TestOtherTimeoutRemovesDirectly(t *testing.T) {
	h := newHarness(t, func(c *config.Config) {
		c.Round.ActivePlayers = 0
		c.Collectables.Lifetime = 3 * time.Second
	})
	require.NoError(t, h.ctrl.StartNewRound(time.Minute))
	h.ctrl.Frame(h.ctrl.CollectableCountdown())
	ids := h.world.Collectables.IDs()
	require.Len(t, ids, 1)

	tm, _ := h.world.Timers.Get(ids[0])
	assert.True(t, tm.Running())
	tm.Advance(3 * time.Second)

	assert.False(t, h.world.Alive(ids[0]))
	assert.Empty(t, h.effects.explosions)
}

func TestPhysicsTickAppliesGravity(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Round.ActivePlayers = 2 })
	require.NoError(t, h.ctrl.StartNewRound(time.Minute))

	near, _ := h.world.Bodies.Get(h.ship(t, 0))
	far, _ := h.world.Bodies.Get(h.ship(t, 1))
	far.Position = vmath.Vec3{X: 40, Z: 20}
	far.Velocity = vmath.Vec3{X: 3}
	far.AngularVelocity = vmath.Vec3{Y: 1}

	h.ctrl.PhysicsTick(20 * time.Millisecond)

	// Ship 0 spawns on +X of the home planet, so gravity pulls toward -X.
	assert.Less(t, near.Impulse.X, 0.0)
	assert.Zero(t, near.Impulse.Y)
	assert.Equal(t, vmath.Vec3{}, far.Velocity)
	assert.Equal(t, vmath.Vec3{}, far.AngularVelocity)
}

func TestPhysicsTickIdleWhileInactive(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.ctrl.CreatePlayer(0))
	body, _ := h.world.Bodies.Get(h.ship(t, 0))
	body.Position = vmath.Vec3{X: 45}
	body.Velocity = vmath.Vec3{Z: 2}

	h.ctrl.PhysicsTick(20 * time.Millisecond)
	assert.Equal(t, vmath.Vec3{Z: 2}, body.Velocity)
}

func TestDefaultRosterSurvivesOrbit(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Asteroids.Count = 0 })
	require.NoError(t, h.ctrl.StartNewRound(time.Minute))
	planet, _ := h.world.Bodies.Get(h.ctrl.homePlanet)

	const step = 20 * time.Millisecond
	for i := 0; i < 100; i++ {
		h.ctrl.PhysicsTick(step)
		for _, id := range h.ctrl.Roster() {
			ship := h.ship(t, id)
			body, _ := h.world.Bodies.Get(ship)
			physics.Integrate(body, step.Seconds())
			if physics.Overlaps(body, planet) {
				h.ctrl.ShipHitPlanet(ship)
			}
		}
	}

	assert.Equal(t, []int{0, 1, 2, 3}, h.ctrl.Roster())
	for id := 0; id < 4; id++ {
		assert.NotContains(t, h.score.deltasFor(id), -1)
	}
	assert.Empty(t, h.insults.died)
}

func TestAsteroidPopulationRestoredWithinInterval(t *testing.T) {
	h := newHarness(t, nil)
	require.Len(t, h.ctrl.Asteroids(), 10, "field exists before any round")
	require.NoError(t, h.ctrl.StartNewRound(time.Minute))

	for _, id := range h.ctrl.Asteroids()[:3] {
		h.world.Destroy(id)
	}
	assert.Equal(t, 7, h.world.Count(ecs.KindAsteroid))

	created := 0
	for i := 0; i < 4; i++ {
		created += h.ctrl.AdvanceRepair(time.Second)
	}
	assert.Equal(t, 3, created)
	assert.Len(t, h.ctrl.Asteroids(), 10)
	assert.Equal(t, 10, h.world.Count(ecs.KindAsteroid))
	for _, id := range h.ctrl.Asteroids() {
		assert.True(t, h.world.Alive(id))
	}
}

func TestRepairSkippedWhileInactive(t *testing.T) {
	h := newHarness(t, nil)
	h.world.Destroy(h.ctrl.Asteroids()[0])
	assert.Zero(t, h.ctrl.RepairAsteroids())
	assert.Equal(t, 9, h.world.Count(ecs.KindAsteroid))
}

func TestDestroyAsteroidReplacesOnce(t *testing.T) {
	h := newHarness(t, nil)
	target := h.ctrl.Asteroids()[0]
	rock, _ := h.world.Asteroids.Get(target)
	scale := rock.Scale

	h.ctrl.DestroyAsteroid(target, 2)

	assert.False(t, h.world.Alive(target))
	assert.Len(t, h.ctrl.Asteroids(), 10)
	require.Len(t, h.effects.explosions, 1)
	assert.Equal(t, "explosion-2", h.effects.explosions[0].asset)
	assert.Equal(t, scale, h.effects.explosions[0].scale)

	h.ctrl.DestroyAsteroid(target, NoPlayer)
	assert.Len(t, h.ctrl.Asteroids(), 10, "untracked destroy spawns no replacement")
	assert.Equal(t, 10, h.world.Count(ecs.KindAsteroid))
}

func TestOrbitItemLaunchesAndExpires(t *testing.T) {
	h := newHarness(t, func(c *config.Config) {
		c.Round.ActivePlayers = 0
		c.OrbitItems.SpawnChance = 1
		c.OrbitItems.Items = []string{"satellite"}
	})
	require.NoError(t, h.ctrl.StartNewRound(2*time.Minute))

	for i := 0; i < 20; i++ {
		h.ctrl.Frame(time.Second)
	}
	assert.Zero(t, h.world.Count(ecs.KindOrbitItem))

	h.ctrl.Frame(time.Second)
	ids := h.world.OrbitItems.IDs()
	require.Len(t, ids, 1)
	pos, _ := h.world.Position(ids[0])
	assert.Equal(t, testOrbit.Path[0], pos)

	tm, _ := h.world.Timers.Get(ids[0])
	tm.Advance(testOrbit.Duration)
	assert.False(t, h.world.Alive(ids[0]))
}

func TestCollisionHandlers(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Round.ActivePlayers = 2 })
	require.NoError(t, h.ctrl.StartNewRound(time.Minute))

	var picked []event.CollectablePicked
	event.Subscribe(h.bus, func(e event.CollectablePicked) { picked = append(picked, e) })

	item := h.world.SpawnCollectable("boost", vmath.Vec3{}, 1)
	h.ctrl.PickUp(h.ship(t, 0), item)
	s, _ := h.world.Ships.Get(h.ship(t, 0))
	assert.Equal(t, []string{"boost"}, s.Collectables)
	assert.False(t, h.world.Alive(item))

	rock := h.ctrl.Asteroids()[0]
	h.ctrl.ShipHitAsteroid(h.ship(t, 1), rock)
	assert.Equal(t, []int{0}, h.ctrl.Roster())
	assert.Equal(t, []int{0, -1}, h.score.deltasFor(1))
	assert.False(t, h.world.Alive(rock))
	assert.Len(t, h.ctrl.Asteroids(), 10)

	h.bus.SwapBuffers()
	h.bus.DispatchAll()
	require.Len(t, picked, 1)
	assert.Equal(t, 0, picked[0].PlayerID)
}

func TestResumeFromContinuesNumbering(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Round.ActivePlayers = 0 })
	h.ctrl.ResumeFrom(41)
	h.ctrl.ResumeFrom(3)
	require.NoError(t, h.ctrl.StartNewRound(time.Minute))
	assert.Equal(t, int64(42), h.ctrl.Round())
}
