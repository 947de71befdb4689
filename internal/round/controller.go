// Package round owns the arena's round lifecycle: the player roster, the
// spawners, planetary gravity and the destruction protocol every removal
// of a controller-owned entity goes through.
package round

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/message"

	"github.com/orbitarena/server/internal/config"
	"github.com/orbitarena/server/internal/core/ecs"
	"github.com/orbitarena/server/internal/core/event"
	"github.com/orbitarena/server/internal/physics"
	"github.com/orbitarena/server/internal/spawn"
	"github.com/orbitarena/server/internal/vmath"
	"github.com/orbitarena/server/internal/world"
)

// Controller is driven by two callbacks: Frame (variable dt) and
// PhysicsTick (fixed dt). Neither runs concurrently with the other.
type Controller struct {
	cfg   *config.Config
	world *world.State
	bus   *event.Bus
	svc   Services
	log   *zap.Logger
	rng   *rand.Rand

	field        physics.Field
	bounds       spawn.Bounds
	collectables *spawn.CollectablePolicy
	asteroids    *spawn.AsteroidPolicy
	pool         *spawn.Pool
	orbits       *spawn.OrbitPolicy
	printer      *message.Printer
	wallClock    func() time.Time

	homePlanet ecs.EntityID
	roster     map[int]ecs.EntityID

	// Simulated time, advanced by Frame.
	now          time.Duration
	active       bool
	startTime    time.Duration
	endTime      time.Duration
	warningGiven bool

	round       int64
	roundPoints map[int]int
}

func NewController(cfg *config.Config, ws *world.State, bus *event.Bus, svc Services, rng *rand.Rand, log *zap.Logger) *Controller {
	bounds := spawn.Bounds{Width: cfg.Arena.Width, Depth: cfg.Arena.Depth}
	c := &Controller{
		cfg:   cfg,
		world: ws,
		bus:   bus,
		svc:   svc,
		log:   log,
		rng:   rng,
		field: physics.Field{
			Force:   cfg.Gravity.Force,
			Range:   cfg.Gravity.Range,
			Epsilon: cfg.Gravity.Epsilon,
		},
		bounds: bounds,
		collectables: spawn.NewCollectablePolicy(spawn.CollectableTiming{
			BusyThreshold: cfg.Collectables.BusyThreshold,
			QuietMin:      cfg.Collectables.QuietMin,
			QuietMax:      cfg.Collectables.QuietMax,
			BusyMin:       cfg.Collectables.BusyMin,
			BusyMax:       cfg.Collectables.BusyMax,
		}, rng),
		asteroids: spawn.NewAsteroidPolicy(bounds, spawn.AsteroidTuning{
			ScaleMin:      cfg.Asteroids.ScaleMin,
			ScaleMax:      cfg.Asteroids.ScaleMax,
			FallingChance: cfg.Asteroids.FallingChance,
			Radius:        cfg.Asteroids.Radius,
		}, rng),
		pool:        spawn.NewPool(cfg.Asteroids.Count, cfg.Asteroids.RepairInterval),
		orbits:      spawn.NewOrbitPolicy(cfg.OrbitItems.SpawnChance, cfg.OrbitItems.AttemptInterval, cfg.OrbitItems.Items, rng),
		printer:     newPrinter(),
		wallClock:   time.Now,
		roster:      make(map[int]ecs.EntityID, config.MaxPlayers),
		roundPoints: make(map[int]int),
	}
	if c.svc.Clock == nil {
		c.svc.Clock = c
	}
	return c
}

// LoadWorld places the planets and the initial asteroid field. Asteroids
// persist across rounds, so this runs once regardless of round state.
func (c *Controller) LoadWorld() {
	for i, p := range c.cfg.Planets {
		id := c.world.AddPlanet(p.Name, vmath.Vec3{X: p.X, Z: p.Z}, p.Mass, p.Scale)
		if i == c.cfg.Arena.HomePlanet {
			c.homePlanet = id
		}
	}
	for n := 0; n < c.pool.Target(); n++ {
		c.createAsteroid()
	}
	c.log.Info("world loaded",
		zap.Int("planets", len(c.cfg.Planets)),
		zap.Int("asteroids", c.pool.Len()),
	)
}

// StartNewRound spawns the configured roster and opens a round of length.
func (c *Controller) StartNewRound(length time.Duration) error {
	if c.active {
		return ErrRoundActive
	}
	for id := 0; id < c.cfg.Round.ActivePlayers; id++ {
		if err := c.CreatePlayer(id); err != nil && !errors.Is(err, ErrPlayerExists) {
			return fmt.Errorf("start round: %w", err)
		}
	}

	c.collectables.Reset(len(c.roster))
	c.warningGiven = false
	c.active = true
	c.round++
	clear(c.roundPoints)

	c.svc.Announcer.Speak("Board your ships.")

	c.startTime = c.now
	c.endTime = c.now + length
	c.svc.Display.ShowCountdown("")

	event.Emit(c.bus, event.RoundStarted{Round: c.round, Length: length, StartedAt: c.wallClock()})
	c.log.Info("round started",
		zap.Int64("round", c.round),
		zap.Duration("length", length),
		zap.Int("players", len(c.roster)),
	)
	return nil
}

// StopRound tears the roster down without scoring or death sounds.
func (c *Controller) StopRound() error {
	if !c.active {
		return ErrRoundInactive
	}
	for _, id := range c.Roster() {
		c.DestroyWithExplosion(c.roster[id], false, false, NoPlayer)
	}
	clear(c.roster)
	c.svc.Announcer.PlayClip(ClipExplosion)

	c.active = false
	c.svc.Announcer.Speak("Time's up.")
	played := c.now - c.startTime

	c.startTime = 0
	c.endTime = 0
	c.svc.Display.Hide()

	event.Emit(c.bus, event.RoundEnded{
		Round:   c.round,
		EndedAt: c.wallClock(),
		Scores:  copyCounts(c.roundPoints),
	})
	c.log.Info("round stopped", zap.Int64("round", c.round), zap.Duration("played", played))
	return nil
}

// Frame runs the per-frame orchestration. Only simulated time advances
// while the round is inactive.
func (c *Controller) Frame(dt time.Duration) {
	c.now += dt
	if !c.active {
		return
	}

	for id := 0; id < c.cfg.Round.ActivePlayers; id++ {
		if _, ok := c.roster[id]; ok {
			continue
		}
		if c.svc.Input.IsSpawnPressed(id) {
			c.log.Debug("spawn pressed", zap.Int("player", id))
			if err := c.CreatePlayer(id); err != nil {
				c.log.Warn("spawn refused", zap.Int("player", id), zap.Error(err))
			}
		}
	}

	if c.collectables.Advance(dt, len(c.roster)) {
		c.createCollectable()
	}

	if !c.warningGiven && c.svc.Clock.SecondsRemaining() < c.cfg.Round.WarningAt.Seconds() {
		c.svc.Announcer.Speak(c.printer.Sprintf(msgWarning, int(c.cfg.Round.WarningAt.Seconds())))
		c.warningGiven = true
	}

	c.svc.Display.ShowCountdown(c.printer.Sprintf(msgCountdown, max(0, int((c.endTime-c.now).Seconds()))))

	if item, ok := c.orbits.Attempt(c.now); ok {
		c.createOrbitItem(item)
	}

	c.trackIdle(dt)
}

// PhysicsTick applies planetary gravity to every ship in the roster.
func (c *Controller) PhysicsTick(dt time.Duration) {
	if !c.active || len(c.roster) == 0 {
		return
	}
	sources := c.world.MassSources()
	for _, id := range c.Roster() {
		body, ok := c.world.Bodies.Get(c.roster[id])
		if !ok {
			continue
		}
		c.field.Apply(dt.Seconds(), sources, body)
	}
}

// AdvanceRepair runs the asteroid repair pass once per repair interval.
func (c *Controller) AdvanceRepair(dt time.Duration) int {
	if !c.pool.Due(dt) {
		return 0
	}
	return c.RepairAsteroids()
}

// RepairAsteroids replaces asteroids that vanished without going through
// DestroyAsteroid and tops the field back up to its target size. No-op
// while inactive. Returns how many asteroids were created.
func (c *Controller) RepairAsteroids() int {
	if !c.active {
		return 0
	}
	invalid := c.pool.Prune(c.world.Alive)
	if invalid > 0 {
		c.log.Info("replacing invalid asteroids", zap.Int("count", invalid))
	}
	created := 0
	for c.pool.Deficit() > 0 {
		c.createAsteroid()
		created++
	}
	return created
}

// CreatePlayer spawns the ship for id at its slot around the home planet.
func (c *Controller) CreatePlayer(id int) error {
	if id < 0 || id >= config.MaxPlayers {
		c.log.Error("invalid player id", zap.Int("player", id), zap.Int("max", config.MaxPlayers-1))
		return fmt.Errorf("%w: %d", ErrInvalidPlayerID, id)
	}
	if _, ok := c.roster[id]; ok {
		c.log.Warn("player already spawned", zap.Int("player", id))
		return fmt.Errorf("%w: %d", ErrPlayerExists, id)
	}

	pos, vel := c.launch(id)
	ship := c.world.SpawnShip(id, pos, c.cfg.Ships.Mass, c.cfg.Ships.Radius)
	if b, ok := c.world.Bodies.Get(ship); ok {
		b.Velocity = vel
	}
	c.roster[id] = ship

	keys := c.svc.Input.KeyBindings(id)
	if s, ok := c.world.Ships.Get(ship); ok {
		s.FireButton = keys.Fire
	}
	info := c.svc.Players.PlayerInformation(id)
	c.addPoints(id, 0)

	if c.cfg.Round.IdleTimeout > 0 {
		c.world.Timer(ship).Start(c.cfg.Round.IdleTimeout, c)
	}

	event.Emit(c.bus, event.PlayerJoined{PlayerID: id, Ship: ship})
	c.log.Info("player joined",
		zap.Int("player", id),
		zap.String("name", info.Name),
		zap.String("spawn_button", keys.Spawn),
	)
	return nil
}

// launch offsets each id along its own direction on the unit circle, so
// no two players share a spawn point, and sets the ship moving
// counterclockwise at orbital speed so gravity bends it around the home
// planet instead of into it.
func (c *Controller) launch(id int) (pos, vel vmath.Vec3) {
	var home vmath.Vec3
	var scale, mass float64
	if b, ok := c.world.Bodies.Get(c.homePlanet); ok {
		home = b.Position
		mass = b.Mass
		scale = vmath.Vec3{X: b.Scale, Y: b.Scale, Z: b.Scale}.Magnitude()
	}
	dir := vmath.UnitCircle(2 * math.Pi * float64(id) / config.MaxPlayers)
	dist := c.cfg.Arena.SpawnDistance * scale
	tangent := vmath.Vec3{X: -dir.Z, Z: dir.X}
	return home.Add(dir.Scale(dist)), tangent.Scale(c.field.OrbitalSpeed(mass, dist))
}

// DestroyWithExplosion is the only sanctioned way to remove a ship. Score
// and sound side effects apply only when the ship actually leaves the
// roster; the explosion and removal always happen.
func (c *Controller) DestroyWithExplosion(id ecs.EntityID, awardScore, playSound bool, responsible int) {
	pos, ok := c.world.Position(id)
	if !ok {
		c.log.Warn("destroy of dead entity", zap.Stringer("entity", id))
		return
	}

	if id.Kind() == ecs.KindShip {
		if ship, ok := c.world.Ships.Get(id); ok && c.removeFromRoster(ship.PlayerID, id) {
			pid := ship.PlayerID
			c.log.Info("player died", zap.Int("player", pid), zap.Bool("penalized", awardScore))
			if awardScore {
				c.addPoints(pid, c.cfg.Round.DeathPenalty)
				event.Emit(c.bus, event.PlayerDied{PlayerID: pid})
			}
			if playSound {
				c.svc.Insults.PlayerDied(pid)
				c.svc.Announcer.PlayClip(ClipExplosion)
			}
		}
	}

	c.explode(pos, responsible, 0)
	c.world.Destroy(id)
}

func (c *Controller) removeFromRoster(playerID int, ship ecs.EntityID) bool {
	cur, ok := c.roster[playerID]
	if !ok || cur != ship {
		return false
	}
	delete(c.roster, playerID)
	return true
}

// DestroyAsteroid removes a pooled asteroid and spawns its replacement.
// An untracked asteroid is still destroyed.
func (c *Controller) DestroyAsteroid(id ecs.EntityID, responsible int) {
	if c.pool.Remove(id) {
		c.log.Debug("replacing destroyed asteroid", zap.Stringer("entity", id))
		c.createAsteroid()
	} else {
		c.log.Warn("destroying asteroid that is not in the pool", zap.Stringer("entity", id))
	}

	pos, ok := c.world.Position(id)
	if !ok {
		return
	}
	scale := 0.0
	if a, ok := c.world.Asteroids.Get(id); ok {
		scale = a.Scale
	}
	c.explode(pos, responsible, scale)
	c.world.Destroy(id)
}

// TimeoutElapsed handles every entity timer. Ship timeouts are
// non-punitive removals; anything else is removed directly.
func (c *Controller) TimeoutElapsed(id ecs.EntityID) {
	switch id.Kind() {
	case ecs.KindShip:
		c.log.Info("ship timed out", zap.Stringer("entity", id))
		c.DestroyWithExplosion(id, false, false, NoPlayer)
	default:
		c.world.Destroy(id)
	}
}

// SecondsRemaining answers the session clock from the round end time.
func (c *Controller) SecondsRemaining() float64 {
	if !c.active {
		return 0
	}
	return max(0, (c.endTime - c.now).Seconds())
}

// Expired reports whether an active round has run out of time.
func (c *Controller) Expired() bool {
	return c.active && c.now >= c.endTime
}

func (c *Controller) Active() bool { return c.active }

func (c *Controller) Round() int64 { return c.round }

// ResumeFrom continues round numbering after a previously recorded round.
func (c *Controller) ResumeFrom(round int64) {
	if round > c.round {
		c.round = round
	}
}

func (c *Controller) Now() time.Duration { return c.now }

// Roster returns the joined player ids in ascending order.
func (c *Controller) Roster() []int {
	ids := make([]int, 0, len(c.roster))
	for id := range c.roster {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (c *Controller) Ship(playerID int) (ecs.EntityID, bool) {
	id, ok := c.roster[playerID]
	return id, ok
}

func (c *Controller) Asteroids() []ecs.EntityID { return c.pool.IDs() }

func (c *Controller) CollectableCountdown() time.Duration { return c.collectables.Remaining() }

func (c *Controller) explode(pos vmath.Vec3, responsible int, scale float64) {
	asset := DefaultExplosion
	if responsible != NoPlayer {
		asset = c.svc.Players.PlayerInformation(responsible).ExplosionAsset
	}
	c.svc.Effects.Explosion(pos, asset, scale)
}

func (c *Controller) addPoints(playerID, delta int) {
	c.svc.Score.AddPoints(playerID, delta)
	c.roundPoints[playerID] += delta
}

func (c *Controller) createAsteroid() ecs.EntityID {
	spec := c.asteroids.Next()
	id := c.world.SpawnAsteroid(spec)
	c.pool.Add(id)
	c.log.Debug("asteroid created",
		zap.Stringer("entity", id),
		zap.Stringer("variant", spec.Variant),
		zap.Float64("scale", spec.Scale),
	)
	return id
}

func (c *Controller) createCollectable() {
	kind := c.svc.Collectable.ChooseCollectable()
	id := c.world.SpawnCollectable(kind, c.bounds.RandomPoint(c.rng), c.cfg.Collectables.PickupRadius)
	t := c.world.Timer(id)
	t.Listen(c)
	if c.cfg.Collectables.Lifetime > 0 {
		t.Start(c.cfg.Collectables.Lifetime, nil)
	}
	c.log.Debug("collectable created",
		zap.Stringer("entity", id),
		zap.String("kind", kind),
		zap.Duration("next_in", c.collectables.Remaining()),
	)
}

func (c *Controller) createOrbitItem(itemType string) {
	orbit := c.svc.Orbits.Orbit()
	if len(orbit.Path) == 0 {
		c.log.Warn("orbit provider returned an empty path", zap.String("item", itemType))
		return
	}
	id := c.world.SpawnOrbitItem(itemType, orbit.Path, orbit.Duration)
	c.world.Timer(id).Start(orbit.Duration, c)
	c.log.Debug("orbit item launched",
		zap.Stringer("entity", id),
		zap.String("item", itemType),
		zap.Duration("duration", orbit.Duration),
	)
}

// trackIdle accumulates idle time and restarts a ship's timeout whenever
// its player touches a control.
func (c *Controller) trackIdle(dt time.Duration) {
	for _, pid := range c.Roster() {
		id := c.roster[pid]
		ship, ok := c.world.Ships.Get(id)
		if !ok {
			continue
		}
		if !c.svc.Input.Active(pid) {
			ship.IdleTime += dt
			continue
		}
		ship.IdleTime = 0
		if c.cfg.Round.IdleTimeout > 0 {
			c.world.Timer(id).Start(c.cfg.Round.IdleTimeout, nil)
		}
	}
}

func copyCounts(m map[int]int) map[int]int {
	out := make(map[int]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
