package spawn

import (
	"math/rand"
	"time"

	"github.com/orbitarena/server/internal/component"
	"github.com/orbitarena/server/internal/core/ecs"
	"github.com/orbitarena/server/internal/world"
)

// AsteroidTuning configures how asteroids are rolled.
type AsteroidTuning struct {
	ScaleMin      float64
	ScaleMax      float64
	FallingChance float64
	Radius        float64
}

// AsteroidPolicy rolls new asteroids inside the arena bounds.
type AsteroidPolicy struct {
	bounds Bounds
	tuning AsteroidTuning
	rng    *rand.Rand
}

func NewAsteroidPolicy(bounds Bounds, tuning AsteroidTuning, rng *rand.Rand) *AsteroidPolicy {
	return &AsteroidPolicy{bounds: bounds, tuning: tuning, rng: rng}
}

// Next rolls one asteroid: falling with FallingChance, scale uniform in
// [ScaleMin, ScaleMax], position uniform in bounds.
func (p *AsteroidPolicy) Next() world.AsteroidSpec {
	variant := component.AsteroidNormal
	if p.rng.Float64() < p.tuning.FallingChance {
		variant = component.AsteroidFalling
	}
	scale := p.tuning.ScaleMin + p.rng.Float64()*(p.tuning.ScaleMax-p.tuning.ScaleMin)
	return world.AsteroidSpec{
		Position: p.bounds.RandomPoint(p.rng),
		Scale:    scale,
		Variant:  variant,
		Radius:   p.tuning.Radius,
	}
}

// Pool tracks the asteroids the field is responsible for keeping alive.
type Pool struct {
	ids    []ecs.EntityID
	target int

	interval time.Duration
	elapsed  time.Duration
}

func NewPool(target int, repairInterval time.Duration) *Pool {
	return &Pool{target: target, interval: repairInterval}
}

func (p *Pool) Add(id ecs.EntityID) { p.ids = append(p.ids, id) }

// Remove drops id from the pool. Returns false if it was not tracked.
func (p *Pool) Remove(id ecs.EntityID) bool {
	for i, cur := range p.ids {
		if cur == id {
			p.ids = append(p.ids[:i], p.ids[i+1:]...)
			return true
		}
	}
	return false
}

// Prune removes every reference whose entity is gone and returns how many
// were removed.
func (p *Pool) Prune(alive func(ecs.EntityID) bool) int {
	kept := p.ids[:0]
	for _, id := range p.ids {
		if alive(id) {
			kept = append(kept, id)
		}
	}
	removed := len(p.ids) - len(kept)
	p.ids = kept
	return removed
}

// Deficit is how many asteroids are missing from the target population.
func (p *Pool) Deficit() int {
	if d := p.target - len(p.ids); d > 0 {
		return d
	}
	return 0
}

func (p *Pool) Len() int    { return len(p.ids) }
func (p *Pool) Target() int { return p.target }

func (p *Pool) IDs() []ecs.EntityID { return p.ids }

// Due accumulates simulated time and reports when a repair pass should run.
func (p *Pool) Due(dt time.Duration) bool {
	p.elapsed += dt
	if p.elapsed < p.interval {
		return false
	}
	p.elapsed -= p.interval
	if p.elapsed >= p.interval {
		p.elapsed = 0
	}
	return true
}
