package handler

import (
	"github.com/orbitarena/server/internal/config"
	"github.com/orbitarena/server/internal/round"
)

// Roster resolves the name and button labels of a player slot.
type Roster interface {
	round.PlayerDirectory
	KeyBindings(playerID int) round.KeyBindings
}

// Pads is the per-frame controller state of every player slot. Edges
// are latched by handlers during the input phase and cleared by
// BeginFrame, so each press is seen by exactly one frame.
type Pads struct {
	roster Roster
	bound  [config.MaxPlayers]uint64 // session id per slot, 0 = free
	spawn  [config.MaxPlayers]bool
	active [config.MaxPlayers]bool
}

func NewPads(roster Roster) *Pads {
	return &Pads{roster: roster}
}

// BeginFrame clears the latched edges of the previous frame.
func (p *Pads) BeginFrame() {
	p.spawn = [config.MaxPlayers]bool{}
	p.active = [config.MaxPlayers]bool{}
}

func validSlot(id int) bool { return id >= 0 && id < config.MaxPlayers }

// Bind claims slot id for a session. False if the slot is out of range or
// already held by another session.
func (p *Pads) Bind(id int, session uint64) bool {
	if !validSlot(id) {
		return false
	}
	if cur := p.bound[id]; cur != 0 && cur != session {
		return false
	}
	p.bound[id] = session
	return true
}

// Unbind frees whatever slot session holds.
func (p *Pads) Unbind(session uint64) {
	for i, s := range p.bound {
		if s == session {
			p.bound[i] = 0
			p.spawn[i] = false
			p.active[i] = false
		}
	}
}

func (p *Pads) PressSpawn(id int) {
	if validSlot(id) {
		p.spawn[id] = true
		p.active[id] = true
	}
}

func (p *Pads) Touch(id int) {
	if validSlot(id) {
		p.active[id] = true
	}
}

func (p *Pads) IsSpawnPressed(id int) bool {
	return validSlot(id) && p.spawn[id]
}

func (p *Pads) Active(id int) bool {
	return validSlot(id) && p.active[id]
}

func (p *Pads) KeyBindings(id int) round.KeyBindings {
	return p.roster.KeyBindings(id)
}

func (p *Pads) PlayerName(id int) string {
	return p.roster.PlayerInformation(id).Name
}
