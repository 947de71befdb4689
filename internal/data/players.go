package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/orbitarena/server/internal/round"
)

// PlayerEntry is the static identity of one player slot.
type PlayerEntry struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	Explosion   string `yaml:"explosion"`
	SpawnButton string `yaml:"spawn_button"`
	FireButton  string `yaml:"fire_button"`
}

type playerListFile struct {
	Players []PlayerEntry `yaml:"players"`
}

// PlayerTable holds player slots indexed by id.
type PlayerTable struct {
	players map[int]*PlayerEntry
}

// LoadPlayerTable loads players.yaml.
func LoadPlayerTable(path string) (*PlayerTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read player list: %w", err)
	}
	return ParsePlayerTable(raw)
}

func ParsePlayerTable(raw []byte) (*PlayerTable, error) {
	var f playerListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse player list: %w", err)
	}
	t := &PlayerTable{players: make(map[int]*PlayerEntry, len(f.Players))}
	for i := range f.Players {
		p := &f.Players[i]
		if _, dup := t.players[p.ID]; dup {
			return nil, fmt.Errorf("parse player list: duplicate id %d", p.ID)
		}
		t.players[p.ID] = p
	}
	return t, nil
}

// Get returns the slot for id, or nil if none.
func (t *PlayerTable) Get(id int) *PlayerEntry {
	return t.players[id]
}

func (t *PlayerTable) Count() int {
	return len(t.players)
}

// PlayerInformation never fails: unknown slots get generated defaults.
func (t *PlayerTable) PlayerInformation(id int) round.PlayerInfo {
	p := t.Get(id)
	if p == nil {
		return round.PlayerInfo{Name: fmt.Sprintf("Player %d", id+1), ExplosionAsset: round.DefaultExplosion}
	}
	asset := p.Explosion
	if asset == "" {
		asset = round.DefaultExplosion
	}
	return round.PlayerInfo{Name: p.Name, ExplosionAsset: asset}
}

// KeyBindings follows the "Spawn<n>"/"Fire<n>" naming when a slot omits them.
func (t *PlayerTable) KeyBindings(id int) round.KeyBindings {
	keys := round.KeyBindings{
		Spawn: fmt.Sprintf("Spawn%d", id+1),
		Fire:  fmt.Sprintf("Fire%d", id+1),
	}
	if p := t.Get(id); p != nil {
		if p.SpawnButton != "" {
			keys.Spawn = p.SpawnButton
		}
		if p.FireButton != "" {
			keys.Fire = p.FireButton
		}
	}
	return keys
}
