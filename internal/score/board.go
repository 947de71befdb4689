// Package score keeps the running per-player point totals.
package score

import "sort"

// Board is the in-memory score ledger. Game loop only.
type Board struct {
	totals map[int]int
	dirty  map[int]struct{}
}

func NewBoard() *Board {
	return &Board{totals: make(map[int]int), dirty: make(map[int]struct{})}
}

// Restore seeds totals loaded from storage without marking them dirty.
func (b *Board) Restore(totals map[int]int) {
	for id, pts := range totals {
		b.totals[id] = pts
	}
}

// AddPoints adjusts a player's total. A zero delta registers the player.
func (b *Board) AddPoints(playerID, delta int) {
	b.totals[playerID] += delta
	b.dirty[playerID] = struct{}{}
}

func (b *Board) Score(playerID int) int {
	return b.totals[playerID]
}

// Entry is one line of the leaderboard.
type Entry struct {
	PlayerID int
	Points   int
}

// Standings orders players by points, highest first, then by id.
func (b *Board) Standings() []Entry {
	out := make([]Entry, 0, len(b.totals))
	for id, pts := range b.totals {
		out = append(out, Entry{PlayerID: id, Points: pts})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

// TakeDirty returns the totals changed since the last call, ordered by id,
// and clears the dirty set.
func (b *Board) TakeDirty() []Entry {
	if len(b.dirty) == 0 {
		return nil
	}
	out := make([]Entry, 0, len(b.dirty))
	for id := range b.dirty {
		out = append(out, Entry{PlayerID: id, Points: b.totals[id]})
	}
	clear(b.dirty)
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}

// MarkDirty re-queues entries whose save failed.
func (b *Board) MarkDirty(entries []Entry) {
	for _, e := range entries {
		b.dirty[e.PlayerID] = struct{}{}
	}
}
