package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/orbitarena/server/internal/core/event"
	coresys "github.com/orbitarena/server/internal/core/system"
	"github.com/orbitarena/server/internal/persist"
	"github.com/orbitarena/server/internal/score"
)

const saveTimeout = 5 * time.Second

type ScoreSaver interface {
	Save(ctx context.Context, scores []persist.ScoreRow) error
}

// ScorePersistenceSystem periodically writes changed score totals.
// Phase 5 (Persist).
type ScorePersistenceSystem struct {
	board    *score.Board
	repo     ScoreSaver
	interval time.Duration
	elapsed  time.Duration
	log      *zap.Logger
}

func NewScorePersistenceSystem(board *score.Board, repo ScoreSaver, interval time.Duration, log *zap.Logger) *ScorePersistenceSystem {
	return &ScorePersistenceSystem{board: board, repo: repo, interval: interval, log: log}
}

func (s *ScorePersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *ScorePersistenceSystem) Update(dt time.Duration) {
	s.elapsed += dt
	if s.elapsed < s.interval {
		return
	}
	s.elapsed = 0
	s.Flush()
}

// Flush saves every dirty total now. Called for graceful shutdown too.
// Failed entries stay dirty for the next attempt.
func (s *ScorePersistenceSystem) Flush() {
	entries := s.board.TakeDirty()
	if len(entries) == 0 {
		return
	}
	rows := make([]persist.ScoreRow, len(entries))
	for i, e := range entries {
		rows[i] = persist.ScoreRow{PlayerID: e.PlayerID, Points: e.Points}
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.repo.Save(ctx, rows); err != nil {
		s.board.MarkDirty(entries)
		s.log.Error("score save failed", zap.Int("players", len(rows)), zap.Error(err))
		return
	}
	s.log.Debug("scores saved", zap.Int("players", len(rows)))
}

type RoundRecorder interface {
	Record(ctx context.Context, row persist.RoundRow) error
}

// RoundHistory tallies spawns, penalized deaths and pickups from the
// round events and writes every finished round with its per-player
// results. A nil recorder only logs the results.
type RoundHistory struct {
	repo    RoundRecorder
	started map[int64]time.Time
	tallies map[int]persist.ResultRow
	log     *zap.Logger
}

// NewRoundHistory subscribes to the round lifecycle events on bus.
func NewRoundHistory(bus *event.Bus, repo RoundRecorder, log *zap.Logger) *RoundHistory {
	h := &RoundHistory{
		repo:    repo,
		started: make(map[int64]time.Time),
		tallies: make(map[int]persist.ResultRow),
		log:     log,
	}
	event.Subscribe(bus, h.onStarted)
	event.Subscribe(bus, h.onJoined)
	event.Subscribe(bus, h.onDied)
	event.Subscribe(bus, h.onPicked)
	event.Subscribe(bus, h.onEnded)
	return h
}

func (h *RoundHistory) onStarted(e event.RoundStarted) {
	h.started[e.Round] = e.StartedAt
}

func (h *RoundHistory) tally(playerID int, fn func(*persist.ResultRow)) {
	r := h.tallies[playerID]
	fn(&r)
	h.tallies[playerID] = r
}

func (h *RoundHistory) onJoined(e event.PlayerJoined) {
	h.tally(e.PlayerID, func(r *persist.ResultRow) { r.Spawns++ })
}

func (h *RoundHistory) onDied(e event.PlayerDied) {
	h.tally(e.PlayerID, func(r *persist.ResultRow) { r.Deaths++ })
}

func (h *RoundHistory) onPicked(e event.CollectablePicked) {
	h.tally(e.PlayerID, func(r *persist.ResultRow) { r.Pickups++ })
}

// onEnded also resets the tallies: the roster joins before RoundStarted
// is emitted, so the next round's spawns are already queued behind it.
func (h *RoundHistory) onEnded(e event.RoundEnded) {
	started, ok := h.started[e.Round]
	if !ok {
		started = e.EndedAt
	}
	delete(h.started, e.Round)

	row := persist.RoundRow{
		Round:     e.Round,
		StartedAt: started,
		EndedAt:   e.EndedAt,
		Results:   persist.Results(e.Scores, h.tallies),
	}
	clear(h.tallies)

	for _, r := range row.Results {
		h.log.Info("round result",
			zap.Int64("round", e.Round),
			zap.Int("player", r.PlayerID),
			zap.Int("points", r.Points),
			zap.Int("deaths", r.Deaths),
			zap.Int("spawns", r.Spawns),
			zap.Int("pickups", r.Pickups),
		)
	}
	if h.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := h.repo.Record(ctx, row); err != nil {
		h.log.Error("round record failed", zap.Int64("round", e.Round), zap.Error(err))
		return
	}
	h.log.Info("round recorded", zap.Int64("round", e.Round), zap.Int("players", len(row.Results)))
}
