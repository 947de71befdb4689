// Package insult heckles players when they die.
package insult

import (
	"go.uber.org/zap"

	"github.com/orbitarena/server/internal/round"
	"github.com/orbitarena/server/internal/scripting"
)

// LineSource writes the heckle for a death. Empty means stay quiet.
type LineSource interface {
	InsultLine(ctx scripting.InsultContext) string
}

// Service counts deaths per player for the current round and speaks a
// line for each one.
type Service struct {
	lines     LineSource
	players   round.PlayerDirectory
	announcer round.Announcer
	deaths    map[int]int
	log       *zap.Logger
}

func NewService(lines LineSource, players round.PlayerDirectory, announcer round.Announcer, log *zap.Logger) *Service {
	return &Service{
		lines:     lines,
		players:   players,
		announcer: announcer,
		deaths:    make(map[int]int),
		log:       log,
	}
}

func (s *Service) PlayerDied(playerID int) {
	s.deaths[playerID]++
	line := s.lines.InsultLine(scripting.InsultContext{
		PlayerID: playerID,
		Name:     s.players.PlayerInformation(playerID).Name,
		Deaths:   s.deaths[playerID],
	})
	if line == "" {
		return
	}
	s.log.Debug("insult", zap.Int("player", playerID), zap.String("line", line))
	s.announcer.Speak(line)
}

// Reset forgets the death counts, at round start.
func (s *Service) Reset() {
	clear(s.deaths)
}
