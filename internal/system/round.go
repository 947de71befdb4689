package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/orbitarena/server/internal/core/system"
)

// RoundDriver is the slice of the round controller the frame loop drives.
type RoundDriver interface {
	Frame(dt time.Duration)
	Active() bool
	Expired() bool
	StartNewRound(length time.Duration) error
	StopRound() error
}

// RoundSystem runs the controller's frame step and cycles rounds: an
// expired round is stopped and the next one starts after the
// intermission. Phase 2 (Update).
type RoundSystem struct {
	ctrl         RoundDriver
	length       time.Duration
	intermission time.Duration
	wait         time.Duration
	log          *zap.Logger
}

// NewRoundSystem opens the first round on the first frame.
func NewRoundSystem(ctrl RoundDriver, length, intermission time.Duration, log *zap.Logger) *RoundSystem {
	return &RoundSystem{ctrl: ctrl, length: length, intermission: intermission, log: log}
}

func (s *RoundSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *RoundSystem) Update(dt time.Duration) {
	if !s.ctrl.Active() {
		s.wait -= dt
		if s.wait > 0 {
			return
		}
		if err := s.ctrl.StartNewRound(s.length); err != nil {
			s.log.Error("start round failed", zap.Error(err))
			s.wait = s.intermission
			return
		}
	}

	s.ctrl.Frame(dt)

	if s.ctrl.Expired() {
		s.Stop()
	}
}

// Stop ends the running round, if any, and schedules the next one.
func (s *RoundSystem) Stop() {
	if !s.ctrl.Active() {
		return
	}
	if err := s.ctrl.StopRound(); err != nil {
		s.log.Error("stop round failed", zap.Error(err))
	}
	s.wait = s.intermission
	s.log.Info("intermission", zap.Duration("next_round_in", s.intermission))
}

// AsteroidRepairSystem tops the asteroid field back up once per repair
// interval. Phase 3 (PostUpdate).
type AsteroidRepairSystem struct {
	ctrl Repairer
	log  *zap.Logger
}

type Repairer interface {
	AdvanceRepair(dt time.Duration) int
}

func NewAsteroidRepairSystem(ctrl Repairer, log *zap.Logger) *AsteroidRepairSystem {
	return &AsteroidRepairSystem{ctrl: ctrl, log: log}
}

func (s *AsteroidRepairSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *AsteroidRepairSystem) Update(dt time.Duration) {
	if n := s.ctrl.AdvanceRepair(dt); n > 0 {
		s.log.Debug("asteroid field repaired", zap.Int("created", n))
	}
}
