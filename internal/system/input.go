package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/orbitarena/server/internal/core/system"
	"github.com/orbitarena/server/internal/handler"
	"github.com/orbitarena/server/internal/net"
	"github.com/orbitarena/server/internal/net/packet"
)

// InputSystem drains packet queues from all pads and dispatches them
// through the packet registry. Phase 0 (Input).
type InputSystem struct {
	netServer  *net.Server // nil when the pad server is disabled
	registry   *packet.Registry
	store      *net.SessionStore
	deps       *handler.Deps
	maxPerTick int
	log        *zap.Logger
}

func NewInputSystem(netServer *net.Server, registry *packet.Registry, deps *handler.Deps, maxPerTick int, log *zap.Logger) *InputSystem {
	return &InputSystem{
		netServer:  netServer,
		registry:   registry,
		store:      deps.Store,
		deps:       deps,
		maxPerTick: maxPerTick,
		log:        log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	// Presses latched last frame have been consumed by the round.
	s.deps.Pads.BeginFrame()

	if s.netServer != nil {
		s.acceptSessions()
	}

	for id, sess := range s.store.Raw() {
		if sess.IsClosed() {
			// A pad may say goodbye right before dropping the connection.
			s.drain(sess)
			handler.Disconnect(sess, s.deps)
			if s.netServer != nil {
				s.netServer.NotifyDead(id)
			}
			s.store.Remove(id)
			continue
		}
		s.drain(sess)
	}
}

func (s *InputSystem) acceptSessions() {
	for {
		select {
		case sess := <-s.netServer.NewSessions():
			s.store.Add(sess)
		case id := <-s.netServer.DeadSessions():
			// Release the slot if the loop has not seen the close yet.
			if sess := s.store.Get(id); sess != nil {
				handler.Disconnect(sess, s.deps)
			}
			s.store.Remove(id)
		default:
			return
		}
	}
}

func (s *InputSystem) drain(sess *net.Session) {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case data := <-sess.InQueue:
			if err := s.registry.Dispatch(sess, sess.State(), data); err != nil {
				s.log.Debug("packet dispatch failed",
					zap.Uint64("session", sess.ID),
					zap.Error(err),
				)
			}
		default:
			return
		}
	}
}

// OutputSystem flushes every pad's buffered packets to its writer
// goroutine. Phase 4 (Output).
type OutputSystem struct {
	store *net.SessionStore
}

func NewOutputSystem(store *net.SessionStore) *OutputSystem {
	return &OutputSystem{store: store}
}

func (s *OutputSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *OutputSystem) Update(_ time.Duration) {
	s.store.ForEach(func(sess *net.Session) {
		sess.FlushOutput()
	})
}
