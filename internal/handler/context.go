// Package handler turns pad packets into per-frame input state and fans
// round announcements back out to every bound pad.
package handler

import (
	"go.uber.org/zap"

	"github.com/orbitarena/server/internal/net"
	"github.com/orbitarena/server/internal/net/packet"
)

// Deps holds shared dependencies injected into all packet handlers.
type Deps struct {
	Log   *zap.Logger
	Pads  *Pads
	Store *net.SessionStore
}

// RegisterAll registers all packet handlers into the registry.
func RegisterAll(reg *packet.Registry, deps *Deps) {
	reg.Register(packet.C_HELLO,
		[]packet.SessionState{packet.StateHandshake},
		func(sess any, r *packet.Reader) {
			HandleHello(sess.(*net.Session), r, deps)
		},
	)

	bound := []packet.SessionState{packet.StateBound}

	reg.Register(packet.C_SPAWN, bound,
		func(sess any, r *packet.Reader) {
			HandleSpawn(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.C_ACTIVITY, bound,
		func(sess any, r *packet.Reader) {
			HandleActivity(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.C_BYE,
		[]packet.SessionState{packet.StateHandshake, packet.StateBound},
		func(sess any, _ *packet.Reader) {
			HandleBye(sess.(*net.Session), deps)
		},
	)
}
