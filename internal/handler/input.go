package handler

import (
	"github.com/orbitarena/server/internal/net"
	"github.com/orbitarena/server/internal/net/packet"
)

// HandleSpawn processes C_SPAWN for the pad's bound slot.
func HandleSpawn(sess *net.Session, _ *packet.Reader, deps *Deps) {
	deps.Pads.PressSpawn(sess.PlayerID)
}

// HandleActivity processes C_ACTIVITY: any control touched.
func HandleActivity(sess *net.Session, _ *packet.Reader, deps *Deps) {
	deps.Pads.Touch(sess.PlayerID)
}
