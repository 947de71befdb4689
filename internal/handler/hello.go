package handler

import (
	"go.uber.org/zap"

	"github.com/orbitarena/server/internal/net"
	"github.com/orbitarena/server/internal/net/packet"
)

// HandleHello processes C_HELLO: [C player id]. The pad is bound to the
// slot and answered with S_WELCOME, or refused with S_REFUSED.
func HandleHello(sess *net.Session, r *packet.Reader, deps *Deps) {
	id := int(r.ReadC())
	if !deps.Pads.Bind(id, sess.ID) {
		deps.Log.Warn("pad refused", zap.Uint64("session", sess.ID), zap.Int("player", id))
		w := packet.NewWriterWithOpcode(packet.S_REFUSED)
		w.WriteS("slot unavailable")
		sess.Send(w.Bytes())
		return
	}
	sess.PlayerID = id
	sess.SetState(packet.StateBound)

	keys := deps.Pads.KeyBindings(id)
	w := packet.NewWriterWithOpcode(packet.S_WELCOME)
	w.WriteC(byte(id))
	w.WriteS(deps.Pads.PlayerName(id))
	w.WriteS(keys.Spawn)
	w.WriteS(keys.Fire)
	sess.Send(w.Bytes())

	deps.Log.Info("pad bound", zap.Uint64("session", sess.ID), zap.Int("player", id))
}

// HandleBye processes C_BYE: the pad leaves gracefully.
func HandleBye(sess *net.Session, deps *Deps) {
	Disconnect(sess, deps)
	sess.Close()
}

// Disconnect frees the session's slot. Its ship stays in the arena until
// the idle timeout removes it.
func Disconnect(sess *net.Session, deps *Deps) {
	if sess.PlayerID == net.Unbound {
		return
	}
	deps.Pads.Unbind(sess.ID)
	deps.Log.Info("pad released", zap.Uint64("session", sess.ID), zap.Int("player", sess.PlayerID))
	sess.PlayerID = net.Unbound
}
