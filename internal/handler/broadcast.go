package handler

import (
	"github.com/orbitarena/server/internal/net"
	"github.com/orbitarena/server/internal/net/packet"
	"github.com/orbitarena/server/internal/round"
	"github.com/orbitarena/server/internal/vmath"
)

// Broadcaster sends round announcements, countdown and effects to every
// bound pad. Packets are buffered on the sessions and flushed by
// OutputSystem.
type Broadcaster struct {
	store     *net.SessionStore
	countdown string
}

func NewBroadcaster(store *net.SessionStore) *Broadcaster {
	return &Broadcaster{store: store}
}

func (b *Broadcaster) broadcast(data []byte) {
	b.store.ForEach(func(sess *net.Session) {
		if sess.State() == packet.StateBound {
			sess.Send(data)
		}
	})
}

func (b *Broadcaster) Speak(text string) {
	w := packet.NewWriterWithOpcode(packet.S_SPEAK)
	w.WriteS(text)
	b.broadcast(w.Bytes())
}

func (b *Broadcaster) PlayClip(clip round.Clip) {
	w := packet.NewWriterWithOpcode(packet.S_CLIP)
	w.WriteS(string(clip))
	b.broadcast(w.Bytes())
}

// ShowCountdown only sends when the text changes; it is called every frame.
func (b *Broadcaster) ShowCountdown(text string) {
	if text == b.countdown {
		return
	}
	b.countdown = text
	w := packet.NewWriterWithOpcode(packet.S_COUNTDOWN)
	w.WriteS(text)
	b.broadcast(w.Bytes())
}

func (b *Broadcaster) Hide() {
	b.countdown = ""
	b.broadcast([]byte{packet.S_HIDE})
}

func (b *Broadcaster) Explosion(pos vmath.Vec3, asset string, scale float64) {
	w := packet.NewWriterWithOpcode(packet.S_EXPLOSION)
	w.WriteF(pos.X)
	w.WriteF(pos.Z)
	w.WriteF(scale)
	w.WriteS(asset)
	b.broadcast(w.Bytes())
}
