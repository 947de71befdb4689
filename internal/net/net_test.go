package net

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orbitarena/server/internal/net/packet"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, []byte{packet.C_HELLO, 2}))
	assert.Equal(t, []byte{2, 0, packet.C_HELLO, 2}, buf.Bytes())

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{packet.C_HELLO, 2}, got)
}

func TestFrameRejectsBadLengths(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader([]byte{0, 0}))
	assert.Error(t, err)

	_, err = ReadFrame(bytes.NewReader([]byte{5, 0, 1}))
	assert.Error(t, err, "truncated payload")

	assert.Error(t, WriteFrame(&bytes.Buffer{}, nil))
	assert.Error(t, WriteFrame(&bytes.Buffer{}, make([]byte, MaxFrame+1)))
}

func TestSessionQueues(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	sess := NewSession(server, 1, 4, 4, time.Second, zap.NewNop())
	sess.Start()
	defer sess.Close()
	assert.Equal(t, Unbound, sess.PlayerID)
	assert.Equal(t, packet.StateHandshake, sess.State())

	require.NoError(t, WriteFrame(client, []byte{packet.C_SPAWN}))
	select {
	case data := <-sess.InQueue:
		assert.Equal(t, []byte{packet.C_SPAWN}, data)
	case <-time.After(2 * time.Second):
		t.Fatal("packet not queued")
	}

	sess.Send([]byte{packet.S_HIDE})
	sess.FlushOutput()
	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	out, err := ReadFrame(client)
	require.NoError(t, err)
	assert.Equal(t, []byte{packet.S_HIDE}, out)

	sess.Close()
	assert.True(t, sess.IsClosed())
	assert.Equal(t, packet.StateDisconnecting, sess.State())
	sess.Send([]byte{packet.S_HIDE})
	assert.Empty(t, sess.outBuf)
}

func TestDrainAndCloseDeliversQueuedPackets(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	sess := NewSession(server, 4, 1, 4, time.Second, zap.NewNop())
	sess.Start()
	st := NewSessionStore()
	st.Add(sess)

	got := make(chan []byte, 4)
	go func() {
		for {
			data, err := ReadFrame(client)
			if err != nil {
				close(got)
				return
			}
			got <- data
		}
	}()

	sess.Send([]byte{packet.S_SPEAK, 0, 0})
	sess.Send([]byte{packet.S_HIDE})
	sess.FlushOutput()
	st.DrainAndClose(2 * time.Second)

	assert.True(t, sess.IsClosed())
	var frames [][]byte
	for data := range got {
		frames = append(frames, data)
	}
	assert.Equal(t, [][]byte{{packet.S_SPEAK, 0, 0}, {packet.S_HIDE}}, frames)
}

func TestSessionStoreLookup(t *testing.T) {
	_, server := net.Pipe()
	st := NewSessionStore()
	sess := NewSession(server, 9, 1, 1, 0, zap.NewNop())
	st.Add(sess)

	assert.Same(t, sess, st.Get(9))
	assert.Nil(t, st.Get(2))

	st.Remove(9)
	assert.Zero(t, st.Len())
	assert.Nil(t, st.Get(9))
}
