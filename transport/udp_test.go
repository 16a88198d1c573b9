package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoopback(t *testing.T) *UDPTransport {
	t.Helper()
	tr, err := NewUDPTransport("127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func TestUDPTransportSendReceive(t *testing.T) {
	a := newLoopback(t)
	b := newLoopback(t)

	require.NoError(t, a.Send([]byte("frame"), b.LocalAddr()))

	buf := make([]byte, MaxDatagramSize)
	require.NoError(t, b.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, from, err := b.ReadFrom(buf)
	require.NoError(t, err)
	assert.Equal(t, "frame", string(buf[:n]))
	assert.Equal(t, a.LocalAddr().String(), from.String())
}

func TestUDPTransportReadTimeout(t *testing.T) {
	tr := newLoopback(t)

	require.NoError(t, tr.SetReadDeadline(time.Now().Add(time.Millisecond)))
	_, _, err := tr.ReadFrom(make([]byte, 64))
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
	assert.False(t, IsClosed(err))
}

func TestUDPTransportReadAfterClose(t *testing.T) {
	tr, err := NewUDPTransport("127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, tr.Close())

	_, _, err = tr.ReadFrom(make([]byte, 64))
	require.Error(t, err)
	assert.True(t, IsClosed(err))
	assert.False(t, IsTimeout(err))
}

func TestNewUDPTransportBindFailure(t *testing.T) {
	tr := newLoopback(t)

	_, err := NewUDPTransport(tr.LocalAddr().String())
	assert.Error(t, err)

	_, err = NewUDPTransport("not an address")
	assert.Error(t, err)
}

func TestSendNilAddress(t *testing.T) {
	tr := newLoopback(t)
	assert.Error(t, tr.Send([]byte{1}, nil))
}

func TestResolveAddr(t *testing.T) {
	addr, err := ResolveAddr("127.0.0.1:49100")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:49100", addr.String())
	assert.IsType(t, &net.UDPAddr{}, addr)

	_, err = ResolveAddr("127.0.0.1")
	assert.Error(t, err)
}
