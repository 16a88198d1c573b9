package bridge

import (
	"math/rand"
	"net"
	"testing"
	"time"

	"github.com/opd-ai/efblink/command"
	"github.com/opd-ai/efblink/metrics"
	"github.com/opd-ai/efblink/protocol"
	"github.com/opd-ai/efblink/schema"
	"github.com/opd-ai/efblink/transport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	hostAddr = &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 49100}
	peerAddr = &net.UDPAddr{IP: net.IPv4(192, 168, 1, 20), Port: 50000}
)

func swapCOM1(t *testing.T) []byte {
	t.Helper()
	body, err := command.Marshal(command.SwapFreq{Radio: "COM1"})
	require.NoError(t, err)
	frame, err := protocol.EncodeCommand(7, body)
	require.NoError(t, err)
	return frame
}

func TestClassify(t *testing.T) {
	msg, err := Classify(protocol.EncodeAck(1), peerAddr)
	require.NoError(t, err)
	assert.Equal(t, PeerAck{Addr: peerAddr}, msg)

	msg, err = Classify(protocol.EncodeReload(2), peerAddr)
	require.NoError(t, err)
	assert.Equal(t, ReloadRequest{}, msg)

	frame := swapCOM1(t)
	msg, err = Classify(frame, peerAddr)
	require.NoError(t, err)
	cp, ok := msg.(CommandPayload)
	require.True(t, ok)
	assert.JSONEq(t, `{"cmd":"swap_freq","radio":"COM1"}`, string(cp.Data))

	// The payload is copied out of the receive buffer.
	for i := range frame {
		frame[i] = 0
	}
	assert.JSONEq(t, `{"cmd":"swap_freq","radio":"COM1"}`, string(cp.Data))
}

func TestClassifyDropsInboundSimData(t *testing.T) {
	snap := schema.Snapshot{Latitude: 47.5}
	_, err := Classify(protocol.EncodeSimData(1, &snap), peerAddr)
	assert.ErrorIs(t, err, ErrInboundSimData)
	assert.Equal(t, metrics.DropInboundSimData, DropReason(err))
}

func TestClassifyDecodeFailures(t *testing.T) {
	ack := protocol.EncodeAck(1)
	ack[0] ^= 0xff

	_, err := Classify(ack, peerAddr)
	assert.ErrorIs(t, err, protocol.ErrBadMagic)
	assert.Equal(t, "bad_magic", DropReason(err))

	_, err = Classify(nil, peerAddr)
	assert.ErrorIs(t, err, protocol.ErrTooShort)
}

func TestClassifyIsTotal(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		buf := make([]byte, rng.Intn(96))
		rng.Read(buf)
		if i%3 == 0 && len(buf) >= 4 {
			// Valid magic so decoding gets past the first check.
			copy(buf, protocol.EncodeAck(0)[:4])
		}
		assert.NotPanics(t, func() {
			msg, err := Classify(buf, peerAddr)
			assert.True(t, (msg == nil) != (err == nil))
		})
	}
}

func TestQueueDrainOrder(t *testing.T) {
	q := NewQueue(8)
	require.True(t, q.Push(PeerAck{Addr: peerAddr}))
	require.True(t, q.Push(ReloadRequest{}))
	require.True(t, q.Push(RateChange{Hz: 30}))

	var got []Message
	n := q.Drain(func(m Message) { got = append(got, m) })
	assert.Equal(t, 3, n)
	assert.Equal(t, []Message{PeerAck{Addr: peerAddr}, ReloadRequest{}, RateChange{Hz: 30}}, got)
	assert.Zero(t, q.Len())
	assert.Zero(t, q.Drain(func(Message) { t.Fatal("unexpected message") }))
}

func TestQueueOverflowDrops(t *testing.T) {
	q := NewQueue(2)
	assert.True(t, q.Push(ReloadRequest{}))
	assert.True(t, q.Push(ReloadRequest{}))
	assert.False(t, q.Push(RateChange{Hz: 10}))
	assert.Equal(t, 2, q.Len())
}

func TestQueueDrainStopsAtSnapshot(t *testing.T) {
	q := NewQueue(8)
	q.Push(ReloadRequest{})
	q.Push(ReloadRequest{})

	n := q.Drain(func(Message) { q.Push(RateChange{Hz: 1}) })
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, q.Len())
}

func TestNewQueueDefaultSize(t *testing.T) {
	q := NewQueue(0)
	assert.Equal(t, DefaultQueueSize, cap(q.ch))
}

func waitForLen(t *testing.T, q *Queue, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return q.Len() >= n }, 2*time.Second, time.Millisecond)
}

func TestReceiverQueuesValidFramesInOrder(t *testing.T) {
	tr := transport.NewMemoryTransport(hostAddr, 16)
	q := NewQueue(16)
	r := NewReceiver(tr, q, nil, time.Millisecond)
	r.Start()
	r.Start()
	defer tr.Close()

	require.True(t, tr.Inject(protocol.EncodeAck(1), peerAddr))
	require.True(t, tr.Inject([]byte("garbage"), peerAddr))
	require.True(t, tr.Inject(protocol.EncodeReload(2), peerAddr))
	require.True(t, tr.Inject(swapCOM1(t), peerAddr))

	waitForLen(t, q, 3)

	var got []Message
	q.Drain(func(m Message) { got = append(got, m) })
	require.Len(t, got, 3)
	assert.Equal(t, PeerAck{Addr: peerAddr}, got[0])
	assert.Equal(t, ReloadRequest{}, got[1])
	assert.IsType(t, CommandPayload{}, got[2])
}

func TestReceiverCountsDrops(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	tr := transport.NewMemoryTransport(hostAddr, 16)
	q := NewQueue(1)
	r := NewReceiver(tr, q, m, time.Millisecond)
	r.Start()
	defer tr.Close()

	snap := schema.Snapshot{}
	tr.Inject([]byte{1, 2, 3}, peerAddr)
	tr.Inject(protocol.EncodeSimData(1, &snap), peerAddr)
	tr.Inject(protocol.EncodeAck(1), peerAddr)
	tr.Inject(protocol.EncodeAck(2), peerAddr)

	require.Eventually(t, func() bool {
		families, err := reg.Gather()
		if err != nil {
			return false
		}
		var total float64
		for _, f := range families {
			if f.GetName() != "efblink_receive_datagrams_dropped_total" {
				continue
			}
			for _, metric := range f.GetMetric() {
				total += metric.GetCounter().GetValue()
			}
		}
		return total == 3
	}, 2*time.Second, time.Millisecond)

	assert.Equal(t, 1, q.Len())
}

func TestReceiverExitsWhenTransportClosed(t *testing.T) {
	tr := transport.NewMemoryTransport(hostAddr, 1)
	r := NewReceiver(tr, NewQueue(1), nil, 0)
	r.Start()

	require.NoError(t, tr.Close())

	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("receive loop did not exit after Close")
	}
	assert.True(t, transport.IsClosed(r.Err()))
}

func TestReceiverOverUDP(t *testing.T) {
	host, err := transport.NewUDPTransport("127.0.0.1:0")
	require.NoError(t, err)
	peer, err := transport.NewUDPTransport("127.0.0.1:0")
	require.NoError(t, err)
	defer peer.Close()

	q := NewQueue(4)
	r := NewReceiver(host, q, nil, time.Millisecond)
	r.Start()

	require.NoError(t, peer.Send(protocol.EncodeAck(1), host.LocalAddr()))
	waitForLen(t, q, 1)

	q.Drain(func(m Message) {
		ack, ok := m.(PeerAck)
		require.True(t, ok)
		assert.Equal(t, peer.LocalAddr().String(), ack.Addr.String())
	})

	require.NoError(t, host.Close())
	<-r.Done()
	assert.True(t, transport.IsClosed(r.Err()))
}
