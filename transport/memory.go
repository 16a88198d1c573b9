package transport

import (
	"net"
	"sync"
	"time"
)

// Datagram is one frame with the remote address it came from or went to.
type Datagram struct {
	Data []byte
	Addr net.Addr
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// MemoryTransport is an in-process Transport. Datagrams injected with
// Inject are returned by ReadFrom; frames passed to Send are recorded.
// It honours read deadlines and Close the same way a UDP socket does.
type MemoryTransport struct {
	local     net.Addr
	inbox     chan Datagram
	closed    chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	deadline time.Time
	sent     []Datagram
	sendErr  error
}

// NewMemoryTransport creates a transport that reports local as its address
// and buffers up to backlog injected datagrams.
func NewMemoryTransport(local net.Addr, backlog int) *MemoryTransport {
	return &MemoryTransport{
		local:  local,
		inbox:  make(chan Datagram, backlog),
		closed: make(chan struct{}),
	}
}

// Inject queues a datagram for ReadFrom. It reports false when the backlog
// is full or the transport is closed.
func (t *MemoryTransport) Inject(data []byte, from net.Addr) bool {
	select {
	case <-t.closed:
		return false
	default:
	}
	select {
	case t.inbox <- Datagram{Data: append([]byte(nil), data...), Addr: from}:
		return true
	default:
		return false
	}
}

// FailSends makes every later Send return err. A nil err restores success.
func (t *MemoryTransport) FailSends(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sendErr = err
}

// Sent returns a copy of every successfully sent frame, oldest first.
func (t *MemoryTransport) Sent() []Datagram {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Datagram(nil), t.sent...)
}

// Send implements Transport.
func (t *MemoryTransport) Send(frame []byte, addr net.Addr) error {
	select {
	case <-t.closed:
		return net.ErrClosed
	default:
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sendErr != nil {
		return t.sendErr
	}
	t.sent = append(t.sent, Datagram{Data: append([]byte(nil), frame...), Addr: addr})
	return nil
}

// ReadFrom implements Transport.
func (t *MemoryTransport) ReadFrom(buf []byte) (int, net.Addr, error) {
	t.mu.Lock()
	deadline := t.deadline
	t.mu.Unlock()

	var expired <-chan time.Time
	if !deadline.IsZero() {
		timer := time.NewTimer(time.Until(deadline))
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case <-t.closed:
		return 0, nil, net.ErrClosed
	case d := <-t.inbox:
		return copy(buf, d.Data), d.Addr, nil
	case <-expired:
		return 0, nil, timeoutError{}
	}
}

// SetReadDeadline implements Transport. A zero time disables the deadline.
func (t *MemoryTransport) SetReadDeadline(deadline time.Time) error {
	select {
	case <-t.closed:
		return net.ErrClosed
	default:
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.deadline = deadline
	return nil
}

// Close implements Transport.
func (t *MemoryTransport) Close() error {
	t.closeOnce.Do(func() { close(t.closed) })
	return nil
}

// LocalAddr implements Transport.
func (t *MemoryTransport) LocalAddr() net.Addr {
	return t.local
}
