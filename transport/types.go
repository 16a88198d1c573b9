package transport

import (
	"errors"
	"net"
	"time"
)

// Transport defines the datagram socket the session streams over.
// Implementations must allow ReadFrom and SetReadDeadline to be called from
// one goroutine while Send is called from another.
type Transport interface {
	// Send writes one frame to addr.
	Send(frame []byte, addr net.Addr) error

	// ReadFrom reads one datagram into buf.
	ReadFrom(buf []byte) (int, net.Addr, error)

	// SetReadDeadline bounds the next ReadFrom call.
	SetReadDeadline(t time.Time) error

	// Close shuts down the transport and unblocks pending reads.
	Close() error

	// LocalAddr returns the local address the transport is listening on.
	LocalAddr() net.Addr
}

// IsTimeout reports whether err is a read deadline expiry.
func IsTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsClosed reports whether err comes from a transport that has been closed.
func IsClosed(err error) bool {
	return errors.Is(err, net.ErrClosed)
}
