package transport

import (
	"fmt"
	"net"
	"time"

	"github.com/sirupsen/logrus"
)

// MaxDatagramSize is the receive buffer size the bridge uses. It covers the
// largest frame the protocol can produce.
const MaxDatagramSize = 65535 + 17

// UDPTransport implements Transport over a UDP socket.
type UDPTransport struct {
	conn       net.PacketConn
	listenAddr net.Addr
}

// NewUDPTransport binds a UDP socket on listenAddr, for example
// "0.0.0.0:49100". Port 0 picks an ephemeral port.
func NewUDPTransport(listenAddr string) (*UDPTransport, error) {
	conn, err := net.ListenPacket("udp", listenAddr)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":    "NewUDPTransport",
			"listen_addr": listenAddr,
			"error":       err.Error(),
		}).Error("Failed to bind UDP socket")
		return nil, fmt.Errorf("bind %s: %w", listenAddr, err)
	}

	logrus.WithFields(logrus.Fields{
		"function":   "NewUDPTransport",
		"local_addr": conn.LocalAddr().String(),
	}).Info("UDP transport bound")

	return &UDPTransport{
		conn:       conn,
		listenAddr: conn.LocalAddr(),
	}, nil
}

// Send implements Transport.
func (t *UDPTransport) Send(frame []byte, addr net.Addr) error {
	if addr == nil {
		return fmt.Errorf("send: nil address")
	}
	_, err := t.conn.WriteTo(frame, addr)
	return err
}

// ReadFrom implements Transport.
func (t *UDPTransport) ReadFrom(buf []byte) (int, net.Addr, error) {
	return t.conn.ReadFrom(buf)
}

// SetReadDeadline implements Transport.
func (t *UDPTransport) SetReadDeadline(deadline time.Time) error {
	return t.conn.SetReadDeadline(deadline)
}

// Close implements Transport.
func (t *UDPTransport) Close() error {
	return t.conn.Close()
}

// LocalAddr implements Transport.
func (t *UDPTransport) LocalAddr() net.Addr {
	return t.listenAddr
}

// ResolveAddr parses a "host:port" peer address.
func ResolveAddr(address string) (net.Addr, error) {
	addr, err := net.ResolveUDPAddr("udp", address)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", address, err)
	}
	return addr, nil
}
