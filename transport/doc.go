// Package transport carries EFB frames over datagram sockets.
//
// A Transport is a thin, frame-agnostic wrapper around a packet socket: it
// sends already-encoded frames to a peer address and reads raw datagrams
// with a caller-controlled read deadline. Framing and validation live in the
// protocol package.
//
// # Polling
//
// The receive loop in the bridge package polls with short read deadlines
// instead of blocking forever, so a closed or idle socket never wedges it:
//
//	_ = t.SetReadDeadline(time.Now().Add(time.Millisecond))
//	n, from, err := t.ReadFrom(buf)
//	if transport.IsTimeout(err) {
//		// nothing arrived, poll again
//	}
//
// # Closing
//
// Close unblocks any pending read. Reads after Close report an error for
// which IsClosed is true.
package transport
