package bridge

import (
	"errors"
	"net"

	"github.com/opd-ai/efblink/metrics"
	"github.com/opd-ai/efblink/protocol"
)

// ErrInboundSimData indicates a structurally valid SimData frame arrived from
// a peer. Hosts only send SimData, so it is dropped.
var ErrInboundSimData = errors.New("inbound SimData ignored")

// Message is an owned value handed from the receive loop to the tick context.
type Message interface {
	isMessage()
}

// PeerAck reports a valid Ack and the address it came from.
type PeerAck struct {
	Addr net.Addr
}

// CommandPayload carries the raw bytes of a CommandJson frame.
type CommandPayload struct {
	Data []byte
}

// ReloadRequest asks the tick context to re-resolve dataref handles.
type ReloadRequest struct{}

// RateChange asks the tick context to change the streaming rate. It never
// comes off the wire; hosts enqueue it to retune a running session.
type RateChange struct {
	Hz int
}

func (PeerAck) isMessage()        {}
func (CommandPayload) isMessage() {}
func (ReloadRequest) isMessage()  {}
func (RateChange) isMessage()     {}

// Classify decodes one datagram and maps it to a Message. Any decode error or
// an inbound SimData frame is returned as an error and must be dropped.
// The returned message never aliases buf.
func Classify(buf []byte, from net.Addr) (Message, error) {
	hdr, payload, err := protocol.Decode(buf)
	if err != nil {
		return nil, err
	}

	switch hdr.Type {
	case protocol.PacketAck:
		return PeerAck{Addr: from}, nil
	case protocol.PacketReload:
		return ReloadRequest{}, nil
	case protocol.PacketCommandJSON:
		return CommandPayload{Data: append([]byte(nil), payload...)}, nil
	default:
		return nil, ErrInboundSimData
	}
}

// DropReason returns the metric label for an error from Classify.
func DropReason(err error) string {
	if errors.Is(err, ErrInboundSimData) {
		return metrics.DropInboundSimData
	}
	return protocol.Reason(err)
}
