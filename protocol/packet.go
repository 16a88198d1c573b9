// Package protocol implements the binary datagram codec spoken between the
// simulator host and the EFB peer.
//
// Every datagram is a 17-byte little-endian header followed by the payload:
//
//	[0:4]   magic        u32 = 0xEFB12345
//	[4:6]   version      u16 = 1
//	[6]     packet type  u8  (1=SimData 2=CommandJson 3=Ack 4=Reload)
//	[7:9]   payload len  u16
//	[9:13]  sequence     u32
//	[13:17] checksum     u32 CRC-32 of the payload bytes only
//
// Example:
//
//	frame := protocol.EncodeSimData(seq, &snapshot)
//	_, err := conn.WriteTo(frame, peer)
//
//	hdr, payload, err := protocol.Decode(buf[:n])
//	if err != nil {
//	    return // drop
//	}
package protocol

import (
	"encoding/binary"
	"fmt"
)

const (
	// Magic identifies an EFB datagram.
	Magic uint32 = 0xEFB12345

	// Version is the only header version this codec accepts.
	Version uint16 = 1

	// HeaderLen is the fixed size of the frame header in bytes.
	HeaderLen = 4 + 2 + 1 + 2 + 4 + 4

	// MaxPayloadLen is the largest payload a frame can declare.
	MaxPayloadLen = 65535

	// MaxFrameLen is the largest datagram a receiver must be able to hold.
	MaxFrameLen = HeaderLen + MaxPayloadLen
)

// Header field offsets.
const (
	offMagic    = 0
	offVersion  = 4
	offType     = 6
	offLen      = 7
	offSequence = 9
	offChecksum = 13
)

// PacketType identifies the payload carried by a frame.
type PacketType byte

const (
	// PacketSimData carries an encoded flight-state snapshot. Outbound only.
	PacketSimData PacketType = iota + 1
	// PacketCommandJSON carries a UTF-8 JSON command from the peer.
	PacketCommandJSON
	// PacketAck is the peer's liveness signal. Zero-length payload.
	PacketAck
	// PacketReload asks the host to re-resolve its dataref handles.
	PacketReload
)

// Valid reports whether t is one of the defined packet types.
func (t PacketType) Valid() bool {
	return t >= PacketSimData && t <= PacketReload
}

func (t PacketType) String() string {
	switch t {
	case PacketSimData:
		return "SimData"
	case PacketCommandJSON:
		return "CommandJson"
	case PacketAck:
		return "Ack"
	case PacketReload:
		return "Reload"
	default:
		return fmt.Sprintf("PacketType(%d)", byte(t))
	}
}

// Header is the decoded, validated frame header.
type Header struct {
	Type       PacketType
	PayloadLen uint16
	Sequence   uint32
	Checksum   uint32
}

// Encode builds a frame with the given sequence number, payload and type.
// The checksum covers the payload only.
func Encode(sequence uint32, payload []byte, packetType PacketType) ([]byte, error) {
	if len(payload) > MaxPayloadLen {
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrPayloadTooLarge, len(payload), MaxPayloadLen)
	}
	frame := make([]byte, HeaderLen, HeaderLen+len(payload))
	putHeader(frame, Header{
		Type:       packetType,
		PayloadLen: uint16(len(payload)),
		Sequence:   sequence,
		Checksum:   Checksum(payload),
	})
	return append(frame, payload...), nil
}

// putHeader writes h into the first HeaderLen bytes of buf.
func putHeader(buf []byte, h Header) {
	binary.LittleEndian.PutUint32(buf[offMagic:], Magic)
	binary.LittleEndian.PutUint16(buf[offVersion:], Version)
	buf[offType] = byte(h.Type)
	binary.LittleEndian.PutUint16(buf[offLen:], h.PayloadLen)
	binary.LittleEndian.PutUint32(buf[offSequence:], h.Sequence)
	binary.LittleEndian.PutUint32(buf[offChecksum:], h.Checksum)
}

// EncodeAck builds a zero-length Ack frame.
func EncodeAck(sequence uint32) []byte {
	frame, _ := Encode(sequence, nil, PacketAck)
	return frame
}

// EncodeReload builds a zero-length Reload frame.
func EncodeReload(sequence uint32) []byte {
	frame, _ := Encode(sequence, nil, PacketReload)
	return frame
}

// EncodeCommand builds a CommandJson frame around an already-serialized command.
func EncodeCommand(sequence uint32, command []byte) ([]byte, error) {
	return Encode(sequence, command, PacketCommandJSON)
}
