package protocol

import (
	"encoding/binary"
	"hash/crc32"
)

// Checksum returns the CRC-32 (ISO-HDLC, reflected polynomial 0xEDB88320,
// seed 0xFFFFFFFF, complemented output) of data.
func Checksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// Decode validates a datagram and returns its header and payload. The
// payload aliases buf; callers that keep it past the next read must copy it.
//
// Checks run in a fixed order: length, magic, version, packet type, declared
// length, available bytes, checksum. The checksum covers the payload only, so
// a corrupted header that still passes the structural checks is accepted.
// Peers rely on exactly this validation surface.
func Decode(buf []byte) (Header, []byte, error) {
	if len(buf) < HeaderLen {
		return Header{}, nil, newDecodeError(ErrTooShort, "got %d bytes, need %d", len(buf), HeaderLen)
	}

	if magic := binary.LittleEndian.Uint32(buf[offMagic:]); magic != Magic {
		return Header{}, nil, newDecodeError(ErrBadMagic, "0x%08x", magic)
	}

	if version := binary.LittleEndian.Uint16(buf[offVersion:]); version != Version {
		return Header{}, nil, newDecodeError(ErrBadVersion, "%d", version)
	}

	packetType := PacketType(buf[offType])
	if !packetType.Valid() {
		return Header{}, nil, &DecodeError{
			Reason:     ErrUnknownPacketType,
			PacketType: byte(packetType),
			Detail:     packetType.String(),
		}
	}

	hdr := Header{
		Type:       packetType,
		PayloadLen: binary.LittleEndian.Uint16(buf[offLen:]),
		Sequence:   binary.LittleEndian.Uint32(buf[offSequence:]),
		Checksum:   binary.LittleEndian.Uint32(buf[offChecksum:]),
	}

	n := int(hdr.PayloadLen)
	if n > MaxPayloadLen {
		return Header{}, nil, newDecodeError(ErrPayloadTooLarge, "declared %d", n)
	}
	if len(buf)-HeaderLen < n {
		return Header{}, nil, newDecodeError(ErrTruncatedPayload, "declared %d, have %d", n, len(buf)-HeaderLen)
	}

	payload := buf[HeaderLen : HeaderLen+n]
	if sum := Checksum(payload); sum != hdr.Checksum {
		return Header{}, nil, newDecodeError(ErrBadChecksum, "header 0x%08x, payload 0x%08x", hdr.Checksum, sum)
	}

	return hdr, payload, nil
}
