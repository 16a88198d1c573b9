package protocol

import (
	"errors"
	"fmt"
)

// Frame-level decode errors. Every one of them means "drop the datagram".
var (
	// ErrTooShort indicates the buffer cannot hold a header.
	ErrTooShort = errors.New("frame shorter than header")

	// ErrBadMagic indicates the magic field does not match Magic.
	ErrBadMagic = errors.New("bad magic")

	// ErrBadVersion indicates an unsupported header version.
	ErrBadVersion = errors.New("unsupported version")

	// ErrUnknownPacketType indicates a packet type outside the defined set.
	ErrUnknownPacketType = errors.New("unknown packet type")

	// ErrPayloadTooLarge indicates a payload longer than MaxPayloadLen.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrTruncatedPayload indicates fewer payload bytes than the header declares.
	ErrTruncatedPayload = errors.New("truncated payload")

	// ErrBadChecksum indicates the payload checksum does not match the header.
	ErrBadChecksum = errors.New("checksum mismatch")
)

// DecodeError describes why a datagram was rejected.
type DecodeError struct {
	Reason     error  // one of the Err* sentinels
	PacketType byte   // raw type byte, set for ErrUnknownPacketType
	Detail     string // optional context, e.g. the offending value
}

func (e *DecodeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("protocol: %v: %s", e.Reason, e.Detail)
	}
	return fmt.Sprintf("protocol: %v", e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Reason
}

// newDecodeError creates a DecodeError with formatted detail.
func newDecodeError(reason error, format string, args ...any) *DecodeError {
	return &DecodeError{
		Reason: reason,
		Detail: fmt.Sprintf(format, args...),
	}
}

// UnknownPacketType returns the offending type byte when err reports an
// unknown packet type.
func UnknownPacketType(err error) (byte, bool) {
	var de *DecodeError
	if !errors.As(err, &de) || !errors.Is(de.Reason, ErrUnknownPacketType) {
		return 0, false
	}
	return de.PacketType, true
}

// Reason returns a short, stable label for a decode error, suitable for
// metric labels and log fields.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTooShort):
		return "too_short"
	case errors.Is(err, ErrBadMagic):
		return "bad_magic"
	case errors.Is(err, ErrBadVersion):
		return "bad_version"
	case errors.Is(err, ErrUnknownPacketType):
		return "unknown_type"
	case errors.Is(err, ErrPayloadTooLarge):
		return "payload_too_large"
	case errors.Is(err, ErrTruncatedPayload):
		return "truncated"
	case errors.Is(err, ErrBadChecksum):
		return "bad_checksum"
	default:
		return "other"
	}
}
