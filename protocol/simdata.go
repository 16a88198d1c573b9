package protocol

import "github.com/opd-ai/efblink/schema"

// SimDataPayloadLen is the payload size of every SimData frame.
const SimDataPayloadLen = schema.EncodedLen

// EncodeSimData builds a SimData frame for snap.
func EncodeSimData(sequence uint32, snap *schema.Snapshot) []byte {
	frame := make([]byte, HeaderLen, HeaderLen+SimDataPayloadLen)
	frame = snap.AppendBinary(frame)
	payload := frame[HeaderLen:]
	putHeader(frame, Header{
		Type:       PacketSimData,
		PayloadLen: uint16(len(payload)),
		Sequence:   sequence,
		Checksum:   Checksum(payload),
	})
	return frame
}

// DecodeSimData reads a snapshot from a SimData payload. It reports false
// if the payload ends before all fields are read.
func DecodeSimData(payload []byte) (schema.Snapshot, bool) {
	return schema.Decode(payload)
}
