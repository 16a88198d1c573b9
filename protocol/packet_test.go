package protocol

import (
	"encoding/binary"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/opd-ai/efblink/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() schema.Snapshot {
	s := schema.Snapshot{
		Latitude:        -26.1367,
		Longitude:       28.2411,
		ElevationM:      1694.0,
		GroundspeedMS:   51.4,
		PitchDeg:        -3.5,
		RollDeg:         15.0,
		MagHeadingDeg:   270.0,
		IASKts:          120.5,
		TASKts:          124.4,
		VVIFpm:          -500.0,
		BarometerInHg:   29.92,
		RPM:             2350.0,
		APStateFlags:    0x2002,
		COM1ActiveHz:    118025000,
		COM1StandbyHz:   121500000,
		TransponderCode: 7000,
		MiddleMarker:    true,
		TrafficCount:    2,
		HSISource:       1,
	}
	s.EGTDegC = [schema.EGTChannels]float32{680, 690, 695, 685, 688, 692}
	s.FuelQtyKg = [schema.FuelTanks]float32{75, 74.5}
	s.TrafficLat[0], s.TrafficLat[1] = -26.14, -26.20
	s.TrafficLon[0], s.TrafficLon[1] = 28.25, 28.30
	s.TrafficEleM[19] = 1650
	return s
}

func TestChecksumMatchesISOHDLCVector(t *testing.T) {
	assert.Equal(t, uint32(0xCBF43926), Checksum([]byte("123456789")))
	assert.Equal(t, uint32(0), Checksum(nil))
}

func TestHeaderLen(t *testing.T) {
	assert.Equal(t, 17, HeaderLen)
	assert.Equal(t, 464, SimDataPayloadLen)
}

func TestEncodeHeaderLayout(t *testing.T) {
	payload := []byte(`{"cmd":"swap_freq","radio":"COM1"}`)
	frame, err := Encode(0xDEADBEEF, payload, PacketCommandJSON)
	require.NoError(t, err)
	require.Len(t, frame, HeaderLen+len(payload))

	assert.Equal(t, Magic, binary.LittleEndian.Uint32(frame[0:4]))
	assert.Equal(t, Version, binary.LittleEndian.Uint16(frame[4:6]))
	assert.Equal(t, byte(PacketCommandJSON), frame[6])
	assert.Equal(t, uint16(len(payload)), binary.LittleEndian.Uint16(frame[7:9]))
	assert.Equal(t, uint32(0xDEADBEEF), binary.LittleEndian.Uint32(frame[9:13]))
	assert.Equal(t, Checksum(payload), binary.LittleEndian.Uint32(frame[13:17]))
	assert.Equal(t, payload, frame[HeaderLen:])
}

func TestEncodeRejectsOversizedPayload(t *testing.T) {
	_, err := Encode(0, make([]byte, MaxPayloadLen+1), PacketCommandJSON)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)

	frame, err := Encode(0, make([]byte, MaxPayloadLen), PacketCommandJSON)
	require.NoError(t, err)
	assert.Len(t, frame, MaxFrameLen)
}

func TestSimDataRoundTrip(t *testing.T) {
	snap := sampleSnapshot()
	frame := EncodeSimData(42, &snap)
	require.Len(t, frame, HeaderLen+SimDataPayloadLen)

	hdr, payload, err := Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, PacketSimData, hdr.Type)
	assert.Equal(t, uint32(42), hdr.Sequence)
	assert.Equal(t, uint16(SimDataPayloadLen), hdr.PayloadLen)

	got, ok := DecodeSimData(payload)
	require.True(t, ok)
	assert.Equal(t, snap, got)
	assert.InDelta(t, -26.1367, got.Latitude, 1e-9)
	assert.InDelta(t, 120.5, got.IASKts, 0.001)
	assert.True(t, got.MiddleMarker)
	assert.False(t, got.OuterMarker)
}

func TestSimDataPreservesFloatBitPatterns(t *testing.T) {
	var snap schema.Snapshot
	snap.Latitude = math.Float64frombits(0x7FF8000000000ABC)
	snap.PitchDeg = float32(math.Copysign(0, -1))
	snap.FuelQtyKg[1] = math.Float32frombits(0x7FC00123)

	_, payload, err := Decode(EncodeSimData(0, &snap))
	require.NoError(t, err)
	got, ok := DecodeSimData(payload)
	require.True(t, ok)

	assert.Equal(t, uint64(0x7FF8000000000ABC), math.Float64bits(got.Latitude))
	assert.Equal(t, math.Float32bits(snap.PitchDeg), math.Float32bits(got.PitchDeg))
	assert.Equal(t, uint32(0x7FC00123), math.Float32bits(got.FuelQtyKg[1]))
}

func TestDecodeSimDataTruncated(t *testing.T) {
	snap := sampleSnapshot()
	payload := snap.AppendBinary(nil)

	for _, n := range []int{0, 1, 8, SimDataPayloadLen / 2, SimDataPayloadLen - 1} {
		_, ok := DecodeSimData(payload[:n])
		assert.False(t, ok, "payload of %d bytes should not decode", n)
	}

	_, ok := DecodeSimData(append(payload, 0xAA, 0xBB))
	assert.True(t, ok, "trailing bytes are ignored")
}

func TestDecodeErrors(t *testing.T) {
	snap := sampleSnapshot()
	valid := EncodeSimData(7, &snap)

	mutate := func(f func(b []byte) []byte) []byte {
		b := append([]byte(nil), valid...)
		return f(b)
	}

	tests := []struct {
		name string
		buf  []byte
		want error
	}{
		{"empty", nil, ErrTooShort},
		{"one short of header", valid[:HeaderLen-1], ErrTooShort},
		{"flipped magic", mutate(func(b []byte) []byte { b[0] ^= 0xFF; return b }), ErrBadMagic},
		{"altered version", mutate(func(b []byte) []byte { b[4] = 99; return b }), ErrBadVersion},
		{"type zero", mutate(func(b []byte) []byte { b[6] = 0; return b }), ErrUnknownPacketType},
		{"type five", mutate(func(b []byte) []byte { b[6] = 5; return b }), ErrUnknownPacketType},
		{"truncated payload", valid[:len(valid)-1], ErrTruncatedPayload},
		{"header only", valid[:HeaderLen], ErrTruncatedPayload},
		{"flipped payload byte", mutate(func(b []byte) []byte { b[HeaderLen+10] ^= 0xFF; return b }), ErrBadChecksum},
		{"flipped checksum", mutate(func(b []byte) []byte { b[13] ^= 0x01; return b }), ErrBadChecksum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, payload, err := Decode(tt.buf)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, payload)

			var de *DecodeError
			assert.True(t, errors.As(err, &de))
		})
	}
}

func TestDecodeUnknownPacketTypeCarriesByte(t *testing.T) {
	frame := EncodeAck(0)
	frame[6] = 0x7E

	_, _, err := Decode(frame)
	b, ok := UnknownPacketType(err)
	require.True(t, ok)
	assert.Equal(t, byte(0x7E), b)
	assert.Equal(t, "unknown_type", Reason(err))

	_, ok = UnknownPacketType(ErrBadMagic)
	assert.False(t, ok)
}

func TestDecodeAcceptsTrailingBytes(t *testing.T) {
	frame := append(EncodeAck(3), 0x01, 0x02, 0x03)
	hdr, payload, err := Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, PacketAck, hdr.Type)
	assert.Empty(t, payload)
}

// The checksum does not cover the header, so header damage that keeps the
// frame structurally valid goes unnoticed.
func TestDecodeDoesNotDetectHeaderOnlyCorruption(t *testing.T) {
	frame := EncodeReload(100)
	binary.LittleEndian.PutUint32(frame[9:13], 0x12345678)

	hdr, _, err := Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), hdr.Sequence)
}

func TestDecodeReturnsPayloadView(t *testing.T) {
	frame, err := EncodeCommand(1, []byte("abc"))
	require.NoError(t, err)

	_, payload, err := Decode(frame)
	require.NoError(t, err)
	payload[0] = 'x'
	assert.Equal(t, byte('x'), frame[HeaderLen], "payload must alias the input buffer")
}

func TestDecodeArbitraryBytesNeverPanics(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 5000; i++ {
		buf := make([]byte, rng.Intn(600))
		rng.Read(buf)
		if i%3 == 0 && len(buf) >= HeaderLen {
			// Valid prefix so the deeper checks are reached.
			binary.LittleEndian.PutUint32(buf[0:4], Magic)
			binary.LittleEndian.PutUint16(buf[4:6], Version)
			buf[6] = byte(1 + rng.Intn(4))
		}
		assert.NotPanics(t, func() {
			hdr, payload, err := Decode(buf)
			if err == nil {
				assert.Len(t, payload, int(hdr.PayloadLen))
			}
		})
	}
}

func TestReasonLabels(t *testing.T) {
	assert.Equal(t, "ok", Reason(nil))
	assert.Equal(t, "too_short", Reason(newDecodeError(ErrTooShort, "x")))
	assert.Equal(t, "bad_checksum", Reason(newDecodeError(ErrBadChecksum, "x")))
	assert.Equal(t, "other", Reason(errors.New("boom")))
}

func TestPacketTypeString(t *testing.T) {
	assert.Equal(t, "SimData", PacketSimData.String())
	assert.Equal(t, "CommandJson", PacketCommandJSON.String())
	assert.Equal(t, "Ack", PacketAck.String())
	assert.Equal(t, "Reload", PacketReload.String())
	assert.Equal(t, "PacketType(9)", PacketType(9).String())
}

func FuzzDecode(f *testing.F) {
	snap := sampleSnapshot()
	f.Add(EncodeSimData(1, &snap))
	f.Add(EncodeAck(2))
	f.Add([]byte{})
	f.Fuzz(func(t *testing.T, data []byte) {
		hdr, payload, err := Decode(data)
		if err != nil {
			return
		}
		if len(payload) != int(hdr.PayloadLen) {
			t.Fatalf("payload length %d, header says %d", len(payload), hdr.PayloadLen)
		}
		if hdr.Type == PacketSimData {
			DecodeSimData(payload)
		}
	})
}
