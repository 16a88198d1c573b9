// Package schema defines the flight-state record streamed to the EFB peer.
//
// The order of the fields in Snapshot is part of the wire contract: the
// SimData payload is the fields written one after another, little-endian,
// with no padding. Changing the order or a field width requires a protocol
// version bump.
package schema

// MaxTraffic is the number of TCAS target slots carried in every snapshot.
const MaxTraffic = 20

// EGTChannels is the number of exhaust gas temperature probes reported.
const EGTChannels = 6

// FuelTanks is the number of fuel tank quantities reported.
const FuelTanks = 2

// Snapshot is one sample of all simulator state sent in a SimData frame.
type Snapshot struct {
	// Position
	Latitude      float64 // decimal degrees
	Longitude     float64 // decimal degrees
	ElevationM    float64 // metres MSL
	GroundspeedMS float32 // metres per second

	// Attitude
	PitchDeg       float32
	RollDeg        float32
	MagHeadingDeg  float32
	GroundTrackDeg float32

	// Air data
	IASKts         float32
	TASKts         float32
	VVIFpm         float32
	TurnRateDegSec float32
	SlipDeg        float32
	OATDegC        float32
	BarometerInHg  float32

	// Engine 1
	RPM         float32
	MAPInHg     float32
	FuelFlowKgS float32
	OilPressPSI float32
	OilTempDegC float32
	EGTDegC     [EGTChannels]float32
	FuelQtyKg   [FuelTanks]float32
	BusVolts    float32
	BatteryAmps float32
	SuctionInHg float32

	// Navigation
	Nav1HDefDot   float32
	Nav1VDefDot   float32
	Nav1OBSDeg    float32
	GPSDistNM     float32
	GPSBearingDeg float32

	// Autopilot
	APStateFlags    int32
	FDPitchDeg      float32
	FDRollDeg       float32
	APHeadingBugDeg float32
	APAltitudeFt    float32
	APVSFpm         float32

	// Radios
	COM1ActiveHz    int32
	COM1StandbyHz   int32
	COM2ActiveHz    int32
	NAV1ActiveHz    int32
	NAV1StandbyHz   int32
	TransponderCode int32
	TransponderMode int32

	// Marker beacons
	OuterMarker  bool
	MiddleMarker bool
	InnerMarker  bool

	// Weather
	WindDirDeg  float32
	WindSpeedKt float32

	// Traffic
	TrafficLat   [MaxTraffic]float32
	TrafficLon   [MaxTraffic]float32
	TrafficEleM  [MaxTraffic]float32
	TrafficCount uint8

	HSISource int32
}

// EncodedLen is the exact number of bytes AppendBinary writes: 3 float64,
// 32 scalar float32, 9 int32, 3 marker bytes, the traffic count byte and the
// fixed-size arrays.
const EncodedLen = 3*8 + 32*4 + 9*4 + 3 + 1 +
	(EGTChannels+FuelTanks+3*MaxTraffic)*4

// AppendBinary appends the snapshot to buf in the frozen wire order.
func (s *Snapshot) AppendBinary(buf []byte) []byte {
	w := writer{buf: buf}

	w.f64(s.Latitude)
	w.f64(s.Longitude)
	w.f64(s.ElevationM)
	w.f32(s.GroundspeedMS)
	w.f32(s.PitchDeg)
	w.f32(s.RollDeg)
	w.f32(s.MagHeadingDeg)
	w.f32(s.GroundTrackDeg)
	w.f32(s.IASKts)
	w.f32(s.TASKts)
	w.f32(s.VVIFpm)
	w.f32(s.TurnRateDegSec)
	w.f32(s.SlipDeg)
	w.f32(s.OATDegC)
	w.f32(s.BarometerInHg)
	w.f32(s.RPM)
	w.f32(s.MAPInHg)
	w.f32(s.FuelFlowKgS)
	w.f32(s.OilPressPSI)
	w.f32(s.OilTempDegC)
	w.f32s(s.EGTDegC[:])
	w.f32s(s.FuelQtyKg[:])
	w.f32(s.BusVolts)
	w.f32(s.BatteryAmps)
	w.f32(s.SuctionInHg)
	w.f32(s.Nav1HDefDot)
	w.f32(s.Nav1VDefDot)
	w.f32(s.Nav1OBSDeg)
	w.f32(s.GPSDistNM)
	w.f32(s.GPSBearingDeg)
	w.i32(s.APStateFlags)
	w.f32(s.FDPitchDeg)
	w.f32(s.FDRollDeg)
	w.f32(s.APHeadingBugDeg)
	w.f32(s.APAltitudeFt)
	w.f32(s.APVSFpm)
	w.i32(s.COM1ActiveHz)
	w.i32(s.COM1StandbyHz)
	w.i32(s.COM2ActiveHz)
	w.i32(s.NAV1ActiveHz)
	w.i32(s.NAV1StandbyHz)
	w.i32(s.TransponderCode)
	w.i32(s.TransponderMode)
	w.bool(s.OuterMarker)
	w.bool(s.MiddleMarker)
	w.bool(s.InnerMarker)
	w.f32(s.WindDirDeg)
	w.f32(s.WindSpeedKt)
	w.f32s(s.TrafficLat[:])
	w.f32s(s.TrafficLon[:])
	w.f32s(s.TrafficEleM[:])
	w.u8(s.TrafficCount)
	w.i32(s.HSISource)

	return w.buf
}

// MarshalBinary returns the snapshot in the frozen wire order.
func (s *Snapshot) MarshalBinary() ([]byte, error) {
	return s.AppendBinary(make([]byte, 0, EncodedLen)), nil
}

// Decode reads a snapshot from the front of data. It reports false if data
// ends before every field has been read. Bytes past EncodedLen are ignored.
func Decode(data []byte) (Snapshot, bool) {
	var s Snapshot
	r := reader{buf: data}

	s.Latitude = r.f64()
	s.Longitude = r.f64()
	s.ElevationM = r.f64()
	s.GroundspeedMS = r.f32()
	s.PitchDeg = r.f32()
	s.RollDeg = r.f32()
	s.MagHeadingDeg = r.f32()
	s.GroundTrackDeg = r.f32()
	s.IASKts = r.f32()
	s.TASKts = r.f32()
	s.VVIFpm = r.f32()
	s.TurnRateDegSec = r.f32()
	s.SlipDeg = r.f32()
	s.OATDegC = r.f32()
	s.BarometerInHg = r.f32()
	s.RPM = r.f32()
	s.MAPInHg = r.f32()
	s.FuelFlowKgS = r.f32()
	s.OilPressPSI = r.f32()
	s.OilTempDegC = r.f32()
	r.f32s(s.EGTDegC[:])
	r.f32s(s.FuelQtyKg[:])
	s.BusVolts = r.f32()
	s.BatteryAmps = r.f32()
	s.SuctionInHg = r.f32()
	s.Nav1HDefDot = r.f32()
	s.Nav1VDefDot = r.f32()
	s.Nav1OBSDeg = r.f32()
	s.GPSDistNM = r.f32()
	s.GPSBearingDeg = r.f32()
	s.APStateFlags = r.i32()
	s.FDPitchDeg = r.f32()
	s.FDRollDeg = r.f32()
	s.APHeadingBugDeg = r.f32()
	s.APAltitudeFt = r.f32()
	s.APVSFpm = r.f32()
	s.COM1ActiveHz = r.i32()
	s.COM1StandbyHz = r.i32()
	s.COM2ActiveHz = r.i32()
	s.NAV1ActiveHz = r.i32()
	s.NAV1StandbyHz = r.i32()
	s.TransponderCode = r.i32()
	s.TransponderMode = r.i32()
	s.OuterMarker = r.bool()
	s.MiddleMarker = r.bool()
	s.InnerMarker = r.bool()
	s.WindDirDeg = r.f32()
	s.WindSpeedKt = r.f32()
	r.f32s(s.TrafficLat[:])
	r.f32s(s.TrafficLon[:])
	r.f32s(s.TrafficEleM[:])
	s.TrafficCount = r.u8()
	s.HSISource = r.i32()

	if r.short {
		return Snapshot{}, false
	}
	return s, true
}
