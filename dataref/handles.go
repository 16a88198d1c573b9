package dataref

import (
	"fmt"

	"github.com/opd-ai/efblink/schema"
	"github.com/sirupsen/logrus"
)

// knotsPerMetrePerSecond converts the simulator's true airspeed to knots.
const knotsPerMetrePerSecond = 1.94384

// Handles caches the resolved handle of every catalog dataref.
type Handles struct {
	refs  [numKeys]Handle
	found [numKeys]bool
}

// Resolve (re-)looks up every catalog path through api, replacing the whole
// table. Missing paths are reported to the host log. It returns the number
// of paths that did not resolve.
func (h *Handles) Resolve(api API) int {
	missing := 0
	for k := Key(0); k < numKeys; k++ {
		h.refs[k], h.found[k] = api.Resolve(paths[k])
		if !h.found[k] {
			missing++
			api.Log(fmt.Sprintf("EFB: dataref not found: %s", paths[k]))
		}
	}

	logrus.WithFields(logrus.Fields{
		"function": "Resolve",
		"total":    int(numKeys),
		"missing":  missing,
	}).Debug("Dataref handles resolved")

	return missing
}

// Get returns the cached handle for k.
func (h *Handles) Get(k Key) (Handle, bool) {
	if k < 0 || k >= numKeys {
		return 0, false
	}
	return h.refs[k], h.found[k]
}

// Radio names accepted by RadioPair.
const (
	RadioCOM1 = "COM1"
	RadioCOM2 = "COM2"
	RadioNAV1 = "NAV1"
)

// RadioPair returns the active and standby frequency handles for a radio.
// It reports false when the radio is unknown or either handle is missing.
// COM2 has no cached standby handle, so it always reports false.
func (h *Handles) RadioPair(radio string) (active, standby Handle, ok bool) {
	var activeKey, standbyKey Key
	switch radio {
	case RadioCOM1:
		activeKey, standbyKey = COM1ActiveHz, COM1StandbyHz
	case RadioNAV1:
		activeKey, standbyKey = NAV1ActiveHz, NAV1StandbyHz
	default:
		return 0, 0, false
	}

	active, activeOK := h.Get(activeKey)
	standby, standbyOK := h.Get(standbyKey)
	if !activeOK || !standbyOK {
		return 0, 0, false
	}
	return active, standby, true
}

// Capture reads every cached dataref and assembles a snapshot. Unresolved
// datarefs read as zero.
func (h *Handles) Capture(api API) schema.Snapshot {
	f := func(k Key) float32 {
		if ref, ok := h.Get(k); ok {
			return api.ReadFloat(ref)
		}
		return 0
	}
	d := func(k Key) float64 {
		if ref, ok := h.Get(k); ok {
			return api.ReadDouble(ref)
		}
		return 0
	}
	i := func(k Key) int32 {
		if ref, ok := h.Get(k); ok {
			return api.ReadInt(ref)
		}
		return 0
	}
	fa := func(k Key, out []float32) {
		if ref, ok := h.Get(k); ok {
			api.ReadFloatArray(ref, 0, out)
		}
	}
	first := func(k Key) float32 {
		var v [1]float32
		fa(k, v[:])
		return v[0]
	}

	s := schema.Snapshot{
		Latitude:      d(Latitude),
		Longitude:     d(Longitude),
		ElevationM:    d(ElevationM),
		GroundspeedMS: f(GroundspeedMS),

		PitchDeg:       f(PitchDeg),
		RollDeg:        f(RollDeg),
		MagHeadingDeg:  f(MagHeadingDeg),
		GroundTrackDeg: f(GroundTrackDeg),

		IASKts:         f(IASKts),
		TASKts:         f(TrueAirspeedMS) * knotsPerMetrePerSecond,
		VVIFpm:         f(VVIFpm),
		TurnRateDegSec: f(TurnRateDegSec),
		SlipDeg:        f(SlipDeg),
		OATDegC:        f(OATDegC),
		BarometerInHg:  f(BarometerInHg),

		RPM:         first(EngineRPM),
		MAPInHg:     first(ManifoldInHg),
		FuelFlowKgS: first(FuelFlowKgSec),
		OilPressPSI: first(OilPressPSI),
		OilTempDegC: first(OilTempDegC),
		BusVolts:    first(BusVolts),
		BatteryAmps: first(BatteryAmps),
		SuctionInHg: first(SuctionInHg),

		Nav1HDefDot:   f(Nav1HDefDot),
		Nav1VDefDot:   f(Nav1VDefDot),
		Nav1OBSDeg:    f(Nav1OBSDeg),
		GPSDistNM:     f(GPSDistNM),
		GPSBearingDeg: f(GPSBearingDeg),

		APStateFlags:    i(APStateFlags),
		FDPitchDeg:      f(FDPitchDeg),
		FDRollDeg:       f(FDRollDeg),
		APHeadingBugDeg: f(APHeadingBugDeg),
		APAltitudeFt:    f(APAltitudeFt),
		APVSFpm:         f(APVSFpm),

		COM1ActiveHz:    i(COM1ActiveHz),
		COM1StandbyHz:   i(COM1StandbyHz),
		COM2ActiveHz:    i(COM2ActiveHz),
		NAV1ActiveHz:    i(NAV1ActiveHz),
		NAV1StandbyHz:   i(NAV1StandbyHz),
		TransponderCode: i(TransponderCode),
		TransponderMode: i(TransponderMode),

		OuterMarker:  i(OuterMarker) != 0,
		MiddleMarker: i(MiddleMarker) != 0,
		InnerMarker:  i(InnerMarker) != 0,

		WindDirDeg:  f(WindDirDeg),
		WindSpeedKt: f(WindSpeedKt),

		HSISource: i(HSISource),
	}

	fa(EGTDegC, s.EGTDegC[:])
	fa(FuelQtyKg, s.FuelQtyKg[:])

	count := i(TrafficCount)
	if count < 0 {
		count = 0
	}
	if count > schema.MaxTraffic {
		count = schema.MaxTraffic
	}
	s.TrafficCount = uint8(count)
	if count > 0 {
		fa(TrafficLat, s.TrafficLat[:])
		fa(TrafficLon, s.TrafficLon[:])
		fa(TrafficEleM, s.TrafficEleM[:])
	}

	return s
}
