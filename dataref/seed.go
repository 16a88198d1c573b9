package dataref

// NewSeededMemory returns a Memory host with every catalog dataref present,
// holding the state of a light single in cruise near FAJS.
func NewSeededMemory() *Memory {
	m := NewMemory()

	m.SetDouble(paths[Latitude], -26.1367)
	m.SetDouble(paths[Longitude], 28.2411)
	m.SetDouble(paths[ElevationM], 1694.0)
	m.SetFloat(paths[GroundspeedMS], 51.4)

	m.SetFloat(paths[PitchDeg], -2.0)
	m.SetFloat(paths[RollDeg], 5.0)
	m.SetFloat(paths[MagHeadingDeg], 270.0)
	m.SetFloat(paths[GroundTrackDeg], 268.0)

	m.SetFloat(paths[IASKts], 120.0)
	m.SetFloat(paths[TrueAirspeedMS], 64.0)
	m.SetFloat(paths[VVIFpm], -200.0)
	m.SetFloat(paths[TurnRateDegSec], 0.5)
	m.SetFloat(paths[SlipDeg], 1.0)
	m.SetFloat(paths[OATDegC], 22.0)
	m.SetFloat(paths[BarometerInHg], 29.92)

	m.SetFloatArray(paths[EngineRPM], []float32{2350.0})
	m.SetFloatArray(paths[ManifoldInHg], []float32{24.0})
	m.SetFloatArray(paths[FuelFlowKgSec], []float32{0.025})
	m.SetFloatArray(paths[OilPressPSI], []float32{65.0})
	m.SetFloatArray(paths[OilTempDegC], []float32{90.0})
	m.SetFloatArray(paths[EGTDegC], []float32{680, 690, 695, 685, 688, 692})
	m.SetFloatArray(paths[FuelQtyKg], []float32{75.0, 75.0})
	m.SetFloatArray(paths[BusVolts], []float32{28.0})
	m.SetFloatArray(paths[BatteryAmps], []float32{5.0})
	m.SetFloatArray(paths[SuctionInHg], []float32{5.0})

	m.SetFloat(paths[Nav1HDefDot], 0.5)
	m.SetFloat(paths[Nav1VDefDot], -0.3)
	m.SetFloat(paths[Nav1OBSDeg], 180.0)
	m.SetFloat(paths[GPSDistNM], 15.0)
	m.SetFloat(paths[GPSBearingDeg], 90.0)

	m.SetInt(paths[APStateFlags], 0)
	m.SetFloat(paths[FDPitchDeg], 0)
	m.SetFloat(paths[FDRollDeg], 0)
	m.SetFloat(paths[APHeadingBugDeg], 270.0)
	m.SetFloat(paths[APAltitudeFt], 5000.0)
	m.SetFloat(paths[APVSFpm], 0)

	m.SetInt(paths[COM1ActiveHz], 118025000)
	m.SetInt(paths[COM1StandbyHz], 121500000)
	m.SetInt(paths[COM2ActiveHz], 119000000)
	m.SetInt(paths[NAV1ActiveHz], 108000000)
	m.SetInt(paths[NAV1StandbyHz], 109900000)
	m.SetInt(paths[TransponderCode], 7000)
	m.SetInt(paths[TransponderMode], 2)

	m.SetInt(paths[OuterMarker], 0)
	m.SetInt(paths[MiddleMarker], 0)
	m.SetInt(paths[InnerMarker], 0)

	m.SetFloat(paths[WindDirDeg], 240.0)
	m.SetFloat(paths[WindSpeedKt], 15.0)

	m.SetFloatArray(paths[TrafficLat], []float32{-26.14, -26.20})
	m.SetFloatArray(paths[TrafficLon], []float32{28.25, 28.30})
	m.SetFloatArray(paths[TrafficEleM], []float32{1700.0, 1650.0})
	m.SetInt(paths[TrafficCount], 2)

	m.SetInt(paths[HSISource], 0)

	return m
}
