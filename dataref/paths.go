package dataref

// Key names one cached dataref.
type Key int

const (
	// Position
	Latitude Key = iota
	Longitude
	ElevationM
	GroundspeedMS

	// Attitude
	PitchDeg
	RollDeg
	MagHeadingDeg
	GroundTrackDeg

	// Air data
	IASKts
	TrueAirspeedMS
	VVIFpm
	TurnRateDegSec
	SlipDeg
	OATDegC
	BarometerInHg

	// Engine arrays, index 0 is engine 1
	EngineRPM
	ManifoldInHg
	FuelFlowKgSec
	OilPressPSI
	OilTempDegC
	EGTDegC
	FuelQtyKg
	BusVolts
	BatteryAmps
	SuctionInHg

	// Navigation
	Nav1HDefDot
	Nav1VDefDot
	Nav1OBSDeg
	GPSDistNM
	GPSBearingDeg

	// Autopilot
	APStateFlags
	FDPitchDeg
	FDRollDeg
	APHeadingBugDeg
	APAltitudeFt
	APVSFpm

	// Radios
	COM1ActiveHz
	COM1StandbyHz
	COM2ActiveHz
	NAV1ActiveHz
	NAV1StandbyHz
	TransponderCode
	TransponderMode

	// Markers
	OuterMarker
	MiddleMarker
	InnerMarker

	// Weather
	WindDirDeg
	WindSpeedKt

	// Traffic
	TrafficLat
	TrafficLon
	TrafficEleM
	TrafficCount

	HSISource

	numKeys
)

// paths maps every Key to its simulator dataref path.
var paths = [numKeys]string{
	Latitude:      "sim/flightmodel/position/latitude",
	Longitude:     "sim/flightmodel/position/longitude",
	ElevationM:    "sim/flightmodel/position/elevation",
	GroundspeedMS: "sim/flightmodel/position/groundspeed",

	PitchDeg:       "sim/flightmodel/position/theta",
	RollDeg:        "sim/flightmodel/position/phi",
	MagHeadingDeg:  "sim/flightmodel/position/mag_psi",
	GroundTrackDeg: "sim/flightmodel/position/hpath",

	IASKts:         "sim/flightmodel/position/indicated_airspeed",
	TrueAirspeedMS: "sim/flightmodel/position/true_airspeed",
	VVIFpm:         "sim/flightmodel/position/vh_ind_fpm",
	TurnRateDegSec: "sim/cockpit2/gauges/indicators/turn_rate_heading_deg_pilot",
	SlipDeg:        "sim/cockpit/gyros/slip_deg",
	OATDegC:        "sim/weather/temperature_ambient_c",
	BarometerInHg:  "sim/cockpit2/gauges/actuators/barometer_setting_in_hg_pilot",

	EngineRPM:     "sim/cockpit2/engine/indicators/engine_speed_rpm",
	ManifoldInHg:  "sim/cockpit2/engine/indicators/manifold_pressure_inhg",
	FuelFlowKgSec: "sim/cockpit2/engine/indicators/fuel_flow_kg_sec",
	OilPressPSI:   "sim/cockpit2/engine/indicators/oil_pressure_psi",
	OilTempDegC:   "sim/cockpit2/engine/indicators/oil_temp_deg_c",
	EGTDegC:       "sim/cockpit2/engine/indicators/EGT_deg_c",
	FuelQtyKg:     "sim/flightmodel/weight/m_fuel",
	BusVolts:      "sim/cockpit2/electrical/bus_volts",
	BatteryAmps:   "sim/cockpit2/electrical/battery_amps_total",
	SuctionInHg:   "sim/cockpit2/gauges/indicators/airspeed_vacuum_in_hg_pilot",

	Nav1HDefDot:   "sim/cockpit2/radios/indicators/nav1_hdef_dots_pilot",
	Nav1VDefDot:   "sim/cockpit2/radios/indicators/nav1_vdef_dots_pilot",
	Nav1OBSDeg:    "sim/cockpit/radios/nav1_course_degm",
	GPSDistNM:     "sim/cockpit2/radios/indicators/gps_dme_distance_nm",
	GPSBearingDeg: "sim/cockpit2/radios/indicators/gps_bearing_deg_mag",

	APStateFlags:    "sim/cockpit/autopilot/autopilot_state",
	FDPitchDeg:      "sim/cockpit2/autopilot/flight_director_pitch_deg",
	FDRollDeg:       "sim/cockpit2/autopilot/flight_director_roll_deg",
	APHeadingBugDeg: "sim/cockpit/autopilot/heading_mag",
	APAltitudeFt:    "sim/cockpit/autopilot/altitude",
	APVSFpm:         "sim/cockpit/autopilot/vertical_velocity",

	COM1ActiveHz:    "sim/cockpit2/radios/actuators/com1_frequency_hz",
	COM1StandbyHz:   "sim/cockpit2/radios/actuators/com1_standby_frequency_hz",
	COM2ActiveHz:    "sim/cockpit2/radios/actuators/com2_frequency_hz",
	NAV1ActiveHz:    "sim/cockpit2/radios/actuators/nav1_frequency_hz",
	NAV1StandbyHz:   "sim/cockpit2/radios/actuators/nav1_standby_frequency_hz",
	TransponderCode: "sim/cockpit/radios/transponder_code",
	TransponderMode: "sim/cockpit/radios/transponder_mode",

	OuterMarker:  "sim/cockpit2/annunciators/outer_marker",
	MiddleMarker: "sim/cockpit2/annunciators/middle_marker",
	InnerMarker:  "sim/cockpit2/annunciators/inner_marker",

	WindDirDeg:  "sim/weather/wind_direction_degt",
	WindSpeedKt: "sim/weather/wind_speed_kt",

	TrafficLat:   "sim/cockpit2/tcas/targets/position/lat",
	TrafficLon:   "sim/cockpit2/tcas/targets/position/lon",
	TrafficEleM:  "sim/cockpit2/tcas/targets/position/ele",
	TrafficCount: "sim/cockpit2/tcas/targets/N_targets_max",

	HSISource: "sim/cockpit2/radios/actuators/HSI_source_select_pilot",
}

// Path returns the dataref path for k, or "" if k is out of range.
func (k Key) Path() string {
	if k < 0 || k >= numKeys {
		return ""
	}
	return paths[k]
}

// Keys returns every catalog key in declaration order.
func Keys() []Key {
	keys := make([]Key, numKeys)
	for i := range keys {
		keys[i] = Key(i)
	}
	return keys
}
