// Package main provides efblink-peer, a command-line EFB peer.
//
// efblink-peer speaks the EFB side of the protocol. It is used to exercise
// a host during development.
//
// Usage:
//
//	efblink-peer --target 192.168.1.10:49100 watch --count 100
//	efblink-peer set sim/cockpit/autopilot/heading_mag 270
//	efblink-peer swap COM1
//	efblink-peer reload
//
// watch acknowledges the host periodically, prints every SimData frame it
// receives and reports frames lost in transit using the sequence numbers.
package main
