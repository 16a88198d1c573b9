// Package main provides efblink-host, a standalone streaming host.
//
// efblink-host runs a streaming session against an in-memory simulator
// seeded with a parked aircraft, so an EFB can be developed and tested
// without a running flight simulator.
//
// Usage:
//
//	efblink-host [flags]
//	efblink-host --config /etc/efblink/efblink.yaml --rate 30
//
// Flags override EFBLINK_ environment variables, which override the config
// file. When a config file is given it is watched: edits to
// stream.rate_hz and the log section apply without a restart.
package main
