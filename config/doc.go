// Package config loads efblink host configuration.
//
// Sources are layered with koanf, later ones overriding earlier ones:
//
//  1. built-in defaults
//  2. a YAML file
//  3. EFBLINK_ environment variables
//  4. explicit overrides, typically command-line flags
//
// Environment variables name a section and a key separated by the first
// underscore: EFBLINK_STREAM_RATE_HZ=30 sets stream.rate_hz.
//
// A YAML file looks like:
//
//	stream:
//	  bind_addr: 0.0.0.0:49100
//	  rate_hz: 20
//	  watchdog_timeout: 5s
//	log:
//	  level: info
//	  format: text
//	metrics:
//	  enabled: true
//	  addr: 127.0.0.1:9149
//
// A Watcher reports edits to the file so a running host can apply them.
package config
