// Package efblink streams flight-simulator telemetry to an electronic flight
// bag (EFB) over UDP and applies the control commands the EFB sends back.
//
// A Session owns one datagram socket and at most one peer. The host drives it
// from its periodic callback: every Tick drains messages queued by the
// background receive loop and, while the peer keeps acknowledging, captures
// a snapshot of the simulator's datarefs and sends it as a SimData frame.
//
// # Getting Started
//
//	options := efblink.NewOptions()
//	options.StreamingRateHz = 30
//
//	session, err := efblink.New(host, options)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Kill()
//
//	session.Start()
//	for session.IsRunning() {
//	    time.Sleep(session.Tick())
//	}
//
// host implements [dataref.API]; [dataref.Memory] is an in-process
// implementation suitable for tests and standalone runs.
//
// # Watchdog
//
// The peer sends an Ack frame periodically. The first Ack selects the peer;
// later Acks from another address replace it. When no Ack arrives within
// [Options.WatchdogTimeout] the session pauses: ticks keep running and
// commands are still applied, but nothing is sent. The next Ack resumes
// streaming with no other action needed.
//
// # Concurrency
//
// Session state is only touched by the tick context. The receive loop
// started by [Session.Start] communicates through a bounded queue of owned
// messages, and [Session.Kill] stops it by closing the socket.
//
// # Core Types
//
//   - [Session]: the streaming session
//   - [Options]: configuration for New
//   - [State]: lifecycle state derived from the watchdog
//   - [TimeProvider]: injectable clock for testing
package efblink
