package efblink

import "fmt"

// State is the streaming state of a session.
type State uint8

const (
	// StateIdle means no peer has sent an Ack yet.
	StateIdle State = iota
	// StateStreaming means a peer is known and its last Ack is recent.
	StateStreaming
	// StatePaused means a peer is known but the watchdog has expired.
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateStreaming:
		return "Streaming"
	case StatePaused:
		return "Paused"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}
