// Package command parses and applies the control commands an EFB peer sends
// in CommandJson frames.
//
// A command is a JSON object tagged by its "cmd" member:
//
//	{"cmd":"set_dataref","path":"sim/cockpit/autopilot/heading_mag","value":270.0}
//	{"cmd":"swap_freq","radio":"COM1"}
//
// The protocol has no negative acknowledgment, so every failure here is
// absorbed by the Dispatcher and only surfaces in logs and metrics.
package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Command tags.
const (
	TagSetDataref = "set_dataref"
	TagSwapFreq   = "swap_freq"
)

var (
	// ErrInvalidUTF8 indicates the payload is not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("command payload is not valid UTF-8")

	// ErrMalformed indicates the payload is not a JSON object of the expected shape.
	ErrMalformed = errors.New("malformed command")

	// ErrUnknownCommand indicates a "cmd" tag this host does not implement.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrMissingField indicates a required member is absent.
	ErrMissingField = errors.New("missing field")
)

// Command is one parsed control command.
type Command interface {
	// Tag returns the wire tag of the command.
	Tag() string
}

// SetDataref writes Value to the dataref at Path.
type SetDataref struct {
	Path  string  `json:"path"`
	Value float64 `json:"value"`
}

// Tag implements Command.
func (SetDataref) Tag() string { return TagSetDataref }

// SwapFreq exchanges the active and standby frequencies of Radio.
type SwapFreq struct {
	Radio string `json:"radio"`
}

// Tag implements Command.
func (SwapFreq) Tag() string { return TagSwapFreq }

// envelope is the union of every command's members.
type envelope struct {
	Cmd   *string  `json:"cmd"`
	Path  *string  `json:"path"`
	Value *float64 `json:"value"`
	Radio *string  `json:"radio"`
}

// Parse decodes a command payload. Unknown members are ignored.
func Parse(payload []byte) (Command, error) {
	if !utf8.Valid(payload) {
		return nil, ErrInvalidUTF8
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Cmd == nil {
		return nil, fmt.Errorf("%w: cmd", ErrMissingField)
	}

	switch *env.Cmd {
	case TagSetDataref:
		if env.Path == nil {
			return nil, fmt.Errorf("%w: path", ErrMissingField)
		}
		if env.Value == nil {
			return nil, fmt.Errorf("%w: value", ErrMissingField)
		}
		return SetDataref{Path: *env.Path, Value: *env.Value}, nil
	case TagSwapFreq:
		if env.Radio == nil {
			return nil, fmt.Errorf("%w: radio", ErrMissingField)
		}
		return SwapFreq{Radio: *env.Radio}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, *env.Cmd)
	}
}

// Marshal encodes a command with its tag, ready for a CommandJson frame.
func Marshal(cmd Command) ([]byte, error) {
	switch c := cmd.(type) {
	case SetDataref:
		return json.Marshal(struct {
			Cmd string `json:"cmd"`
			SetDataref
		}{TagSetDataref, c})
	case SwapFreq:
		return json.Marshal(struct {
			Cmd string `json:"cmd"`
			SwapFreq
		}{TagSwapFreq, c})
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
}
