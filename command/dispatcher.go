package command

import (
	"github.com/opd-ai/efblink/dataref"
	"github.com/sirupsen/logrus"
)

// Result labels for Outcome.
const (
	ResultApplied  = "applied"
	ResultNoop     = "noop"
	ResultRejected = "rejected"
)

// Outcome describes what Apply did with one payload.
type Outcome struct {
	Tag    string // command tag, or "" when the payload did not parse
	Result string // one of the Result* labels
	Err    error  // parse error for ResultRejected
}

// Dispatcher applies parsed commands through the host capability interface.
// It must only be used from the tick context.
type Dispatcher struct {
	api     dataref.API
	handles *dataref.Handles
}

// NewDispatcher creates a dispatcher. handles is the session's cached handle
// table; the dispatcher sees re-resolution because it holds the pointer.
func NewDispatcher(api dataref.API, handles *dataref.Handles) *Dispatcher {
	return &Dispatcher{
		api:     api,
		handles: handles,
	}
}

// Apply parses payload and executes the command. It never fails: a payload
// that does not parse or a command that cannot be carried out is dropped.
func (d *Dispatcher) Apply(payload []byte) Outcome {
	cmd, err := Parse(payload)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Apply",
			"size":     len(payload),
			"error":    err.Error(),
		}).Debug("Dropping unparseable command")
		return Outcome{Result: ResultRejected, Err: err}
	}

	out := Outcome{Tag: cmd.Tag(), Result: ResultNoop}
	switch c := cmd.(type) {
	case SetDataref:
		if d.setDataref(c) {
			out.Result = ResultApplied
		}
	case SwapFreq:
		if d.swapFreq(c.Radio) {
			out.Result = ResultApplied
		}
	}

	logrus.WithFields(logrus.Fields{
		"function": "Apply",
		"cmd":      out.Tag,
		"result":   out.Result,
	}).Debug("Command processed")

	return out
}

// setDataref resolves the path on every call, so it can reach datarefs
// outside the cached catalog.
func (d *Dispatcher) setDataref(c SetDataref) bool {
	h, ok := d.api.Resolve(c.Path)
	if !ok {
		logrus.WithFields(logrus.Fields{
			"function": "setDataref",
			"path":     c.Path,
		}).Debug("Dataref not found, ignoring set")
		return false
	}
	d.api.WriteFloat(h, float32(c.Value))
	return true
}

// swapFreq exchanges active and standby frequencies with two reads followed
// by two writes. The host API is single-threaded from our side, so no other
// writer can interleave.
func (d *Dispatcher) swapFreq(radio string) bool {
	active, standby, ok := d.handles.RadioPair(radio)
	if !ok {
		logrus.WithFields(logrus.Fields{
			"function": "swapFreq",
			"radio":    radio,
		}).Debug("No active/standby pair cached for radio")
		return false
	}

	a := d.api.ReadInt(active)
	s := d.api.ReadInt(standby)
	d.api.WriteInt(active, s)
	d.api.WriteInt(standby, a)
	return true
}
