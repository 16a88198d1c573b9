package efblink

import (
	"time"

	"github.com/opd-ai/efblink/bridge"
	"github.com/opd-ai/efblink/metrics"
)

const (
	// DefaultStreamPort is the well-known UDP port the host listens on.
	DefaultStreamPort = 49100

	// DefaultBindAddr binds the stream port on every interface.
	DefaultBindAddr = "0.0.0.0:49100"

	// DefaultRateHz is the streaming rate used when none is configured.
	DefaultRateHz = 20

	// MinRateHz and MaxRateHz bound the streaming rate.
	MinRateHz = 1
	MaxRateHz = 60

	// DefaultWatchdogTimeout is how long streaming continues without an Ack.
	DefaultWatchdogTimeout = 5 * time.Second
)

// Options contains configuration options for creating a Session.
type Options struct {
	// BindAddr is the UDP address the session listens and streams on.
	BindAddr string

	// StreamingRateHz is the SimData rate. It is clamped to [MinRateHz, MaxRateHz].
	StreamingRateHz int

	// WatchdogTimeout pauses streaming when no Ack arrives within it.
	WatchdogTimeout time.Duration

	// QueueSize bounds the messages buffered between two ticks.
	QueueSize int

	// PollInterval is the receive loop's read deadline while idle.
	PollInterval time.Duration

	// TimeProvider supplies the clock for the watchdog. Nil uses the system clock.
	TimeProvider TimeProvider

	// Metrics receives session instruments. Nil disables metrics.
	Metrics *metrics.Metrics
}

// NewOptions creates a new default options.
func NewOptions() *Options {
	return &Options{
		BindAddr:        DefaultBindAddr,
		StreamingRateHz: DefaultRateHz,
		WatchdogTimeout: DefaultWatchdogTimeout,
		QueueSize:       bridge.DefaultQueueSize,
		PollInterval:    bridge.DefaultPollInterval,
	}
}

// ClampRate bounds hz to [MinRateHz, MaxRateHz].
func ClampRate(hz int) int {
	if hz < MinRateHz {
		return MinRateHz
	}
	if hz > MaxRateHz {
		return MaxRateHz
	}
	return hz
}

// normalized returns a copy of o with zero values replaced by defaults.
func (o *Options) normalized() *Options {
	n := NewOptions()
	if o == nil {
		n.TimeProvider = RealTimeProvider{}
		return n
	}

	*n = *o
	if n.BindAddr == "" {
		n.BindAddr = DefaultBindAddr
	}
	if n.StreamingRateHz == 0 {
		n.StreamingRateHz = DefaultRateHz
	}
	n.StreamingRateHz = ClampRate(n.StreamingRateHz)
	if n.WatchdogTimeout <= 0 {
		n.WatchdogTimeout = DefaultWatchdogTimeout
	}
	if n.QueueSize <= 0 {
		n.QueueSize = bridge.DefaultQueueSize
	}
	if n.PollInterval <= 0 {
		n.PollInterval = bridge.DefaultPollInterval
	}
	if n.TimeProvider == nil {
		n.TimeProvider = RealTimeProvider{}
	}
	return n
}
