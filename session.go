package efblink

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/opd-ai/efblink/bridge"
	"github.com/opd-ai/efblink/command"
	"github.com/opd-ai/efblink/dataref"
	"github.com/opd-ai/efblink/metrics"
	"github.com/opd-ai/efblink/protocol"
	"github.com/opd-ai/efblink/transport"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var (
	// ErrNilAPI is returned when a session is created without a host API.
	ErrNilAPI = errors.New("efblink: nil dataref API")

	// ErrNilTransport is returned when a session is created without a transport.
	ErrNilTransport = errors.New("efblink: nil transport")
)

// Session streams flight-state snapshots to a single peer and applies the
// commands that peer sends back.
//
// Tick, HandleDatagram and the query methods belong to the tick context and
// must not be called concurrently with each other. Start, Kill, ID and
// RequestStreamingRate are safe from any goroutine.
type Session struct {
	id           ulid.ULID
	options      *Options
	api          dataref.API
	handles      *dataref.Handles
	dispatcher   *command.Dispatcher
	transport    transport.Transport
	queue        *bridge.Queue
	receiver     *bridge.Receiver
	metrics      *metrics.Metrics
	timeProvider TimeProvider
	sendLog      *rate.Limiter

	// Owned by the tick context.
	peer     net.Addr
	lastAck  time.Time
	sequence uint32
	rateHz   int

	running  atomic.Bool
	started  atomic.Bool
	killOnce sync.Once
}

// New binds the UDP stream socket from options and creates a session over
// it. A bind failure is returned and no session is created. A nil options
// uses NewOptions.
func New(api dataref.API, options *Options) (*Session, error) {
	if api == nil {
		return nil, ErrNilAPI
	}
	options = options.normalized()

	t, err := transport.NewUDPTransport(options.BindAddr)
	if err != nil {
		return nil, fmt.Errorf("efblink: %w", err)
	}

	s, err := NewWithTransport(api, t, options)
	if err != nil {
		_ = t.Close()
		return nil, err
	}
	return s, nil
}

// NewWithTransport creates a session over an existing transport. The
// session takes ownership of t and closes it in Kill.
func NewWithTransport(api dataref.API, t transport.Transport, options *Options) (*Session, error) {
	if api == nil {
		return nil, ErrNilAPI
	}
	if t == nil {
		return nil, ErrNilTransport
	}
	options = options.normalized()

	handles := &dataref.Handles{}
	queue := bridge.NewQueue(options.QueueSize)

	s := &Session{
		id:           ulid.Make(),
		options:      options,
		api:          api,
		handles:      handles,
		dispatcher:   command.NewDispatcher(api, handles),
		transport:    t,
		queue:        queue,
		receiver:     bridge.NewReceiver(t, queue, options.Metrics, options.PollInterval),
		metrics:      options.Metrics,
		timeProvider: options.TimeProvider,
		sendLog:      rate.NewLimiter(rate.Every(time.Second), 1),
		rateHz:       options.StreamingRateHz,
	}
	// The watchdog starts armed so a peer that acks promptly sees no gap.
	s.lastAck = s.timeProvider.Now()
	s.running.Store(true)

	missing := handles.Resolve(api)

	logrus.WithFields(logrus.Fields{
		"function":         "NewWithTransport",
		"session":          s.id.String(),
		"local_addr":       addrString(t.LocalAddr()),
		"rate_hz":          s.rateHz,
		"watchdog_timeout": options.WatchdogTimeout.String(),
		"missing_datarefs": missing,
	}).Info("Session created")

	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() ulid.ULID {
	return s.id
}

// LocalAddr returns the address the session streams from.
func (s *Session) LocalAddr() net.Addr {
	return s.transport.LocalAddr()
}

// Start launches the background receive loop.
func (s *Session) Start() {
	s.started.Store(true)
	s.receiver.Start()
}

// Kill closes the transport, which stops the receive loop, and waits for the
// loop to exit if it was started. It is safe to call more than once.
func (s *Session) Kill() {
	s.killOnce.Do(func() {
		s.running.Store(false)
		if err := s.transport.Close(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Kill",
				"session":  s.id.String(),
				"error":    err.Error(),
			}).Warn("Transport close failed")
		}
		if s.started.Load() {
			<-s.receiver.Done()
		}

		logrus.WithFields(logrus.Fields{
			"function": "Kill",
			"session":  s.id.String(),
		}).Info("Session stopped")
	})
}

// IsRunning reports whether Kill has not been called yet.
func (s *Session) IsRunning() bool {
	return s.running.Load()
}

// Tick is the periodic callback. It drains every queued message, then sends
// one SimData frame if a peer is known and the watchdog has not expired. It
// never blocks and returns the interval until the next desired call.
func (s *Session) Tick() time.Duration {
	s.queue.Drain(s.apply)

	if !s.running.Load() {
		return s.IterationInterval()
	}

	active := s.IsStreamingActive()
	s.metrics.SetStreaming(active && s.peer != nil)
	if !active || s.peer == nil {
		return s.IterationInterval()
	}

	snap := s.handles.Capture(s.api)
	seq := s.sequence
	s.sequence++
	frame := protocol.EncodeSimData(seq, &snap)

	if err := s.transport.Send(frame, s.peer); err != nil {
		s.metrics.SendError()
		if s.sendLog.Allow() {
			logrus.WithFields(logrus.Fields{
				"function": "Tick",
				"session":  s.id.String(),
				"peer":     s.peer.String(),
				"sequence": seq,
				"error":    err.Error(),
			}).Warn("SimData send failed")
		}
	} else {
		s.metrics.FrameSent(seq)
	}

	return s.IterationInterval()
}

// HandleDatagram classifies one raw datagram and applies it immediately.
// Hosts that read the socket themselves use this instead of Start; it must
// run on the tick context. Undecodable datagrams are reported to the host
// log and dropped.
func (s *Session) HandleDatagram(buf []byte, from net.Addr) {
	msg, err := bridge.Classify(buf, from)
	if err != nil {
		s.metrics.Dropped(bridge.DropReason(err))
		if !errors.Is(err, bridge.ErrInboundSimData) {
			s.api.Log(fmt.Sprintf("EFB: dropped packet: %v", err))
		}
		logrus.WithFields(logrus.Fields{
			"function": "HandleDatagram",
			"session":  s.id.String(),
			"from":     addrString(from),
			"error":    err.Error(),
		}).Debug("Dropping datagram")
		return
	}
	s.apply(msg)
}

// RequestStreamingRate asks the session to switch to hz on its next tick.
// The rate is clamped to [MinRateHz, MaxRateHz]. It reports false if the
// request was dropped because the queue was full.
func (s *Session) RequestStreamingRate(hz int) bool {
	if !s.queue.Push(bridge.RateChange{Hz: hz}) {
		s.metrics.QueueOverflow()
		return false
	}
	return true
}

// apply mutates session state for one message. Tick context only.
func (s *Session) apply(msg bridge.Message) {
	switch m := msg.(type) {
	case bridge.PeerAck:
		s.applyAck(m.Addr)
	case bridge.CommandPayload:
		out := s.dispatcher.Apply(m.Data)
		s.metrics.Command(out.Tag, out.Result)
	case bridge.ReloadRequest:
		missing := s.handles.Resolve(s.api)
		s.metrics.Reload()
		logrus.WithFields(logrus.Fields{
			"function":         "apply",
			"session":          s.id.String(),
			"missing_datarefs": missing,
		}).Info("Dataref handles reloaded")
	case bridge.RateChange:
		s.setRate(m.Hz)
	}
}

func (s *Session) applyAck(from net.Addr) {
	if from == nil {
		return
	}
	if s.peer == nil || s.peer.String() != from.String() {
		logrus.WithFields(logrus.Fields{
			"function": "applyAck",
			"session":  s.id.String(),
			"previous": addrString(s.peer),
			"peer":     from.String(),
		}).Info("Streaming peer changed")
	}
	s.peer = from
	s.lastAck = s.timeProvider.Now()
	s.metrics.AckReceived()
}

func (s *Session) setRate(hz int) {
	clamped := ClampRate(hz)
	if clamped == s.rateHz {
		return
	}
	logrus.WithFields(logrus.Fields{
		"function":  "setRate",
		"session":   s.id.String(),
		"requested": hz,
		"previous":  s.rateHz,
		"rate_hz":   clamped,
	}).Info("Streaming rate changed")
	s.rateHz = clamped
}

// IterationInterval returns the time between ticks at the current rate.
func (s *Session) IterationInterval() time.Duration {
	return time.Second / time.Duration(s.rateHz)
}

// IsStreamingActive reports whether the last Ack is within the watchdog
// timeout. It does not require a peer.
func (s *Session) IsStreamingActive() bool {
	return s.timeProvider.Now().Sub(s.lastAck) <= s.options.WatchdogTimeout
}

// State returns the current streaming state.
func (s *Session) State() State {
	switch {
	case s.peer == nil:
		return StateIdle
	case s.IsStreamingActive():
		return StateStreaming
	default:
		return StatePaused
	}
}

// Peer returns the address SimData is streamed to, or nil before the first Ack.
func (s *Session) Peer() net.Addr {
	return s.peer
}

// LastAck returns when the last Ack was applied, or the creation time if
// none has arrived.
func (s *Session) LastAck() time.Time {
	return s.lastAck
}

// Sequence returns the sequence number the next SimData frame will carry.
func (s *Session) Sequence() uint32 {
	return s.sequence
}

// StreamingRate returns the current rate in Hz.
func (s *Session) StreamingRate() int {
	return s.rateHz
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}
