// Package metrics exposes Prometheus instruments for an EFB streaming
// session.
//
// Every method is safe to call on a nil *Metrics, so the core can run with
// metrics disabled without guarding each call site.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "efblink"

// Drop reasons recorded by the receive path in addition to the protocol
// decode reasons.
const (
	DropInboundSimData = "inbound_simdata"
	DropQueueFull      = "queue_full"
)

// Metrics holds the session instruments.
type Metrics struct {
	framesSent     prometheus.Counter
	sendErrors     prometheus.Counter
	dropped        *prometheus.CounterVec
	acksReceived   prometheus.Counter
	commands       *prometheus.CounterVec
	reloads        prometheus.Counter
	queueOverflows prometheus.Counter
	streaming      prometheus.Gauge
	sequence       prometheus.Gauge
}

// New creates the instruments and registers them with registry.
// It panics if registration fails, as prometheus.MustRegister does.
func New(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		framesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "frames_sent_total",
			Help:      "SimData frames handed to the transport",
		}),
		sendErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "send_errors_total",
			Help:      "SimData frames the transport failed to send",
		}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "receive",
			Name:      "datagrams_dropped_total",
			Help:      "Inbound datagrams dropped, by reason",
		}, []string{"reason"}),
		acksReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "acks_received_total",
			Help:      "Valid Ack frames applied to the session",
		}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "commands_total",
			Help:      "Command payloads processed, by command tag and result",
		}, []string{"kind", "result"}),
		reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "reloads_total",
			Help:      "Dataref handle re-resolutions triggered by Reload frames",
		}),
		queueOverflows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "receive",
			Name:      "queue_overflows_total",
			Help:      "Classified messages dropped because the queue was full",
		}),
		streaming: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "streaming",
			Help:      "1 while a peer is known and its last Ack is within the watchdog timeout",
		}),
		sequence: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "sequence",
			Help:      "Sequence number of the last SimData frame sent",
		}),
	}

	registry.MustRegister(
		m.framesSent,
		m.sendErrors,
		m.dropped,
		m.acksReceived,
		m.commands,
		m.reloads,
		m.queueOverflows,
		m.streaming,
		m.sequence,
	)

	return m
}

// FrameSent records a SimData frame handed to the transport.
func (m *Metrics) FrameSent(sequence uint32) {
	if m == nil {
		return
	}
	m.framesSent.Inc()
	m.sequence.Set(float64(sequence))
}

// SendError records a failed send.
func (m *Metrics) SendError() {
	if m == nil {
		return
	}
	m.sendErrors.Inc()
}

// Dropped records an inbound datagram dropped for reason.
func (m *Metrics) Dropped(reason string) {
	if m == nil {
		return
	}
	m.dropped.WithLabelValues(reason).Inc()
}

// AckReceived records an applied Ack.
func (m *Metrics) AckReceived() {
	if m == nil {
		return
	}
	m.acksReceived.Inc()
}

// Command records one processed command payload. kind is empty when the
// payload did not parse.
func (m *Metrics) Command(kind, result string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "unparsed"
	}
	m.commands.WithLabelValues(kind, result).Inc()
}

// Reload records a handle re-resolution.
func (m *Metrics) Reload() {
	if m == nil {
		return
	}
	m.reloads.Inc()
}

// QueueOverflow records a message lost to a full queue.
func (m *Metrics) QueueOverflow() {
	if m == nil {
		return
	}
	m.queueOverflows.Inc()
	m.dropped.WithLabelValues(DropQueueFull).Inc()
}

// SetStreaming records whether the session is currently streaming.
func (m *Metrics) SetStreaming(active bool) {
	if m == nil {
		return
	}
	if active {
		m.streaming.Set(1)
	} else {
		m.streaming.Set(0)
	}
}
