package bridge

import (
	"net"
	"sync"
	"time"

	"github.com/opd-ai/efblink/metrics"
	"github.com/opd-ai/efblink/transport"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// DefaultPollInterval is the read deadline the receive loop uses while idle.
const DefaultPollInterval = time.Millisecond

// Receiver is the background receive loop. It only reads from the transport
// and only writes to the queue.
type Receiver struct {
	transport transport.Transport
	queue     *Queue
	metrics   *metrics.Metrics
	poll      time.Duration

	// dropLog throttles per-datagram log lines so garbage floods do not
	// flood the log. Counters are always updated.
	dropLog *rate.Limiter

	startOnce sync.Once
	done      chan struct{}
	err       error
}

// NewReceiver creates a receive loop over t feeding q. m may be nil.
// A poll interval of zero or less uses DefaultPollInterval.
func NewReceiver(t transport.Transport, q *Queue, m *metrics.Metrics, poll time.Duration) *Receiver {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &Receiver{
		transport: t,
		queue:     q,
		metrics:   m,
		poll:      poll,
		dropLog:   rate.NewLimiter(rate.Every(time.Second), 5),
		done:      make(chan struct{}),
	}
}

// Start runs the loop in a new goroutine. Calling Start more than once has
// no further effect.
func (r *Receiver) Start() {
	r.startOnce.Do(func() {
		go r.run()
	})
}

// Done is closed when the loop has exited.
func (r *Receiver) Done() <-chan struct{} {
	return r.done
}

// Err returns the read error that ended the loop. It is only meaningful
// after Done is closed, and is a closed-transport error after a normal stop.
func (r *Receiver) Err() error {
	<-r.done
	return r.err
}

func (r *Receiver) run() {
	defer close(r.done)

	logrus.WithFields(logrus.Fields{
		"function":   "run",
		"local_addr": addrString(r.transport.LocalAddr()),
		"poll":       r.poll.String(),
	}).Info("Receive loop started")

	buf := make([]byte, transport.MaxDatagramSize)
	for {
		if err := r.transport.SetReadDeadline(time.Now().Add(r.poll)); err != nil {
			r.stop(err)
			return
		}

		n, from, err := r.transport.ReadFrom(buf)
		if err != nil {
			if transport.IsTimeout(err) {
				continue
			}
			r.stop(err)
			return
		}

		r.handle(buf[:n], from)
	}
}

// handle classifies one datagram and queues the result.
func (r *Receiver) handle(data []byte, from net.Addr) {
	msg, err := Classify(data, from)
	if err != nil {
		reason := DropReason(err)
		r.metrics.Dropped(reason)
		if r.dropLog.Allow() {
			logrus.WithFields(logrus.Fields{
				"function": "handle",
				"from":     addrString(from),
				"size":     len(data),
				"reason":   reason,
				"error":    err.Error(),
			}).Debug("Dropping datagram")
		}
		return
	}

	if !r.queue.Push(msg) {
		r.metrics.QueueOverflow()
		if r.dropLog.Allow() {
			logrus.WithFields(logrus.Fields{
				"function": "handle",
				"from":     addrString(from),
				"queued":   r.queue.Len(),
			}).Warn("Message queue full, dropping message")
		}
	}
}

func (r *Receiver) stop(err error) {
	r.err = err
	fields := logrus.Fields{
		"function": "run",
		"error":    err.Error(),
	}
	if transport.IsClosed(err) {
		logrus.WithFields(fields).Info("Receive loop stopped: transport closed")
		return
	}
	logrus.WithFields(fields).Error("Receive loop stopped on read failure")
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}
