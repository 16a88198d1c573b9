package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/opd-ai/efblink/command"
	"github.com/opd-ai/efblink/protocol"
	"github.com/opd-ai/efblink/schema"
	"github.com/opd-ai/efblink/transport"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// peer is the EFB end of a link.
type peer struct {
	transport transport.Transport
	target    net.Addr
	sequence  uint32
}

func newPeer(t transport.Transport, target net.Addr) *peer {
	return &peer{
		transport: t,
		target:    target,
	}
}

func (p *peer) nextSequence() uint32 {
	seq := p.sequence
	p.sequence++
	return seq
}

func (p *peer) sendAck() error {
	return p.transport.Send(protocol.EncodeAck(p.nextSequence()), p.target)
}

func (p *peer) sendReload() error {
	return p.transport.Send(protocol.EncodeReload(p.nextSequence()), p.target)
}

func (p *peer) sendCommand(cmd command.Command) error {
	body, err := command.Marshal(cmd)
	if err != nil {
		return err
	}
	frame, err := protocol.EncodeCommand(p.nextSequence(), body)
	if err != nil {
		return err
	}
	return p.transport.Send(frame, p.target)
}

// repeat calls send n times, no faster than every interval.
func repeat(ctx context.Context, n int, interval time.Duration, send func() error) error {
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	for i := 0; i < n; i++ {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		if err := send(); err != nil {
			return err
		}
	}
	return nil
}

// watch acks the host every ackInterval and prints received SimData to out
// until count frames arrived (0 means no limit) or ctx is done.
func (p *peer) watch(ctx context.Context, ackInterval time.Duration, count int, out io.Writer) (*seqTracker, error) {
	tracker := &seqTracker{}
	buf := make([]byte, transport.MaxDatagramSize)
	nextAck := time.Now()

	for count == 0 || tracker.received < uint64(count) {
		if ctx.Err() != nil {
			return tracker, nil
		}

		now := time.Now()
		if !now.Before(nextAck) {
			if err := p.sendAck(); err != nil {
				return tracker, fmt.Errorf("send ack: %w", err)
			}
			nextAck = now.Add(ackInterval)
		}

		// Wake up for the next ack or to notice cancellation.
		deadline := nextAck
		if limit := now.Add(100 * time.Millisecond); limit.Before(deadline) {
			deadline = limit
		}
		if err := p.transport.SetReadDeadline(deadline); err != nil {
			return tracker, err
		}

		n, from, err := p.transport.ReadFrom(buf)
		if err != nil {
			if transport.IsTimeout(err) {
				continue
			}
			return tracker, err
		}

		hdr, payload, err := protocol.Decode(buf[:n])
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "watch",
				"from":     from.String(),
				"reason":   protocol.Reason(err),
			}).Debug("Dropping datagram")
			continue
		}
		if hdr.Type != protocol.PacketSimData {
			continue
		}
		snap, ok := protocol.DecodeSimData(payload)
		if !ok {
			continue
		}

		tracker.observe(hdr.Sequence)
		printSnapshot(out, hdr.Sequence, &snap)
	}
	return tracker, nil
}

func printSnapshot(out io.Writer, seq uint32, s *schema.Snapshot) {
	fmt.Fprintf(out, "#%-8d lat=%.5f lon=%.5f alt=%.0fm ias=%.0fkt hdg=%.0f com1=%.3f/%.3f\n",
		seq, s.Latitude, s.Longitude, s.ElevationM, s.IASKts, s.MagHeadingDeg,
		float64(s.COM1ActiveHz)/1e6, float64(s.COM1StandbyHz)/1e6)
}

// seqTracker counts gaps in the host's sequence numbers, modulo 2^32.
type seqTracker struct {
	started  bool
	next     uint32
	received uint64
	lost     uint64
	stale    uint64
}

func (t *seqTracker) observe(seq uint32) {
	t.received++
	if !t.started {
		t.started = true
		t.next = seq + 1
		return
	}

	gap := seq - t.next
	switch {
	case gap == 0:
	case gap < 1<<31:
		t.lost += uint64(gap)
	default:
		// Behind the expected value: duplicated or reordered.
		t.stale++
		return
	}
	t.next = seq + 1
}
