// Package supervisor runs a *transport.Transport on a background worker.
// internal/transport.Transport is single-threaded and cooperative by design
// (see its package doc); Supervisor is the one sanctioned place a goroutine
// is allowed to touch it, and it is the Transport's sole owner for the
// lifetime of the instance: an outbound channel drained by one goroutine,
// an inbound poll loop driven by another. There is no lock between the two,
// so both can be mid-call at the same time; the send loop only touches the
// Transport's transmit state and the receive loop only its receive state,
// and the device is shared (the internal/device implementations guard
// their state with a mutex).
package supervisor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/logging"
	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/metrics"
	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/serialize"
	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/transport"
)

// Outbound is one unit of work for the send-side worker: a sequence of
// fields staged in order and framed in a single SendData call.
type Outbound struct {
	Fields []serialize.Serializable
	// Done, if non-nil, receives the result of the send attempt.
	Done chan<- error
}

// ReceiveFunc is called with every payload successfully decoded by the
// receive-side poll loop. It may read the decoded payload out of tr (for
// example with ReceptionBufferCopy or ReadData) but must not call
// ReceiveData or SendData; it should copy whatever it needs before
// returning.
type ReceiveFunc func(tr *transport.Transport, payloadLen int)

// Supervisor owns exactly one *transport.Transport and exposes it to
// exactly two goroutines: the send loop and the receive loop.
type Supervisor struct {
	tr *transport.Transport

	outbound chan Outbound
	onRecv   ReceiveFunc

	pollInterval time.Duration

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// Option configures a Supervisor at construction time.
type Option func(*Supervisor)

// WithQueueDepth sets the outbound channel's buffer size. Default 16.
func WithQueueDepth(n int) Option {
	return func(s *Supervisor) {
		s.outbound = make(chan Outbound, n)
	}
}

// WithPollInterval overrides the spacing between ReceiveData polls when the
// transport reports NoPacket. Default 1ms.
func WithPollInterval(d time.Duration) Option {
	return func(s *Supervisor) { s.pollInterval = d }
}

// New wraps tr and installs onRecv as the receive-side callback. onRecv may
// be nil, in which case decoded packets are discarded after being counted.
func New(tr *transport.Transport, onRecv ReceiveFunc, opts ...Option) *Supervisor {
	s := &Supervisor{
		tr:           tr,
		outbound:     make(chan Outbound, 16),
		onRecv:       onRecv,
		pollInterval: time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the send and receive goroutines. Calling Start twice on
// the same Supervisor is a programming error.
func (s *Supervisor) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(2)
	go s.sendLoop(ctx)
	go s.recvLoop(ctx)
}

// Stop cancels both loops and waits for them to exit. The wrapped Transport
// is left open; callers close it themselves once Stop returns.
func (s *Supervisor) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// Send enqueues fields for transmission and waits for the send loop's
// result. It blocks while the outbound queue is full and until the send
// completes, and returns ctx.Err() if ctx is done first.
func (s *Supervisor) Send(ctx context.Context, fields ...serialize.Serializable) error {
	done := make(chan error, 1)
	select {
	case s.outbound <- Outbound{Fields: fields, Done: done}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Supervisor) sendLoop(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.outbound:
			err := s.sendOne(job.Fields)
			if job.Done != nil {
				job.Done <- err
			}
		}
	}
}

func (s *Supervisor) sendOne(fields []serialize.Serializable) error {
	for i, f := range fields {
		if _, err := s.tr.WriteData(f, -1); err != nil {
			s.tr.ResetTransmissionBuffer()
			return fmt.Errorf("supervisor: stage field %d: %w", i, err)
		}
	}
	ok, err := s.tr.SendData()
	if err != nil {
		return fmt.Errorf("supervisor: send: %w", err)
	}
	if !ok {
		return fmt.Errorf("supervisor: send: transport reported failure with no error")
	}
	return nil
}

func (s *Supervisor) recvLoop(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := s.tr.ReceiveData()
		if err != nil {
			metrics.ClassifyError(metrics.ErrWhereParse, err)
			logging.Component("supervisor").Warn("supervisor_receive_error", "error", err)
			continue
		}
		if !res.Received {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.pollInterval):
			}
			continue
		}
		if s.onRecv != nil {
			s.onRecv(s.tr, res.PayloadLen)
		}
	}
}
