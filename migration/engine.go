package migration

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/parallelga/pga/internal/errs"
	"github.com/parallelga/pga/randsrc"
)

type slotState int

const (
	stateNone slotState = iota
	statePending
)

// Engine binds a Transport and the two host callbacks (on-arrival,
// on-departure) into the immigration and emigration state machines. One
// Engine serves one process's single inbound and single outbound slot.
type Engine struct {
	transport Transport
	rng       *randsrc.Source

	immigrationState slotState
	immigrationReq   *Request

	emigrationState slotState
	emigrationReq   *Request

	onArrival   func(received []float32)
	onDeparture func(outbound []float32)
}

// NewEngine constructs a migration Engine over the given transport.
func NewEngine(t Transport, rng *randsrc.Source) *Engine {
	return &Engine{transport: t, rng: rng}
}

// SetOnArrival binds the callback invoked once a receive completes, with
// the received buffer already decoded in place.
func (e *Engine) SetOnArrival(fn func(received []float32)) {
	e.onArrival = fn
}

// SetOnDeparture binds the callback invoked to fill the outbound buffer
// just before it is posted.
func (e *Engine) SetOnDeparture(fn func(outbound []float32)) {
	e.onDeparture = fn
}

// ImmigrationTick runs one step of the immigration state machine. buf is
// zeroed before the first receive of a cycle is posted and overwritten in
// place once that receive completes.
func (e *Engine) ImmigrationTick(ctx context.Context, buf []float32) error {
	switch e.immigrationState {
	case stateNone:
		for i := range buf {
			buf[i] = 0
		}
		req, err := e.transport.PostRecv(ctx)
		if err != nil {
			return errs.Wrap(err, "migration: posting receive")
		}
		e.immigrationReq = req
		e.immigrationState = statePending

	case statePending:
		complete, payload, err := e.immigrationReq.Test()
		if !complete {
			return nil
		}
		e.immigrationReq = nil
		e.immigrationState = stateNone
		if err != nil {
			return errs.Wrap(err, "migration: receive failed")
		}
		decodeFloat32s(payload, buf)
		if e.onArrival != nil {
			e.onArrival(buf)
		}
	}
	return nil
}

// EmigrationTick runs one step of the emigration state machine: while a
// previous boat is still in flight, this is a no-op for the tick (the
// single-slot policy never queues a second boat); once free, a random peer
// excluding self is chosen, on_departure fills buf, and a send is posted.
func (e *Engine) EmigrationTick(ctx context.Context, buf []float32) error {
	if e.emigrationState == statePending {
		complete, _, err := e.emigrationReq.Test()
		if !complete {
			return nil
		}
		e.emigrationReq = nil
		e.emigrationState = stateNone
		if err != nil {
			return errs.Wrap(err, "migration: send failed")
		}
	}

	dest, ok := e.randomPeerExcludingSelf()
	if !ok {
		// Single-process run: no peer to send to, nothing to do.
		return nil
	}

	if e.onDeparture != nil {
		e.onDeparture(buf)
	}

	req, err := e.transport.PostSend(ctx, dest, encodeFloat32s(buf))
	if err != nil {
		return errs.Wrap(err, "migration: posting send")
	}
	e.emigrationReq = req
	e.emigrationState = statePending
	return nil
}

func (e *Engine) randomPeerExcludingSelf() (int, bool) {
	size := e.transport.Size()
	if size <= 1 {
		return 0, false
	}
	self := e.transport.Rank()
	for {
		candidate := e.rng.IntN(size)
		if candidate != self {
			return candidate, true
		}
	}
}

func encodeFloat32s(buf []float32) []byte {
	out := make([]byte, 4*len(buf))
	for i, v := range buf {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func decodeFloat32s(data []byte, out []float32) {
	n := len(data) / 4
	if n > len(out) {
		n = len(out)
	}
	for i := 0; i < n; i++ {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
}
