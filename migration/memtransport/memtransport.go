// Package memtransport is an in-process migration.Transport for tests and
// single-machine multi-island runs: every "process" is a goroutine sharing
// one switchboard of Go channels instead of a socket. Grounded on the
// engine's own MockTransport test doubles (kernel/core/mesh tests), which
// likewise satisfy a Transport-shaped interface without touching a socket.
package memtransport

import (
	"context"
	"fmt"
	"sync"

	"github.com/parallelga/pga/migration"
)

type envelope struct {
	from    int
	payload []byte
}

// Switchboard is shared by every Transport created with New for one run; it
// routes PostSend payloads to the matching rank's inbox.
type Switchboard struct {
	size   int
	inbox  []chan envelope
	closed chan struct{}
	once   sync.Once
}

// NewSwitchboard creates a switchboard for n ranks.
func NewSwitchboard(n int) *Switchboard {
	sb := &Switchboard{size: n, closed: make(chan struct{})}
	sb.inbox = make([]chan envelope, n)
	for i := range sb.inbox {
		sb.inbox[i] = make(chan envelope, 8)
	}
	return sb
}

// Close releases all pending receivers. Safe to call multiple times.
func (sb *Switchboard) Close() {
	sb.once.Do(func() { close(sb.closed) })
}

// Transport implements migration.Transport against a Switchboard.
type Transport struct {
	sb   *Switchboard
	rank int
}

// New returns a Transport for rank within sb.
func New(sb *Switchboard, rank int) *Transport {
	return &Transport{sb: sb, rank: rank}
}

var _ migration.Transport = (*Transport)(nil)

func (t *Transport) Rank() int { return t.rank }
func (t *Transport) Size() int { return t.sb.size }

// PostSend delivers payload to dest's inbox from a background goroutine,
// completing the returned Request once the send has been accepted.
func (t *Transport) PostSend(ctx context.Context, dest int, payload []byte) (*migration.Request, error) {
	if dest < 0 || dest >= t.sb.size {
		return nil, fmt.Errorf("memtransport: destination %d out of range [0,%d)", dest, t.sb.size)
	}
	req := migration.NewPendingRequest()
	go func() {
		select {
		case t.sb.inbox[dest] <- envelope{from: t.rank, payload: payload}:
			req.Complete(nil, nil)
		case <-t.sb.closed:
			req.Complete(nil, fmt.Errorf("memtransport: switchboard closed"))
		case <-ctx.Done():
			req.Complete(nil, ctx.Err())
		}
	}()
	return req, nil
}

// PostRecv waits for the next envelope addressed to this rank, completing
// the returned Request with its payload.
func (t *Transport) PostRecv(ctx context.Context) (*migration.Request, error) {
	req := migration.NewPendingRequest()
	go func() {
		select {
		case env := <-t.sb.inbox[t.rank]:
			req.Complete(env.payload, nil)
		case <-t.sb.closed:
			req.Complete(nil, fmt.Errorf("memtransport: switchboard closed"))
		case <-ctx.Done():
			req.Complete(nil, ctx.Err())
		}
	}()
	return req, nil
}
