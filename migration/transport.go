// Package migration is the island-exchange layer: non-blocking emigration
// and immigration state machines driven by a Transport that exposes only
// post-send, post-recv, and test-for-completion, the minimal contract a
// message-passing network needs to support this shape. A concrete
// Transport's calls may themselves block (a libp2p stream write does);
// PostSend/PostRecv turn that into the posted/pending/complete shape by
// running the real I/O in its own goroutine and signaling a Request.
package migration

import (
	"context"
	"sync"
)

// Transport is the minimal contract the migration engine needs from the
// message-passing network.
type Transport interface {
	// PostSend posts a non-blocking send of payload to the peer ranked
	// dest and returns immediately with a Request tracking completion.
	PostSend(ctx context.Context, dest int, payload []byte) (*Request, error)
	// PostRecv posts a non-blocking receive from any source and returns
	// immediately with a Request tracking completion; on completion the
	// Request carries the received payload.
	PostRecv(ctx context.Context) (*Request, error)
	// Rank returns this process's rank.
	Rank() int
	// Size returns the total number of peers, including self.
	Size() int
}

// Request is the opaque handle for a posted migration operation:
// none/pending/complete observed only through Test.
type Request struct {
	done   chan struct{}
	mu     sync.Mutex
	result []byte
	err    error
}

// NewPendingRequest returns a Request in the pending state, for use by
// Transport implementations: post the real I/O in a goroutine, then call
// Complete once it finishes.
func NewPendingRequest() *Request {
	return &Request{done: make(chan struct{})}
}

// Complete marks the request done exactly once. Calling it more than once
// panics, since that would mean a transport signaled the same posted
// operation twice.
func (r *Request) Complete(result []byte, err error) {
	r.mu.Lock()
	r.result, r.err = result, err
	r.mu.Unlock()
	close(r.done)
}

// Test reports whether the request has completed without blocking. When
// complete is true, result holds the received payload (for a recv
// request; nil for a send) and err holds any transport-level failure.
func (r *Request) Test() (complete bool, result []byte, err error) {
	select {
	case <-r.done:
		r.mu.Lock()
		defer r.mu.Unlock()
		return true, r.result, r.err
	default:
		return false, nil, nil
	}
}
