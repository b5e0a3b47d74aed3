// Package libp2ptransport is the production migration.Transport: boats
// travel as libp2p stream writes over a dedicated protocol ID. Receiving
// from any source maps onto a single stream handler that any peer can open,
// feeding a shared inbox channel; PostRecv just drains that channel.
package libp2ptransport

import (
	"context"
	"fmt"
	"io"

	libp2p "github.com/libp2p/go-libp2p"
	libp2p_host "github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	peer "github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"

	"github.com/parallelga/pga/internal/errs"
	"github.com/parallelga/pga/migration"
)

// ProtocolID is the libp2p stream protocol boats travel over.
const ProtocolID = "/pga/migrate/1.0.0"

// Transport is a migration.Transport backed by a libp2p host. Peer
// addresses for every rank are known up front (a static island topology,
// no dynamic membership), except this rank's own slot in peerAddrs, which
// is ignored.
type Transport struct {
	host      libp2p_host.Host
	rank      int
	peerAddrs []string
	incoming  chan []byte
}

// New starts a libp2p host for this rank and registers the migration
// stream handler. peerAddrs must have one multiaddr per rank (including a
// placeholder for this rank's own index, never dialed).
func New(rank int, peerAddrs []string) (*Transport, error) {
	host, err := libp2p.New()
	if err != nil {
		return nil, errs.Wrap(err, "libp2ptransport: starting host")
	}

	t := &Transport{
		host:      host,
		rank:      rank,
		peerAddrs: peerAddrs,
		incoming:  make(chan []byte, 16),
	}

	host.SetStreamHandler(ProtocolID, func(s network.Stream) {
		defer s.Close()
		data, err := io.ReadAll(s)
		if err != nil {
			return
		}
		t.incoming <- data
	})

	return t, nil
}

// ListenAddrs returns this host's dialable multiaddrs, e.g. for
// distributing to peers out of band before a run starts.
func (t *Transport) ListenAddrs() []string {
	addrs := make([]string, 0, len(t.host.Addrs()))
	for _, a := range t.host.Addrs() {
		addrs = append(addrs, fmt.Sprintf("%s/p2p/%s", a.String(), t.host.ID().String()))
	}
	return addrs
}

// Close shuts down the libp2p host.
func (t *Transport) Close() error {
	return t.host.Close()
}

func (t *Transport) Rank() int { return t.rank }
func (t *Transport) Size() int { return len(t.peerAddrs) }

var _ migration.Transport = (*Transport)(nil)

// PostSend dials dest (if needed) and writes payload over a fresh stream,
// from a background goroutine so the call returns immediately with a
// trackable Request.
func (t *Transport) PostSend(ctx context.Context, dest int, payload []byte) (*migration.Request, error) {
	if dest < 0 || dest >= len(t.peerAddrs) {
		return nil, fmt.Errorf("libp2ptransport: destination %d out of range [0,%d)", dest, len(t.peerAddrs))
	}
	req := migration.NewPendingRequest()
	go func() {
		req.Complete(nil, t.send(ctx, dest, payload))
	}()
	return req, nil
}

func (t *Transport) send(ctx context.Context, dest int, payload []byte) error {
	maddr, err := ma.NewMultiaddr(t.peerAddrs[dest])
	if err != nil {
		return errs.Wrap(err, "parsing peer address")
	}
	info, err := peer.AddrInfoFromP2pAddr(maddr)
	if err != nil {
		return errs.Wrap(err, "resolving peer info")
	}
	if err := t.host.Connect(ctx, *info); err != nil {
		return errs.Wrap(err, "connecting to peer")
	}
	stream, err := t.host.NewStream(ctx, info.ID, ProtocolID)
	if err != nil {
		return errs.Wrap(err, "opening stream")
	}
	defer stream.Close()
	if _, err := stream.Write(payload); err != nil {
		return errs.Wrap(err, "writing boat")
	}
	return nil
}

// PostRecv waits for the next payload to arrive on the shared inbox from a
// background goroutine, matching "any source, any tag".
func (t *Transport) PostRecv(ctx context.Context) (*migration.Request, error) {
	req := migration.NewPendingRequest()
	go func() {
		select {
		case data := <-t.incoming:
			req.Complete(data, nil)
		case <-ctx.Done():
			req.Complete(nil, ctx.Err())
		}
	}()
	return req, nil
}
