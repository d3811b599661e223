// Package ringtest runs several node.Node instances in-process over real
// loopback UDP sockets, for fast deterministic tests of join,
// stabilization, and routing without a Docker fleet (see cmd/tester for
// the out-of-band multi-process harness).
package ringtest

import (
	"context"
	"testing"
	"time"

	"chorddht/internal/logger"
	"chorddht/internal/node"
	"chorddht/internal/ring"
	"chorddht/internal/storage"
	"chorddht/internal/transport"
	"chorddht/internal/wire"
)

// tickInterval is the receive timeout given to every harness node — short,
// so stabilization converges within a handful of real milliseconds.
const tickInterval = 15 * time.Millisecond

// Cluster is a set of in-process nodes sharing an identifier space.
type Cluster struct {
	t       *testing.T
	space   ring.Space
	variant node.Variant
	nodes   []*node.Node
}

// NewCluster builds an empty cluster. Call AddNode to populate it; the
// first AddNode call (no bootstrap) creates the ring, subsequent calls
// join through a prior member.
func NewCluster(t *testing.T, bits int, variant node.Variant) *Cluster {
	t.Helper()
	sp, err := ring.NewSpace(bits)
	if err != nil {
		t.Fatalf("ring.NewSpace: %v", err)
	}
	return &Cluster{t: t, space: sp, variant: variant}
}

// AddNode starts a new node. If this is the first node in the cluster, it
// calls CreateNewDHT; otherwise it joins via bootstrapAddr (an address
// previously returned by AddNode).
func (c *Cluster) AddNode(bootstrapAddr string) *node.Node {
	c.t.Helper()
	tr, err := transport.Listen("127.0.0.1:0")
	if err != nil {
		c.t.Fatalf("transport.Listen: %v", err)
	}
	self := ring.Node{ID: c.space.IDFromString(tr.LocalAddr()), Addr: tr.LocalAddr()}
	n := node.New(tr, c.space, self, storage.NewMemory(logger.NopLogger{}), c.variant, tickInterval, tickInterval, node.WithLogger(logger.NopLogger{}))

	if bootstrapAddr == "" {
		n.CreateNewDHT()
	} else if err := n.Join(bootstrapAddr); err != nil {
		c.t.Fatalf("node.Join: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.t.Cleanup(cancel)
	go n.Run(ctx)

	c.nodes = append(c.nodes, n)
	return n
}

// Settle gives the cluster time for n idle ticks' worth of stabilization
// to run across every node.
func (c *Cluster) Settle(ticks int) {
	time.Sleep(tickInterval * time.Duration(ticks+2))
}

// Nodes returns every node added to the cluster so far, in AddNode order.
func (c *Cluster) Nodes() []*node.Node {
	return c.nodes
}

// Put sends a PUT to addr as an ad hoc client and waits for the ACK/NACK.
func Put(t *testing.T, addr, key, value string) wire.Envelope {
	t.Helper()
	return roundTrip(t, addr, wire.Envelope{Method: wire.Put, Args: wire.PutArgs{Key: key, Value: value}})
}

// Get sends a GET to addr as an ad hoc client and waits for the ACK/NACK.
func Get(t *testing.T, addr, key string) wire.Envelope {
	t.Helper()
	return roundTrip(t, addr, wire.Envelope{Method: wire.Get, Args: wire.GetArgs{Key: key}})
}

func roundTrip(t *testing.T, addr string, req wire.Envelope) wire.Envelope {
	t.Helper()
	cl, err := transport.Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("transport.Listen: %v", err)
	}
	defer cl.Close()

	switch a := req.Args.(type) {
	case wire.PutArgs:
		a.ClientAddr = cl.LocalAddr()
		req.Args = a
	case wire.GetArgs:
		a.ClientAddr = cl.LocalAddr()
		req.Args = a
	}

	if err := cl.SendTo(addr, req); err != nil {
		t.Fatalf("SendTo: %v", err)
	}
	env, _, err := cl.ReceiveTimeout(2 * time.Second)
	if err != nil {
		t.Fatalf("client receive: %v", err)
	}
	return env
}
