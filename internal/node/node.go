// Package node implements the ring-membership and routing state machine:
// the message loop, join procedure, stabilization protocol, and the
// baseline/finger-table key routing variants (spec §2-§4).
package node

import (
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	oteltrace "go.opentelemetry.io/otel/trace"

	"chorddht/internal/logger"
	"chorddht/internal/ring"
	"chorddht/internal/routingtable"
	"chorddht/internal/storage"
	"chorddht/internal/transport"
)

// Variant selects the routing algorithm a Node uses.
type Variant string

const (
	Baseline Variant = "baseline"
	Finger   Variant = "finger"
)

// Node is a single DHT peer: its ring state (successor/predecessor), its
// keystore, and — for the finger variant — its routing table. All
// mutation happens from the single message-loop goroutine (Run); the
// mutex below guards only the handful of fields read concurrently by
// introspection callers outside that loop (§5 EXPANSION).
type Node struct {
	lgr   logger.Logger
	space ring.Space
	self  ring.Node

	mu          sync.RWMutex
	successor   ring.Node
	predecessor *ring.Node
	insideDHT   bool

	store   storage.Keystore
	fingers *routingtable.FingerTable
	variant Variant

	tr             *transport.Transport
	receiveTimeout time.Duration
	joinRetry      time.Duration

	tracer oteltrace.Tracer

	shutdown chan struct{}
	once     sync.Once
}

// New builds a Node. variant chooses the routing algorithm; for Finger, a
// FingerTable is created and seeded with the node's own successor once
// CreateNewDHT or Join completes.
func New(tr *transport.Transport, space ring.Space, self ring.Node, store storage.Keystore, variant Variant, receiveTimeout, joinRetry time.Duration, opts ...Option) *Node {
	n := &Node{
		lgr:            logger.NopLogger{},
		space:          space,
		self:           self,
		store:          store,
		variant:        variant,
		tr:             tr,
		receiveTimeout: receiveTimeout,
		joinRetry:      joinRetry,
		tracer:         otel.Tracer("chorddht/node"),
		shutdown:       make(chan struct{}),
	}
	if variant == Finger {
		n.fingers = routingtable.New(logger.NopLogger{})
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.fingers != nil {
		n.fingers = routingtable.New(n.lgr.Named("routingtable"))
	}
	return n
}

// Self returns the node's own ring identity.
func (n *Node) Self() ring.Node { return n.self }

// Space returns the identifier space this node operates in.
func (n *Node) Space() ring.Space { return n.space }

// Successor returns the node's current successor.
func (n *Node) Successor() ring.Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.successor
}

func (n *Node) setSuccessor(s ring.Node) {
	n.mu.Lock()
	n.successor = s
	n.mu.Unlock()
	if n.fingers != nil {
		n.fingers.Insert(s.ID, s.Addr)
	}
}

// Predecessor returns the node's current predecessor and whether it is set.
func (n *Node) Predecessor() (ring.Node, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.predecessor == nil {
		return ring.Node{}, false
	}
	return *n.predecessor, true
}

func (n *Node) setPredecessor(p ring.Node) {
	n.mu.Lock()
	cp := p
	n.predecessor = &cp
	n.mu.Unlock()
}

// InsideDHT reports whether the node has completed the join procedure.
func (n *Node) InsideDHT() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.insideDHT
}

func (n *Node) setInsideDHT(v bool) {
	n.mu.Lock()
	n.insideDHT = v
	n.mu.Unlock()
}

// CreateNewDHT makes the node a solitary ring: its own successor, no
// predecessor (spec §3 invariant 4).
func (n *Node) CreateNewDHT() {
	n.setSuccessor(n.self)
	n.setInsideDHT(true)
	n.lgr.Info("created new ring, node is solitary", logger.FNode("self", n.self))
}

// Store returns the node's keystore, for introspection.
func (n *Node) Store() storage.Keystore { return n.store }

// Stop signals the message loop to exit at its next opportunity.
func (n *Node) Stop() {
	n.once.Do(func() { close(n.shutdown) })
}
