package ringtest

import (
	"math"
	"sort"
	"testing"

	"chorddht/internal/node"
	"chorddht/internal/ring"
	"chorddht/internal/wire"
)

// S1: a solitary node answers its own PUT/GET.
func TestSolitaryPutGet(t *testing.T) {
	c := NewCluster(t, 10, node.Baseline)
	n := c.AddNode("")
	addr := n.Self().Addr

	if env := Put(t, addr, "alpha", "1"); env.Method != wire.Ack {
		t.Fatalf("PUT reply = %v, want ACK", env.Method)
	}
	env := Get(t, addr, "alpha")
	if env.Method != wire.Ack {
		t.Fatalf("GET reply = %v, want ACK", env.Method)
	}
	if got := env.Args.(wire.AckArgs); !got.Found || got.Value != "1" {
		t.Errorf("GET ack = %+v, want Found=true Value=1", got)
	}
}

// S2: two-node convergence — after a few ticks, A and B point at each
// other as both successor and predecessor.
func TestTwoNodeConvergence(t *testing.T) {
	c := NewCluster(t, 10, node.Baseline)
	a := c.AddNode("")
	b := c.AddNode(a.Self().Addr)
	c.Settle(6)

	if succ := a.Successor(); !succ.ID.Equal(b.Self().ID) {
		t.Errorf("A.successor = %s, want B %s", succ.ID.Hex(), b.Self().ID.Hex())
	}
	if succ := b.Successor(); !succ.ID.Equal(a.Self().ID) {
		t.Errorf("B.successor = %s, want A %s", succ.ID.Hex(), a.Self().ID.Hex())
	}
	pa, ok := a.Predecessor()
	if !ok || !pa.ID.Equal(b.Self().ID) {
		t.Errorf("A.predecessor = %v (ok=%v), want B", pa, ok)
	}
	pb, ok := b.Predecessor()
	if !ok || !pb.ID.Equal(a.Self().ID) {
		t.Errorf("B.predecessor = %v (ok=%v), want A", pb, ok)
	}
}

// S3: three nodes, any one can answer a lookup for a key stored via any
// other.
func TestThreeNodeKeyVisibility(t *testing.T) {
	c := NewCluster(t, 10, node.Baseline)
	a := c.AddNode("")
	b := c.AddNode(a.Self().Addr)
	cn := c.AddNode(a.Self().Addr)
	c.Settle(10)

	if env := Put(t, b.Self().Addr, "k", "v"); env.Method != wire.Ack {
		t.Fatalf("PUT reply = %v, want ACK", env.Method)
	}

	for _, addr := range []string{a.Self().Addr, cn.Self().Addr} {
		env := Get(t, addr, "k")
		if env.Method != wire.Ack {
			t.Fatalf("GET via %s = %v, want ACK", addr, env.Method)
		}
		if ack := env.Args.(wire.AckArgs); !ack.Found || ack.Value != "v" {
			t.Errorf("GET via %s ack = %+v, want Found=true Value=v", addr, ack)
		}
	}
}

// S5: GET for a never-stored key returns a non-ACK-with-value reply.
func TestGetMissingKeyNotFound(t *testing.T) {
	c := NewCluster(t, 10, node.Baseline)
	n := c.AddNode("")

	env := Get(t, n.Self().Addr, "never-stored")
	if env.Method != wire.Ack {
		t.Fatalf("GET reply = %v, want ACK carrying Found=false", env.Method)
	}
	if ack := env.Args.(wire.AckArgs); ack.Found {
		t.Errorf("GET ack = %+v, want Found=false", ack)
	}
}

// Finger-table variant, small ring: lookups resolve correctly across
// nodes. The hop-count bound itself (S4) is established separately by
// TestFingerVariantHopBound below, on a full 16-node ring.
func TestFingerVariantKeyVisibility(t *testing.T) {
	c := NewCluster(t, 10, node.Finger)
	a := c.AddNode("")
	b := c.AddNode(a.Self().Addr)
	cn := c.AddNode(a.Self().Addr)
	c.Settle(10)

	if env := Put(t, b.Self().Addr, "finger-key", "v2"); env.Method != wire.Ack {
		t.Fatalf("PUT reply = %v, want ACK", env.Method)
	}
	env := Get(t, cn.Self().Addr, "finger-key")
	if env.Method != wire.Ack {
		t.Fatalf("GET reply = %v, want ACK", env.Method)
	}
	if ack := env.Args.(wire.AckArgs); !ack.Found || ack.Value != "v2" {
		t.Errorf("GET ack = %+v, want Found=true Value=v2", ack)
	}
}

// Property 3 (spec §8): ring integrity. Starting from any node and
// following Successor() must visit every other node exactly once, in
// clockwise id order, and return to the origin after exactly N steps.
func TestRingIntegrityWalk(t *testing.T) {
	const n = 6
	c := NewCluster(t, 10, node.Baseline)
	first := c.AddNode("")
	for i := 1; i < n; i++ {
		c.AddNode(first.Self().Addr)
	}
	c.Settle(20)

	nodes := c.Nodes()
	sorted := append([]*node.Node(nil), nodes...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Self().ID.Cmp(sorted[j].Self().ID) < 0
	})

	origin := sorted[0]
	wantOrder := append(append([]*node.Node(nil), sorted[1:]...), origin)

	cur := origin
	for i, want := range wantOrder {
		succ := cur.Successor()
		next := findByID(nodes, succ.ID)
		if next == nil {
			t.Fatalf("step %d: successor %s of %s matches no cluster node", i, succ.ID.Hex(), cur.Self().ID.Hex())
		}
		if !next.Self().ID.Equal(want.Self().ID) {
			t.Fatalf("step %d: successor of %s = %s, want %s (clockwise order broken)",
				i, cur.Self().ID.Hex(), next.Self().ID.Hex(), want.Self().ID.Hex())
		}
		cur = next
	}
	if !cur.Self().ID.Equal(origin.Self().ID) {
		t.Fatalf("after %d steps, walk ended at %s, want origin %s", n, cur.Self().ID.Hex(), origin.Self().ID.Hex())
	}
}

func findByID(nodes []*node.Node, id ring.ID) *node.Node {
	for _, n := range nodes {
		if n.Self().ID.Equal(id) {
			return n
		}
	}
	return nil
}

// S4: a 16-node finger-table ring answers GET with no more than
// ceil(log2(16))+1 = 5 forwarding hops.
func TestFingerVariantHopBound(t *testing.T) {
	const n = 16
	c := NewCluster(t, 10, node.Finger)
	first := c.AddNode("")
	for i := 1; i < n; i++ {
		c.AddNode(first.Self().Addr)
	}
	c.Settle(40)

	nodes := c.Nodes()
	putFrom, getFrom := nodes[0], nodes[n/2]

	if env := Put(t, putFrom.Self().Addr, "hop-bound-key", "v3"); env.Method != wire.Ack {
		t.Fatalf("PUT reply = %v, want ACK", env.Method)
	}
	env := Get(t, getFrom.Self().Addr, "hop-bound-key")
	if env.Method != wire.Ack {
		t.Fatalf("GET reply = %v, want ACK", env.Method)
	}
	ack := env.Args.(wire.AckArgs)
	if !ack.Found || ack.Value != "v3" {
		t.Fatalf("GET ack = %+v, want Found=true Value=v3", ack)
	}
	maxHops := int(math.Ceil(math.Log2(n))) + 1
	if ack.Hops > maxHops {
		t.Errorf("GET took %d hops, want <= %d (ceil(log2(%d))+1)", ack.Hops, maxHops, n)
	}
}
