package node

import (
	"testing"

	"chorddht/internal/ring"
	"chorddht/internal/wire"
)

// TestHandleNotifyIdempotent establishes testable property 6 (spec §8):
// a repeated NOTIFY from the same already-adopted predecessor must leave
// state unchanged on the second delivery.
func TestHandleNotifyIdempotent(t *testing.T) {
	sp, _ := ring.NewSpace(10)
	n := newTestNode(t, sp, "127.0.0.1:0")
	n.CreateNewDHT()

	candidate := ring.Node{ID: sp.FromUint64(1), Addr: "127.0.0.1:9999"}
	args := wire.NotifyArgs{PredecessorID: candidate.ID, PredecessorAddr: candidate.Addr}

	n.handleNotify(args)
	first, ok := n.Predecessor()
	if !ok || !first.ID.Equal(candidate.ID) || first.Addr != candidate.Addr {
		t.Fatalf("after first NOTIFY, predecessor = %v (ok=%v), want %v", first, ok, candidate)
	}

	n.handleNotify(args)
	second, ok := n.Predecessor()
	if !ok || !second.ID.Equal(first.ID) || second.Addr != first.Addr {
		t.Errorf("after repeated NOTIFY, predecessor = %v (ok=%v), want unchanged %v", second, ok, first)
	}
}
