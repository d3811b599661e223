package node

import (
	"testing"
	"time"

	"chorddht/internal/logger"
	"chorddht/internal/ring"
	"chorddht/internal/storage"
	"chorddht/internal/transport"
)

func newTestNode(t *testing.T, sp ring.Space, addr string) *Node {
	t.Helper()
	tr, err := transport.Listen(addr)
	if err != nil {
		t.Fatalf("transport.Listen: %v", err)
	}
	t.Cleanup(func() { tr.Close() })
	self := ring.Node{ID: sp.IDFromString(tr.LocalAddr()), Addr: tr.LocalAddr()}
	return New(tr, sp, self, storage.NewMemory(logger.NopLogger{}), Baseline, 20*time.Millisecond, 20*time.Millisecond)
}

func TestCreateNewDHTIsSolitary(t *testing.T) {
	sp, _ := ring.NewSpace(10)
	n := newTestNode(t, sp, "127.0.0.1:0")
	n.CreateNewDHT()

	if !n.InsideDHT() {
		t.Fatal("expected InsideDHT true after CreateNewDHT")
	}
	if succ := n.Successor(); !succ.ID.Equal(n.self.ID) {
		t.Errorf("solitary node's successor = %v, want self %v", succ.ID.Hex(), n.self.ID.Hex())
	}
	if _, ok := n.Predecessor(); ok {
		t.Error("solitary node should have no predecessor")
	}
}
