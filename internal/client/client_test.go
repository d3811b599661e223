package client

import (
	"testing"
	"time"

	"chorddht/internal/logger"
	"chorddht/internal/node"
	"chorddht/internal/ring"
	"chorddht/internal/storage"
	"chorddht/internal/transport"
)

func TestPutGetRoundTrip(t *testing.T) {
	sp, _ := ring.NewSpace(10)
	tr, err := transport.Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("transport.Listen: %v", err)
	}
	defer tr.Close()
	self := ring.Node{ID: sp.IDFromString(tr.LocalAddr()), Addr: tr.LocalAddr()}
	n := node.New(tr, sp, self, storage.NewMemory(logger.NopLogger{}), node.Baseline, 20*time.Millisecond, 20*time.Millisecond)
	n.CreateNewDHT()
	go n.Run(t.Context())

	c := New(2 * time.Second)
	if err := c.Put(self.Addr, "k", "v"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	val, found, err := c.Get(self.Addr, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found || val != "v" {
		t.Errorf("Get = (%q, %v), want (v, true)", val, found)
	}

	_, found, err = c.Get(self.Addr, "missing")
	if err != nil {
		t.Fatalf("Get(missing): %v", err)
	}
	if found {
		t.Error("Get(missing) should report found=false")
	}
}
