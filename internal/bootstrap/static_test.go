package bootstrap

import (
	"context"
	"testing"

	"chorddht/internal/ring"
)

func TestStaticDiscover(t *testing.T) {
	s := NewStatic([]string{"127.0.0.1:5000", "127.0.0.1:5001"})
	peers, err := s.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(peers) != 2 {
		t.Fatalf("Discover() = %v, want 2 peers", peers)
	}
	if err := s.Register(context.Background(), ring.Node{}); err != nil {
		t.Errorf("Register should be a no-op, got %v", err)
	}
}
