// Package bootstrap resolves the set of known peer addresses a joining
// node should try, and — for discovery backends that need it — publishes
// this node's own address so later joiners can find it.
package bootstrap

import (
	"context"

	"chorddht/internal/ring"
)

// Bootstrap is a peer-discovery strategy.
type Bootstrap interface {
	// Discover returns known peer addresses, most-recently-registered
	// first where the backend can order them; an empty slice (not an
	// error) means "no peers known yet — this node should create the ring."
	Discover(ctx context.Context) ([]string, error)
	// Register publishes node's own address, if the backend needs it
	// (static and DNS do nothing; Route53 writes a record).
	Register(ctx context.Context, node ring.Node) error
	// Deregister removes whatever Register published.
	Deregister(ctx context.Context, node ring.Node) error
}
