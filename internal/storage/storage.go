// Package storage implements the node's keystore.
package storage

import "chorddht/internal/ring"

// Keystore maps key identifiers to stored values. Implementations need not
// be safe for concurrent writers beyond the node's own single-writer
// message loop; Get/All are also called from client-facing introspection
// paths (§5 EXPANSION), so implementations guard their state with a mutex.
type Keystore interface {
	Put(res ring.Resource)
	Get(key ring.ID) (ring.Resource, bool)
	All() []ring.Resource
}
