// Package routingtable implements the finger-table variant's "shortcut"
// entries (spec §4.6). The baseline variant needs none of this — it
// routes purely off the successor/predecessor pair held in node.Node.
package routingtable

import (
	"sort"
	"sync"

	"chorddht/internal/logger"
	"chorddht/internal/ring"
)

// FingerTable is an ordered map from peer id to peer address, populated
// opportunistically as the node learns of peers (at minimum the owning
// node's successor, inserted each time the node sets it). Entries are
// never removed.
type FingerTable struct {
	lgr logger.Logger
	mu  sync.RWMutex
	// entries maps the hex encoding of a ring.ID to the peer's address,
	// kept alongside a sorted key slice for ordered scans.
	entries map[string]string
	order   []ring.ID
}

// New builds an empty finger table.
func New(lgr logger.Logger) *FingerTable {
	return &FingerTable{lgr: lgr, entries: make(map[string]string)}
}

// Insert adds or updates a peer entry.
func (ft *FingerTable) Insert(id ring.ID, addr string) {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	key := id.Hex()
	if _, exists := ft.entries[key]; !exists {
		ft.order = append(ft.order, append(ring.ID(nil), id...))
		sort.Slice(ft.order, func(i, j int) bool { return ft.order[i].Cmp(ft.order[j]) < 0 })
	}
	ft.entries[key] = addr
	ft.lgr.Debug("finger table entry inserted", logger.F("id", key), logger.F("addr", addr))
}

// Smallest returns the entry with the numerically smallest id and its
// address, and whether the table is non-empty. This is not necessarily
// the owning node's immediate successor: ids are compared as plain
// integers, without regard to the owning node's position on the ring.
func (ft *FingerTable) Smallest() (ring.ID, string, bool) {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	if len(ft.order) == 0 {
		return nil, "", false
	}
	id := ft.order[0]
	return id, ft.entries[id.Hex()], true
}

// ClosestPrecedingFinger scans finger ids in descending order and returns
// the address of the finger whose id most closely precedes h on the ring
// — the entry strictly inside the open arc (self, h) nearest to h. Ids
// below h are scanned first, so that when the arc wraps through zero the
// entries just below h win over those just above self. ok is false if no
// finger qualifies.
func (ft *FingerTable) ClosestPrecedingFinger(selfID, h ring.ID) (addr string, ok bool) {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	for pass := 0; pass < 2; pass++ {
		for i := len(ft.order) - 1; i >= 0; i-- {
			id := ft.order[i]
			if pass == 0 && id.Cmp(h) >= 0 {
				continue
			}
			if id.InArc(selfID, h) && !id.Equal(h) {
				return ft.entries[id.Hex()], true
			}
		}
	}
	return "", false
}
