package storage

import (
	"sync"

	"chorddht/internal/logger"
	"chorddht/internal/ring"
)

// Memory is an in-memory Keystore. Per spec.md's Non-goals there is no
// persistence across restarts and no replication, so this is the only
// implementation the node needs.
type Memory struct {
	lgr  logger.Logger
	mu   sync.RWMutex
	data map[string]ring.Resource
}

// NewMemory builds an empty in-memory keystore.
func NewMemory(lgr logger.Logger) *Memory {
	return &Memory{
		lgr:  lgr,
		data: make(map[string]ring.Resource),
	}
}

// Put inserts res, overwriting any prior value for the same key.
func (m *Memory) Put(res ring.Resource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[res.Key.Hex()] = res
	m.lgr.Debug("stored resource", logger.F("key", res.RawKey), logger.F("hash", res.Key.Hex()))
}

// Get looks up key, reporting whether it was found.
func (m *Memory) Get(key ring.ID) (ring.Resource, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res, ok := m.data[key.Hex()]
	return res, ok
}

// All returns every stored resource, for introspection.
func (m *Memory) All() []ring.Resource {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ring.Resource, 0, len(m.data))
	for _, res := range m.data {
		out = append(out, res)
	}
	return out
}
