package storage

import (
	"testing"

	"chorddht/internal/logger"
	"chorddht/internal/ring"
)

func TestMemoryPutGet(t *testing.T) {
	sp, _ := ring.NewSpace(10)
	m := NewMemory(logger.NopLogger{})

	key := sp.IDFromString("alpha")
	if _, ok := m.Get(key); ok {
		t.Fatal("Get on empty store should miss")
	}

	m.Put(ring.Resource{Key: key, RawKey: "alpha", Value: "1"})
	got, ok := m.Get(key)
	if !ok {
		t.Fatal("Get should find the stored value")
	}
	if got.Value != "1" {
		t.Errorf("Value = %q, want %q", got.Value, "1")
	}

	m.Put(ring.Resource{Key: key, RawKey: "alpha", Value: "2"})
	got, _ = m.Get(key)
	if got.Value != "2" {
		t.Errorf("overwrite failed: Value = %q, want %q", got.Value, "2")
	}

	if len(m.All()) != 1 {
		t.Errorf("All() len = %d, want 1", len(m.All()))
	}
}
