package routingtable

import (
	"testing"

	"chorddht/internal/logger"
	"chorddht/internal/ring"
)

func TestClosestPrecedingFinger(t *testing.T) {
	sp, _ := ring.NewSpace(10)
	ft := New(logger.NopLogger{})
	ft.Insert(sp.FromUint64(100), "100addr")
	ft.Insert(sp.FromUint64(300), "300addr")
	ft.Insert(sp.FromUint64(700), "700addr")

	self := sp.FromUint64(10)
	target := sp.FromUint64(650)

	addr, ok := ft.ClosestPrecedingFinger(self, target)
	if !ok {
		t.Fatal("expected a finger to qualify")
	}
	if addr != "300addr" {
		t.Errorf("ClosestPrecedingFinger = %q, want %q", addr, "300addr")
	}
}

func TestClosestPrecedingFingerNoneQualify(t *testing.T) {
	sp, _ := ring.NewSpace(10)
	ft := New(logger.NopLogger{})
	ft.Insert(sp.FromUint64(900), "900addr")

	self := sp.FromUint64(10)
	target := sp.FromUint64(20)

	if _, ok := ft.ClosestPrecedingFinger(self, target); ok {
		t.Error("no finger should qualify when every finger is outside (self, target)")
	}
}

func TestSmallest(t *testing.T) {
	sp, _ := ring.NewSpace(10)
	ft := New(logger.NopLogger{})
	if _, _, ok := ft.Smallest(); ok {
		t.Fatal("empty table should report !ok")
	}
	ft.Insert(sp.FromUint64(500), "500addr")
	ft.Insert(sp.FromUint64(50), "50addr")
	id, addr, ok := ft.Smallest()
	if !ok || addr != "50addr" || id.Cmp(sp.FromUint64(50)) != 0 {
		t.Errorf("Smallest() = %v %v %v, want id=50 addr=50addr", id, addr, ok)
	}
}
