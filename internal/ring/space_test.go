package ring

import "testing"

func TestNewSpace(t *testing.T) {
	if _, err := NewSpace(0); err == nil {
		t.Error("NewSpace(0) should fail")
	}
	sp, err := NewSpace(10)
	if err != nil {
		t.Fatalf("NewSpace(10) failed: %v", err)
	}
	if sp.ByteLen != 2 {
		t.Errorf("ByteLen = %d, want 2", sp.ByteLen)
	}
}

func TestIDFromStringDeterministic(t *testing.T) {
	sp, _ := NewSpace(10)
	a := sp.IDFromString("127.0.0.1:5000")
	b := sp.IDFromString("127.0.0.1:5000")
	if !a.Equal(b) {
		t.Fatalf("hashing the same string twice produced different ids: %s vs %s", a.Hex(), b.Hex())
	}
	if err := sp.IsValidID(a); err != nil {
		t.Errorf("derived id is not valid for its own space: %v", err)
	}
}

func TestFromHexStringRoundTrip(t *testing.T) {
	sp, _ := NewSpace(10)
	tests := []struct {
		name    string
		hex     string
		wantErr bool
	}{
		{"zero", "0x0000", false},
		{"max", "0x3ff", false},
		{"overflow", "0x400", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sp.FromHexString(tt.hex)
			if (err != nil) != tt.wantErr {
				t.Errorf("FromHexString(%q) error = %v, wantErr %v", tt.hex, err, tt.wantErr)
			}
		})
	}
}

func TestInArc(t *testing.T) {
	sp, _ := NewSpace(10)
	mk := func(v uint64) ID { return sp.FromUint64(v) }

	tests := []struct {
		name    string
		a, b, x uint64
		want    bool
	}{
		{"linear interior", 10, 20, 15, true},
		{"linear boundary upper inclusive", 10, 20, 20, true},
		{"linear boundary lower exclusive", 10, 20, 10, false},
		{"linear outside", 10, 20, 21, false},
		{"wrap interior above a", 1000, 5, 1010, true},
		{"wrap interior below b", 1000, 5, 3, true},
		{"wrap outside", 1000, 5, 500, false},
		{"whole ring when a==b", 42, 42, 999, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mk(tt.x).InArc(mk(tt.a), mk(tt.b))
			if got != tt.want {
				t.Errorf("InArc(%d,%d,%d) = %v, want %v", tt.a, tt.b, tt.x, got, tt.want)
			}
		})
	}
}

func TestInPredecessorArcNoPredecessor(t *testing.T) {
	sp, _ := NewSpace(10)
	self := sp.FromUint64(50)
	x := sp.FromUint64(900)
	if !InPredecessorArc(self, nil, x) {
		t.Error("with no predecessor, any candidate should be adopted")
	}
}

func TestInPredecessorArcExcludesSelf(t *testing.T) {
	sp, _ := NewSpace(10)
	self := sp.FromUint64(50)
	pred := sp.FromUint64(10)
	if InPredecessorArc(self, pred, self) {
		t.Error("a node cannot be its own predecessor candidate")
	}
}
