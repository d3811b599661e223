package transport

import (
	"testing"
	"time"

	"chorddht/internal/wire"
)

func TestSendReceiveRoundTrip(t *testing.T) {
	a, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen a: %v", err)
	}
	defer a.Close()
	b, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen b: %v", err)
	}
	defer b.Close()

	want := wire.Envelope{Method: wire.Put, Args: wire.PutArgs{Key: "k", Value: "v", ClientAddr: a.LocalAddr()}}
	if err := a.SendTo(b.LocalAddr(), want); err != nil {
		t.Fatalf("SendTo: %v", err)
	}

	got, from, err := b.ReceiveTimeout(time.Second)
	if err != nil {
		t.Fatalf("ReceiveTimeout: %v", err)
	}
	if got.Method != want.Method {
		t.Errorf("Method = %q, want %q", got.Method, want.Method)
	}
	if from != a.LocalAddr() {
		t.Errorf("from = %q, want %q", from, a.LocalAddr())
	}
}

func TestReceiveTimeout(t *testing.T) {
	a, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer a.Close()

	_, _, err = a.ReceiveTimeout(50 * time.Millisecond)
	if err == nil {
		t.Fatal("expected a timeout error on an idle socket")
	}
	if !IsTimeout(err) {
		t.Errorf("IsTimeout(%v) = false, want true", err)
	}
}
