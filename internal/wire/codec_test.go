package wire

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		env  Envelope
	}{
		{"join_req", Envelope{Method: JoinReq, Args: JoinReqArgs{ID: []byte{1, 2}, Addr: "127.0.0.1:5000"}}},
		{"join_rep", Envelope{Method: JoinRep, Args: JoinRepArgs{SuccessorID: []byte{3}, SuccessorAddr: "127.0.0.1:5001"}}},
		{"notify", Envelope{Method: Notify, Args: NotifyArgs{PredecessorID: []byte{9}, PredecessorAddr: "127.0.0.1:5002"}}},
		{"predecessor_empty", Envelope{Method: Predecessor}},
		{"stabilize_unset", Envelope{Method: Stabilize, Args: StabilizeArgs{}}},
		{"put", Envelope{Method: Put, Args: PutArgs{Key: "alpha", Value: "1", ClientAddr: "127.0.0.1:9000"}}},
		{"get", Envelope{Method: Get, Args: GetArgs{Key: "alpha", ClientAddr: "127.0.0.1:9000"}}},
		{"ack_value", Envelope{Method: Ack, Args: AckArgs{Found: true, Value: "1"}}},
		{"nack", Envelope{Method: Nack}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.env)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if len(data) == 0 {
				t.Fatal("Encode produced empty payload")
			}
			got, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if got.Method != tt.env.Method {
				t.Errorf("Method = %q, want %q", got.Method, tt.env.Method)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := Decode([]byte("not a gob stream")); err == nil {
		t.Error("expected Decode to reject a malformed datagram")
	}
}
