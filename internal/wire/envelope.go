// Package wire defines the datagram envelope exchanged between nodes and
// between clients and nodes, and its gob-based codec.
package wire

// Method is the closed set of message tags a node recognizes on its
// datagram socket.
type Method string

const (
	JoinReq      Method = "JOIN_REQ"
	JoinRep      Method = "JOIN_REP"
	Notify       Method = "NOTIFY"
	Predecessor  Method = "PREDECESSOR"
	Stabilize    Method = "STABILIZE"
	Put          Method = "PUT"
	Get          Method = "GET"
	Ack          Method = "ACK"
	Nack         Method = "NACK"
)

// Envelope is the self-describing structured value carried by every
// datagram: a method tag plus a method-specific payload. Args is decoded
// into the concrete payload type the method tag implies; callers type-
// assert it after Decode.
type Envelope struct {
	Method Method
	Args   any
}

// JoinReqArgs is the JOIN_REQ payload: the joining node's own id/address.
type JoinReqArgs struct {
	ID   []byte
	Addr string
}

// JoinRepArgs is the JOIN_REP payload: the successor assigned to the
// joining node.
type JoinRepArgs struct {
	SuccessorID   []byte
	SuccessorAddr string
}

// NotifyArgs is the NOTIFY payload: the sender's belief about who its
// predecessor is.
type NotifyArgs struct {
	PredecessorID   []byte
	PredecessorAddr string
}

// StabilizeArgs is the STABILIZE payload: the responder's predecessor id,
// possibly unset (nil/empty).
type StabilizeArgs struct {
	PredecessorID []byte
}

// PutArgs is the PUT payload. Trace carries a W3C trace-context carrier
// (see internal/telemetry/lookuptrace) so a lookup's span stays linked
// across forwarding hops; it is empty when tracing is disabled. Hops
// counts the number of forwarding hops taken so far, incremented each
// time a node forwards rather than serves the request locally — it
// backs the hop-count span attribute spec §4.4's EXPANSION calls for.
type PutArgs struct {
	Key        string
	Value      string
	ClientAddr string
	Trace      map[string]string
	Hops       int
}

// GetArgs is the GET payload. Trace and Hops are as PutArgs.
type GetArgs struct {
	Key        string
	ClientAddr string
	Trace      map[string]string
	Hops       int
}

// AckArgs is the ACK payload for GET (the retrieved value) and PUT (Hops
// only). Hops mirrors the originating PutArgs/GetArgs.Hops as seen by the
// owning node, letting a caller observe the hop count a lookup actually
// took (spec §4.4 EXPANSION, testable property 5). Every PREDECESSOR/NACK
// carries no payload (Args is nil).
type AckArgs struct {
	Found bool
	Value string
	Hops  int
}
