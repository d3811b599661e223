// Package transport wraps a UDP socket as the node's datagram endpoint,
// the connectionless substrate the message loop receives from and sends
// on (spec §5/§6).
package transport

import (
	"fmt"
	"net"
	"time"

	"chorddht/internal/wire"
)

// Transport is a node's UDP endpoint.
type Transport struct {
	conn *net.UDPConn
}

// Listen opens a UDP socket bound to addr ("host:port", "" host for
// wildcard, ":0" for an ephemeral port used by tests).
func Listen(addr string) (*Transport, error) {
	laddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: resolve %q: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, fmt.Errorf("transport: listen %q: %w", addr, err)
	}
	return &Transport{conn: conn}, nil
}

// LocalAddr returns the address this transport is actually bound to
// (resolves ":0" to the assigned ephemeral port).
func (t *Transport) LocalAddr() string {
	return t.conn.LocalAddr().String()
}

// Close releases the underlying socket.
func (t *Transport) Close() error {
	return t.conn.Close()
}

// SendTo encodes and sends an envelope to addr.
func (t *Transport) SendTo(addr string, e wire.Envelope) error {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return fmt.Errorf("transport: resolve %q: %w", addr, err)
	}
	data, err := wire.Encode(e)
	if err != nil {
		return err
	}
	if _, err := t.conn.WriteToUDP(data, raddr); err != nil {
		return fmt.Errorf("transport: send to %q: %w", addr, err)
	}
	return nil
}

// ReceiveTimeout blocks for at most timeout waiting for one datagram. A
// timeout is reported via net.Error.Timeout(), not as a generic error —
// the message loop treats it as the stabilization tick, not a failure.
func (t *Transport) ReceiveTimeout(timeout time.Duration) (wire.Envelope, string, error) {
	if err := t.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return wire.Envelope{}, "", fmt.Errorf("transport: set deadline: %w", err)
	}
	buf := make([]byte, wire.MaxDatagramSize)
	n, raddr, err := t.conn.ReadFromUDP(buf)
	if err != nil {
		return wire.Envelope{}, "", err
	}
	e, err := wire.Decode(buf[:n])
	if err != nil {
		return wire.Envelope{}, raddr.String(), err
	}
	return e, raddr.String(), nil
}

// IsTimeout reports whether err is the "no datagram within the window"
// condition that drives the stabilization tick.
func IsTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}
