// Package client provides the UDP-based request/reply helpers used by
// cmd/client and cmd/tester to talk to a running node from outside the
// ring. Unlike the teacher's gRPC client pool, there is no connection to
// hold open — each call opens an ephemeral socket, sends one envelope,
// and waits for the matching reply with a timeout.
package client

import (
	"errors"
	"fmt"
	"net"
	"time"

	"chorddht/internal/transport"
	"chorddht/internal/wire"
)

// ErrTimeout is returned when no reply arrives within the call's timeout.
var ErrTimeout = errors.New("client: timed out waiting for reply")

// Client issues requests to DHT nodes over UDP.
type Client struct {
	timeout time.Duration
}

// New builds a Client with the given per-call timeout.
func New(timeout time.Duration) *Client {
	return &Client{timeout: timeout}
}

// Put stores key/value at whichever node owns key, routed through addr.
// It returns ErrTimeout if no reply arrives in time, an error if the
// socket cannot be opened or the request sent, and an error if the reply
// is anything other than ACK (such as a routing dead-end's NACK).
func (c *Client) Put(addr, key, value string) error {
	env, err := c.call(addr, wire.Envelope{Method: wire.Put, Args: wire.PutArgs{Key: key, Value: value}})
	if err != nil {
		return err
	}
	if env.Method != wire.Ack {
		return fmt.Errorf("client: put %q: got %s, want ACK", key, env.Method)
	}
	return nil
}

// Get retrieves the value for key, routed through addr. found is false
// if the key was never stored (spec §4.7's distinguished not-found
// reply), not an error.
func (c *Client) Get(addr, key string) (value string, found bool, err error) {
	env, err := c.call(addr, wire.Envelope{Method: wire.Get, Args: wire.GetArgs{Key: key}})
	if err != nil {
		return "", false, err
	}
	if env.Method != wire.Ack {
		return "", false, fmt.Errorf("client: get %q: got %s, want ACK", key, env.Method)
	}
	ack, ok := env.Args.(wire.AckArgs)
	if !ok {
		return "", false, fmt.Errorf("client: get %q: malformed ACK payload", key)
	}
	return ack.Value, ack.Found, nil
}

// call opens an ephemeral socket, sends req to addr with the client's own
// address filled in so the eventual owner can reply directly, and waits
// for one datagram.
func (c *Client) call(addr string, req wire.Envelope) (wire.Envelope, error) {
	tr, err := transport.Listen(":0")
	if err != nil {
		return wire.Envelope{}, fmt.Errorf("client: open socket: %w", err)
	}
	defer tr.Close()

	switch args := req.Args.(type) {
	case wire.PutArgs:
		args.ClientAddr = tr.LocalAddr()
		req.Args = args
	case wire.GetArgs:
		args.ClientAddr = tr.LocalAddr()
		req.Args = args
	}

	if err := tr.SendTo(addr, req); err != nil {
		return wire.Envelope{}, fmt.Errorf("client: send to %s: %w", addr, err)
	}
	env, _, err := tr.ReceiveTimeout(c.timeout)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return wire.Envelope{}, ErrTimeout
		}
		return wire.Envelope{}, fmt.Errorf("client: receive: %w", err)
	}
	return env, nil
}
